package models

import "time"

// Property types and furnishing levels offered on the site.
const (
	TypeApartment        = "apartment"
	TypeVilla            = "villa"
	TypeStudio           = "studio"
	TypePenthouse        = "penthouse"
	TypePG               = "pg"
	TypeIndependentHouse = "independent_house"
	TypeFarmhouse        = "farmhouse"

	Furnished     = "furnished"
	SemiFurnished = "semi-furnished"
	Unfurnished   = "unfurnished"
)

var PropertyTypes = []string{
	TypeApartment, TypeVilla, TypeStudio, TypePenthouse, TypePG, TypeIndependentHouse, TypeFarmhouse,
}

// Property is a rental listing, table properties.
type Property struct {
	ID            int        `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null;index" json:"title"`
	Slug          string     `gorm:"size:255;uniqueIndex" json:"slug"`
	Price         string     `gorm:"size:100;not null" json:"price"`
	Location      string     `gorm:"size:255;not null;default:Gurgaon" json:"location"`
	Area          string     `gorm:"size:100" json:"area,omitempty"`
	City          string     `gorm:"size:100;not null;default:Gurgaon;index" json:"city"`
	PropertyType  string     `gorm:"size:50;default:apartment;index" json:"property_type"`
	Bedrooms      *int       `json:"bedrooms,omitempty"`
	Bathrooms     *int       `json:"bathrooms,omitempty"`
	AreaSqft      *int       `json:"area_sqft,omitempty"`
	Furnishing    string     `gorm:"size:50;default:furnished" json:"furnishing"`
	ImageURL      string     `gorm:"size:1024" json:"image_url,omitempty"`
	Images        []string   `gorm:"type:text;serializer:json" json:"images"`
	Amenities     string     `gorm:"type:text;not null" json:"amenities"`
	Highlights    string     `gorm:"type:text" json:"highlights,omitempty"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	IsAvailable   bool       `gorm:"index" json:"is_available"`
	AvailableFrom *time.Time `json:"available_from,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AmenityList splits the comma separated amenities column.
func (p Property) AmenityList() []string {
	return splitList(p.Amenities)
}

func (p Property) HighlightList() []string {
	return splitList(p.Highlights)
}

// Cover returns the main image, falling back to the first gallery image.
func (p Property) Cover() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// PropertyRequest is the payload for creating a listing (POST /api/v1/properties).
type PropertyRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=255"`
	Price         string     `json:"price" validate:"required,min=1,max=100"`
	Location      string     `json:"location" validate:"max=255"`
	Area          string     `json:"area" validate:"max=100"`
	City          string     `json:"city" validate:"max=100"`
	PropertyType  string     `json:"property_type" validate:"omitempty,max=50"`
	Bedrooms      *int       `json:"bedrooms" validate:"omitempty,min=0,max=10"`
	Bathrooms     *int       `json:"bathrooms" validate:"omitempty,min=0,max=10"`
	AreaSqft      *int       `json:"area_sqft" validate:"omitempty,min=0"`
	Furnishing    string     `json:"furnishing" validate:"omitempty,max=50"`
	ImageURL      string     `json:"image_url" validate:"omitempty,max=1024"`
	Images        []string   `json:"images"`
	Amenities     string     `json:"amenities" validate:"max=1000"`
	Highlights    string     `json:"highlights"`
	Description   string     `json:"description"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	IsAvailable   *bool      `json:"is_available"`
	AvailableFrom *time.Time `json:"available_from"`
}

// PropertyUpdate is a partial update; nil fields are left untouched.
type PropertyUpdate struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Price         *string    `json:"price" validate:"omitempty,min=1,max=100"`
	Location      *string    `json:"location" validate:"omitempty,max=255"`
	Area          *string    `json:"area" validate:"omitempty,max=100"`
	City          *string    `json:"city" validate:"omitempty,max=100"`
	PropertyType  *string    `json:"property_type" validate:"omitempty,max=50"`
	Bedrooms      *int       `json:"bedrooms" validate:"omitempty,min=0,max=10"`
	Bathrooms     *int       `json:"bathrooms" validate:"omitempty,min=0,max=10"`
	AreaSqft      *int       `json:"area_sqft" validate:"omitempty,min=0"`
	Furnishing    *string    `json:"furnishing" validate:"omitempty,max=50"`
	ImageURL      *string    `json:"image_url" validate:"omitempty,max=1024"`
	Images        []string   `json:"images"`
	Amenities     *string    `json:"amenities" validate:"omitempty,max=1000"`
	Highlights    *string    `json:"highlights"`
	Description   *string    `json:"description"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	IsAvailable   *bool      `json:"is_available"`
	AvailableFrom *time.Time `json:"available_from"`
}

// ToProperty applies defaults the way the listing form expects them.
func (r PropertyRequest) ToProperty() Property {
	p := Property{
		Title:         r.Title,
		Price:         r.Price,
		Location:      orDefault(r.Location, "Gurgaon"),
		Area:          r.Area,
		City:          orDefault(r.City, "Gurgaon"),
		PropertyType:  orDefault(r.PropertyType, TypeApartment),
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		AreaSqft:      r.AreaSqft,
		Furnishing:    orDefault(r.Furnishing, Furnished),
		ImageURL:      r.ImageURL,
		Images:        r.Images,
		Amenities:     orDefault(r.Amenities, "Wifi, AC, Power Backup"),
		Highlights:    r.Highlights,
		Description:   r.Description,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		IsAvailable:   true,
		AvailableFrom: r.AvailableFrom,
	}
	if r.IsAvailable != nil {
		p.IsAvailable = *r.IsAvailable
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

// Apply copies the set fields onto p. It reports whether the title changed.
func (u PropertyUpdate) Apply(p *Property) (titleChanged bool) {
	if u.Title != nil && *u.Title != p.Title {
		p.Title = *u.Title
		titleChanged = true
	}
	setString(&p.Price, u.Price)
	setString(&p.Location, u.Location)
	setString(&p.Area, u.Area)
	setString(&p.City, u.City)
	setString(&p.PropertyType, u.PropertyType)
	setString(&p.Furnishing, u.Furnishing)
	setString(&p.ImageURL, u.ImageURL)
	setString(&p.Amenities, u.Amenities)
	setString(&p.Highlights, u.Highlights)
	setString(&p.Description, u.Description)
	if u.Bedrooms != nil {
		p.Bedrooms = u.Bedrooms
	}
	if u.Bathrooms != nil {
		p.Bathrooms = u.Bathrooms
	}
	if u.AreaSqft != nil {
		p.AreaSqft = u.AreaSqft
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Latitude != nil {
		p.Latitude = u.Latitude
	}
	if u.Longitude != nil {
		p.Longitude = u.Longitude
	}
	if u.IsAvailable != nil {
		p.IsAvailable = *u.IsAvailable
	}
	if u.AvailableFrom != nil {
		p.AvailableFrom = u.AvailableFrom
	}
	return titleChanged
}

// SearchRequest is the body of POST /api/v1/properties/search.
type SearchRequest struct {
	Query        string `json:"query"`
	Location     string `json:"location"`
	City         string `json:"city"`
	PropertyType string `json:"property_type"`
	MinPrice     *int   `json:"min_price" validate:"omitempty,min=0"`
	MaxPrice     *int   `json:"max_price" validate:"omitempty,min=0"`
	Bedrooms     *int   `json:"bedrooms" validate:"omitempty,min=0"`
	IsAvailable  *bool  `json:"is_available"`
	Page         int    `json:"page" validate:"omitempty,min=1"`
	PageSize     int    `json:"page_size" validate:"omitempty,min=1"`
}

type SearchResponse struct {
	Items          []Property     `json:"items"`
	Total          int            `json:"total"`
	Page           int            `json:"page"`
	PageSize       int            `json:"page_size"`
	TotalPages     int            `json:"total_pages"`
	Query          string         `json:"query,omitempty"`
	FiltersApplied map[string]any `json:"filters_applied"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type PropertyStats struct {
	TotalProperties     int         `json:"total_properties"`
	AvailableProperties int         `json:"available_properties"`
	RentedProperties    int         `json:"rented_properties"`
	PropertyTypes       []TypeCount `json:"property_types"`
	TopLocations        []CityCount `json:"top_locations"`
}
