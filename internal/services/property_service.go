package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"IndoHomz/internal/catalog"
	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"
)

// PropertyService owns listing rules: slugs, soft delete, featured picks and stats.
type PropertyService interface {
	List(ctx context.Context, f catalog.Filter, skip, limit int) ([]models.Property, error)
	Featured(ctx context.Context, limit int) ([]models.Property, error)
	Available(ctx context.Context, skip, limit int) ([]models.Property, error)
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	Grid(ctx context.Context, f catalog.Filter) ([]models.Property, error)
	Get(ctx context.Context, id int) (*models.Property, error)
	GetBySlug(ctx context.Context, slug string) (*models.Property, error)
	Create(ctx context.Context, req models.PropertyRequest) (*models.Property, error)
	Update(ctx context.Context, id int, upd models.PropertyUpdate) (*models.Property, error)
	SetAvailability(ctx context.Context, id int, available bool) (*models.Property, error)
	Delete(ctx context.Context, id int, permanent bool) error
	Stats(ctx context.Context) (*models.PropertyStats, error)
	Types(ctx context.Context) ([]string, error)
	CreatedSince(ctx context.Context, since time.Time) (int64, error)
}

const (
	DefaultFeaturedLimit = 6
	MaxFeaturedLimit     = 12
	topLocations         = 5
)

// Paging holds the page sizes used by Search. Zero values fall back to
// 12 per page and at most catalog.DefaultMaxPageSize.
type Paging struct {
	Default int
	Max     int
}

type propertyService struct {
	repo   repositories.PropertyRepository
	paging Paging
}

func NewPropertyService(repo repositories.PropertyRepository, paging Paging) PropertyService {
	if paging.Max < 1 {
		paging.Max = catalog.DefaultMaxPageSize
	}
	if paging.Default < 1 || paging.Default > paging.Max {
		paging.Default = min(12, paging.Max)
	}
	return &propertyService{repo: repo, paging: paging}
}

func (s *propertyService) List(ctx context.Context, f catalog.Filter, skip, limit int) ([]models.Property, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Window(f.Apply(all), skip, limit), nil
}

// Grid is the unpaged filtered list behind the HTML property grid.
func (s *propertyService) Grid(ctx context.Context, f catalog.Filter) ([]models.Property, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

// Featured returns the newest available listings.
func (s *propertyService) Featured(ctx context.Context, limit int) ([]models.Property, error) {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	if limit > MaxFeaturedLimit {
		limit = MaxFeaturedLimit
	}
	return s.List(ctx, catalog.Filter{Availability: catalog.AvailabilityAvailable}, 0, limit)
}

func (s *propertyService) Available(ctx context.Context, skip, limit int) ([]models.Property, error) {
	return s.List(ctx, catalog.Filter{Availability: catalog.AvailabilityAvailable}, skip, limit)
}

// Search pages through every match; Total counts all of them, not just the page.
func (s *propertyService) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	f := catalog.Filter{
		Query:    req.Query,
		Type:     req.PropertyType,
		City:     req.City,
		Location: req.Location,
		Bedrooms: req.Bedrooms,
	}
	applied := map[string]any{}
	if req.City != "" {
		applied["city"] = req.City
	}
	if req.Location != "" {
		applied["location"] = req.Location
	}
	if req.PropertyType != "" {
		applied["property_type"] = req.PropertyType
	}
	if req.Bedrooms != nil {
		applied["bedrooms"] = *req.Bedrooms
	}
	if req.IsAvailable != nil {
		applied["is_available"] = *req.IsAvailable
		f.Availability = catalog.AvailabilityRented
		if *req.IsAvailable {
			f.Availability = catalog.AvailabilityAvailable
		}
	}
	if req.MinPrice != nil {
		v := float64(*req.MinPrice)
		f.MinPrice = &v
		applied["min_price"] = *req.MinPrice
	}
	if req.MaxPrice != nil {
		v := float64(*req.MaxPrice)
		f.MaxPrice = &v
		applied["max_price"] = *req.MaxPrice
	}

	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = s.paging.Default
	}
	if size > s.paging.Max {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation,
			fmt.Sprintf("page_size must be between 1 and %d", s.paging.Max), nil)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	p := catalog.Paginate(f.Apply(all), page, size, s.paging.Max)
	return &models.SearchResponse{
		Items:          p.Items,
		Total:          p.Total,
		Page:           p.Page,
		PageSize:       p.PageSize,
		TotalPages:     p.TotalPages,
		Query:          req.Query,
		FiltersApplied: applied,
	}, nil
}

func (s *propertyService) Get(ctx context.Context, id int) (*models.Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *propertyService) GetBySlug(ctx context.Context, slug string) (*models.Property, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *propertyService) Create(ctx context.Context, req models.PropertyRequest) (*models.Property, error) {
	p := req.ToProperty()
	slug, err := s.uniqueSlug(ctx, p.Title, 0)
	if err != nil {
		return nil, err
	}
	p.Slug = slug
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *propertyService) Update(ctx context.Context, id int, upd models.PropertyUpdate) (*models.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Apply(p) {
		slug, err := s.uniqueSlug(ctx, p.Title, p.ID)
		if err != nil {
			return nil, err
		}
		p.Slug = slug
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propertyService) SetAvailability(ctx context.Context, id int, available bool) (*models.Property, error) {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete marks the listing unavailable unless permanent is set.
func (s *propertyService) Delete(ctx context.Context, id int, permanent bool) error {
	if permanent {
		return s.repo.Delete(ctx, id)
	}
	return s.repo.SetAvailability(ctx, id, false)
}

func (s *propertyService) Stats(ctx context.Context) (*models.PropertyStats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	st := &models.PropertyStats{
		TotalProperties: len(all),
		PropertyTypes:   []models.TypeCount{},
		TopLocations:    []models.CityCount{},
	}
	byType := map[string]int{}
	byCity := map[string]int{}
	for _, p := range all {
		if p.IsAvailable {
			st.AvailableProperties++
		}
		byType[p.PropertyType]++
		byCity[p.City]++
	}
	st.RentedProperties = st.TotalProperties - st.AvailableProperties

	for t, n := range byType {
		st.PropertyTypes = append(st.PropertyTypes, models.TypeCount{Type: t, Count: n})
	}
	sort.Slice(st.PropertyTypes, func(i, j int) bool {
		a, b := st.PropertyTypes[i], st.PropertyTypes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Type < b.Type
	})

	for c, n := range byCity {
		st.TopLocations = append(st.TopLocations, models.CityCount{City: c, Count: n})
	}
	sort.Slice(st.TopLocations, func(i, j int) bool {
		a, b := st.TopLocations[i], st.TopLocations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.City < b.City
	})
	if len(st.TopLocations) > topLocations {
		st.TopLocations = st.TopLocations[:topLocations]
	}
	return st, nil
}

func (s *propertyService) Types(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Types(all), nil
}

func (s *propertyService) CreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.repo.CountCreatedSince(ctx, since)
}

// uniqueSlug tries base, base-1, base-2, ... skipping the row being updated.
func (s *propertyService) uniqueSlug(ctx context.Context, title string, selfID int) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "property"
	}
	slug := base
	for i := 1; ; i++ {
		taken, err := s.repo.SlugExists(ctx, slug, selfID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
