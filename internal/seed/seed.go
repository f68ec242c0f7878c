// Package seed loads property listings from JSON or YAML files into the
// database. A default dataset is embedded for fresh installs.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"IndoHomz/internal/logger"
	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed data/properties.yaml
var defaultData embed.FS

// placeholderImages are handed out in order to listings without an image.
var placeholderImages = []string{
	"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1600585154340-be6161a56a0c?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1600566753190-17f0baa2a6c3?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1600585154526-990dced4db0d?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1600573472592-401b489a3cdc?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1570129477492-45c003edd2be?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1580587771525-78b9dba3b914?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1583608205776-bfd35f0d9f83?w=800&h=600&fit=crop",
}

// Item is one listing in a seed file. Price may be a display string or a
// plain monthly amount in rupees.
type Item struct {
	Title        string   `json:"title" yaml:"title"`
	Price        any      `json:"price" yaml:"price"`
	Location     string   `json:"location" yaml:"location"`
	Area         string   `json:"area" yaml:"area"`
	City         string   `json:"city" yaml:"city"`
	PropertyType string   `json:"property_type" yaml:"property_type"`
	Bedrooms     *int     `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms" yaml:"bathrooms"`
	AreaSqft     *int     `json:"area_sqft" yaml:"area_sqft"`
	Furnishing   string   `json:"furnishing" yaml:"furnishing"`
	ImageURL     string   `json:"image_url" yaml:"image_url"`
	Images       []string `json:"images" yaml:"images"`
	Amenities    string   `json:"amenities" yaml:"amenities"`
	Highlights   string   `json:"highlights" yaml:"highlights"`
	Description  string   `json:"description" yaml:"description"`
	Latitude     *float64 `json:"latitude" yaml:"latitude"`
	Longitude    *float64 `json:"longitude" yaml:"longitude"`
	IsAvailable  *bool    `json:"is_available" yaml:"is_available"`
}

type Options struct {
	Clear bool
	// NoImages leaves image_url empty instead of assigning a placeholder.
	NoImages bool
	// ImageDir is the directory served at /images/. Local image paths whose
	// file is missing there are dropped.
	ImageDir string
}

type Result struct {
	Created int
	Skipped int
	Cleared int64
}

// Default returns the embedded dataset.
func Default() ([]Item, error) {
	raw, err := defaultData.ReadFile("data/properties.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(raw, ".yaml")
}

// Load reads a seed file; the format follows the extension.
func Load(path string) ([]Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

func Parse(raw []byte, ext string) ([]Item, error) {
	var items []Item
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}
	return items, nil
}

// Run inserts items, skipping any whose slug is already taken.
func Run(ctx context.Context, repo repositories.PropertyRepository, items []Item, opts Options) (Result, error) {
	var res Result
	if opts.Clear {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			return res, fmt.Errorf("clear properties: %w", err)
		}
		res.Cleared = n
		logger.Log.WithField("count", n).Info("cleared existing properties")
	}

	for i, it := range items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = fmt.Sprintf("Property %d", i+1)
		}
		slug := utils.Slugify(title)
		exists, err := repo.SlugExists(ctx, slug, 0)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}

		p := toProperty(it, title, slug)
		p.ImageURL, p.Images = localImages(opts.ImageDir, p.ImageURL, p.Images)
		if p.ImageURL == "" && len(p.Images) == 0 && !opts.NoImages {
			p.ImageURL = placeholderImages[i%len(placeholderImages)]
		}
		if err := repo.Create(ctx, &p); err != nil {
			return res, fmt.Errorf("create %q: %w", title, err)
		}
		res.Created++
	}

	logger.Log.WithFields(logrus.Fields{
		"created": res.Created,
		"skipped": res.Skipped,
	}).Info("seeding complete")
	return res, nil
}

func toProperty(it Item, title, slug string) models.Property {
	bedrooms := it.Bedrooms
	if bedrooms == nil {
		bedrooms = DetectBedrooms(title)
	}
	bathrooms := it.Bathrooms
	if bathrooms == nil {
		n := 1
		if bedrooms != nil && *bedrooms > 0 {
			n = *bedrooms
		}
		bathrooms = &n
	}
	ptype := it.PropertyType
	if ptype == "" {
		ptype = DetectType(title)
	}
	location := orDefault(it.Location, "Gurgaon")
	amenities := orDefault(it.Amenities, "Wifi, AC, Power Backup")
	description := it.Description
	if description == "" {
		description = describe(title, location, amenities)
	}
	available := true
	if it.IsAvailable != nil {
		available = *it.IsAvailable
	}
	images := it.Images
	if images == nil {
		images = []string{}
	}

	return models.Property{
		Title:        title,
		Slug:         slug,
		Price:        FormatPrice(it.Price),
		Location:     location,
		Area:         it.Area,
		City:         orDefault(it.City, "Gurgaon"),
		PropertyType: ptype,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		AreaSqft:     it.AreaSqft,
		Furnishing:   orDefault(it.Furnishing, models.Furnished),
		ImageURL:     it.ImageURL,
		Images:       images,
		Amenities:    amenities,
		Highlights:   it.Highlights,
		Description:  description,
		Latitude:     it.Latitude,
		Longitude:    it.Longitude,
		IsAvailable:  available,
	}
}

// DetectType guesses the property type from a title. "farmhouse" is
// checked before the generic house/home match.
func DetectType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "villa"), strings.Contains(t, "bungalow"):
		return models.TypeVilla
	case strings.Contains(t, "penthouse"):
		return models.TypePenthouse
	case strings.Contains(t, "studio"):
		return models.TypeStudio
	case hasWord(t, "pg"), strings.Contains(t, "shared"):
		return models.TypePG
	case strings.Contains(t, "farmhouse"), strings.Contains(t, "countryside"):
		return models.TypeFarmhouse
	case strings.Contains(t, "house"), strings.Contains(t, "home"):
		return models.TypeIndependentHouse
	default:
		return models.TypeApartment
	}
}

// DetectBedrooms reads "2BHK"/"2 BHK" style hints; studios have none and
// villas and penthouses default to three.
func DetectBedrooms(title string) *int {
	t := strings.ToLower(title)
	n := -1
	switch {
	case strings.Contains(t, "studio"):
		n = 0
	default:
		for i := 1; i <= 4; i++ {
			s := strconv.Itoa(i)
			if strings.Contains(t, s+"bhk") || strings.Contains(t, s+" bhk") {
				n = i
				break
			}
		}
		if n < 0 && (strings.Contains(t, "penthouse") || strings.Contains(t, "villa")) {
			n = 3
		}
	}
	if n < 0 {
		return nil
	}
	return &n
}

// FormatPrice turns a plain amount into "₹26,000/month" or "₹1.5L/month".
// Display strings are kept as they are.
func FormatPrice(v any) string {
	var amount float64
	switch p := v.(type) {
	case nil:
		return "₹0/month"
	case int:
		amount = float64(p)
	case int64:
		amount = float64(p)
	case float64:
		amount = p
	case string:
		s := strings.TrimSpace(p)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if strings.HasPrefix(s, "₹") {
				return s
			}
			return "₹" + s
		}
		amount = f
	default:
		return fmt.Sprintf("₹%v", p)
	}
	if amount >= 100000 {
		return fmt.Sprintf("₹%.1fL/month", amount/100000)
	}
	return "₹" + humanize.Comma(int64(amount)) + "/month"
}

const imagePrefix = "/images/"

// localImages drops /images/ paths with no file under dir. When the cover
// goes missing the first remaining gallery image takes its place.
func localImages(dir, cover string, gallery []string) (string, []string) {
	present := func(u string) bool {
		rel, ok := strings.CutPrefix(u, imagePrefix)
		if !ok {
			return u != ""
		}
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
		return err == nil
	}
	kept := make([]string, 0, len(gallery))
	for _, u := range gallery {
		if present(u) {
			kept = append(kept, u)
		}
	}
	if !present(cover) {
		cover = ""
		if len(kept) > 0 {
			cover = kept[0]
		}
	}
	return cover, kept
}

func describe(title, location, amenities string) string {
	list := strings.Split(amenities, ",")
	if len(list) > 3 {
		list = list[:3]
	}
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}
	return fmt.Sprintf("Welcome to %s, your next home in %s. Featuring %s, this property combines comfort with style. Schedule a visit today!",
		title, location, strings.Join(list, ", "))
}

func hasWord(s, word string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if f == word {
			return true
		}
	}
	return false
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
