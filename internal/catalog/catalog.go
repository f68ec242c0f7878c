// Package catalog filters and pages the property grid in memory.
// The whole catalogue is a few dozen rows, so it is loaded once per request
// and narrowed here rather than with ad-hoc SQL.
package catalog

import (
	"sort"
	"strings"

	"IndoHomz/internal/models"
	"IndoHomz/internal/utils"
)

// Availability values accepted by the grid.
const (
	AvailabilityAll       = "all"
	AvailabilityAvailable = "available"
	AvailabilityRented    = "rented"
)

// DefaultMaxPageSize caps Paginate when the caller passes no limit.
const DefaultMaxPageSize = 50

type Filter struct {
	Query        string
	Type         string
	Availability string
	City         string
	Location     string
	Bedrooms     *int
	MinBedrooms  *int
	MinPrice     *float64
	MaxPrice     *float64
}

// Apply returns the properties that match f, keeping their order.
func (f Filter) Apply(list []models.Property) []models.Property {
	out := make([]models.Property, 0, len(list))
	for _, p := range list {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filter) Match(p models.Property) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" && !matchesQuery(p, q) {
		return false
	}
	if f.Type != "" && f.Type != AvailabilityAll && !strings.EqualFold(p.PropertyType, f.Type) {
		return false
	}
	switch strings.ToLower(f.Availability) {
	case AvailabilityAvailable:
		if !p.IsAvailable {
			return false
		}
	case AvailabilityRented:
		if p.IsAvailable {
			return false
		}
	}
	if f.City != "" && !containsFold(p.City, f.City) {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) && !containsFold(p.Area, f.Location) {
		return false
	}
	if f.Bedrooms != nil && (p.Bedrooms == nil || *p.Bedrooms != *f.Bedrooms) {
		return false
	}
	if f.MinBedrooms != nil && (p.Bedrooms == nil || *p.Bedrooms < *f.MinBedrooms) {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price, err := utils.ParsePrice(p.Price)
		if err != nil {
			return false
		}
		if f.MinPrice != nil && price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && price > *f.MaxPrice {
			return false
		}
	}
	return true
}

// IsZero reports whether the filter would keep everything.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" &&
		(f.Type == "" || f.Type == AvailabilityAll) &&
		(f.Availability == "" || strings.EqualFold(f.Availability, AvailabilityAll)) &&
		f.City == "" && f.Location == "" &&
		f.Bedrooms == nil && f.MinBedrooms == nil &&
		f.MinPrice == nil && f.MaxPrice == nil
}

func matchesQuery(p models.Property, q string) bool {
	for _, field := range []string{p.Title, p.Location, p.Area, p.Amenities, p.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Types returns the distinct property types present in list, sorted.
func Types(list []models.Property) []string {
	seen := map[string]struct{}{}
	for _, p := range list {
		if p.PropertyType != "" {
			seen[p.PropertyType] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Page is one slice of a filtered list.
type Page struct {
	Items      []models.Property
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Paginate clamps page to >= 1 and size to 1..maxSize.
func Paginate(list []models.Property, page, size, maxSize int) Page {
	if maxSize < 1 {
		maxSize = DefaultMaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if size > maxSize {
		size = maxSize
	}
	total := len(list)
	pages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return Page{
		Items:      list[start:end],
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
	}
}

// Window applies skip/limit the way the list endpoints do.
func Window(list []models.Property, skip, limit int) []models.Property {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(list) {
		return []models.Property{}
	}
	end := len(list)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return list[skip:end]
}
