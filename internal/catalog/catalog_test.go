package catalog

import (
	"testing"

	"IndoHomz/internal/models"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func sample() []models.Property {
	return []models.Property{
		{ID: 1, Title: "Modern Studio in Sector 45", Location: "Sector 45, Gurgaon", City: "Gurgaon",
			PropertyType: models.TypeStudio, Price: "₹18,000/month", Amenities: "Wifi, AC", IsAvailable: true, Bedrooms: intp(1)},
		{ID: 2, Title: "Luxury Villa", Location: "Golf Course Road", City: "Gurgaon",
			PropertyType: models.TypeVilla, Price: "₹2.5L/month", Amenities: "Pool, Gym", IsAvailable: false, Bedrooms: intp(4)},
		{ID: 3, Title: "Co-living PG", Location: "DLF Phase 3", City: "Gurgaon",
			PropertyType: models.TypePG, Price: "on request", Amenities: "Meals, Wifi", IsAvailable: true},
		{ID: 4, Title: "Penthouse with Terrace", Location: "Cyber City", City: "Delhi",
			PropertyType: models.TypePenthouse, Price: "₹95,000/month", Amenities: "Terrace, Gym", IsAvailable: true, Bedrooms: intp(3)},
	}
}

func ids(list []models.Property) []int {
	out := []int{}
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestApply_EmptyFilterKeepsAll(t *testing.T) {
	f := Filter{}
	assert.True(t, f.IsZero())
	assert.Equal(t, []int{1, 2, 3, 4}, ids(f.Apply(sample())))
}

func TestApply_QueryMatchesTitleLocationAmenities(t *testing.T) {
	assert.Equal(t, []int{1, 3}, ids(Filter{Query: "wifi"}.Apply(sample())))
	assert.Equal(t, []int{2}, ids(Filter{Query: "GOLF"}.Apply(sample())))
	assert.Equal(t, []int{4}, ids(Filter{Query: "penthouse"}.Apply(sample())))
	assert.Empty(t, Filter{Query: "castle"}.Apply(sample()))
}

func TestApply_TypeAndAvailability(t *testing.T) {
	assert.Equal(t, []int{2}, ids(Filter{Type: "villa"}.Apply(sample())))
	assert.Empty(t, Filter{Type: "igloo"}.Apply(sample()))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(Filter{Type: "all", Availability: "all"}.Apply(sample())))
	assert.Equal(t, []int{1, 3, 4}, ids(Filter{Availability: "available"}.Apply(sample())))
	assert.Equal(t, []int{2}, ids(Filter{Availability: "rented"}.Apply(sample())))
}

func TestApply_PriceBoundsSkipUnparseable(t *testing.T) {
	got := Filter{MinPrice: floatp(50000)}.Apply(sample())
	assert.Equal(t, []int{2, 4}, ids(got))

	got = Filter{MaxPrice: floatp(100000)}.Apply(sample())
	assert.Equal(t, []int{1, 4}, ids(got))
}

func TestApply_CityLocationBedrooms(t *testing.T) {
	assert.Equal(t, []int{4}, ids(Filter{City: "delhi"}.Apply(sample())))
	assert.Equal(t, []int{3}, ids(Filter{Location: "dlf"}.Apply(sample())))
	assert.Equal(t, []int{4}, ids(Filter{Bedrooms: intp(3)}.Apply(sample())))
	assert.Equal(t, []int{2, 4}, ids(Filter{MinBedrooms: intp(2)}.Apply(sample())))
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []string{"penthouse", "pg", "studio", "villa"}, Types(sample()))
	assert.Empty(t, Types(nil))
}

func TestPaginate(t *testing.T) {
	p := Paginate(sample(), 2, 3, 0)
	assert.Equal(t, []int{4}, ids(p.Items))
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.TotalPages)

	p = Paginate(sample(), 0, 500, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultMaxPageSize, p.PageSize)
	assert.Len(t, p.Items, 4)

	p = Paginate(sample(), 1, 500, 3)
	assert.Equal(t, 3, p.PageSize)
	assert.Len(t, p.Items, 3)

	p = Paginate(sample(), 9, 2, 0)
	assert.Empty(t, p.Items)
}

func TestWindow(t *testing.T) {
	assert.Equal(t, []int{2, 3}, ids(Window(sample(), 1, 2)))
	assert.Equal(t, []int{3, 4}, ids(Window(sample(), 2, 0)))
	assert.Empty(t, Window(sample(), 10, 5))
}
