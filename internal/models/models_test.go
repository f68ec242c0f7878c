package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageLabel(t *testing.T) {
	assert.Equal(t, "Site Visit", StageLabel(StatusSiteVisit))
	assert.Equal(t, "New", StageLabel(StatusNew))
	assert.Equal(t, "Walk In", StageLabel(SourceWalkIn))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("negotiation"))
	assert.False(t, IsValidStatus("archived"))
}

func TestPropertyRequest_ToProperty_Defaults(t *testing.T) {
	p := PropertyRequest{Title: "Studio", Price: "₹9,000/month"}.ToProperty()
	assert.Equal(t, "Gurgaon", p.City)
	assert.Equal(t, TypeApartment, p.PropertyType)
	assert.Equal(t, Furnished, p.Furnishing)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, []string{"Wifi", "AC", "Power Backup"}, p.AmenityList())
	assert.NotNil(t, p.Images)
}

func TestPropertyUpdate_Apply(t *testing.T) {
	p := Property{Title: "Old", Price: "₹10,000/month", IsAvailable: true}
	title, price, avail := "New", "₹12,000/month", false
	changed := PropertyUpdate{Title: &title, Price: &price, IsAvailable: &avail}.Apply(&p)

	assert.True(t, changed)
	assert.Equal(t, "New", p.Title)
	assert.Equal(t, "₹12,000/month", p.Price)
	assert.False(t, p.IsAvailable)

	assert.False(t, PropertyUpdate{Title: &title}.Apply(&p))
}

func TestProperty_Cover(t *testing.T) {
	assert.Equal(t, "/a.webp", Property{Images: []string{"/a.webp"}}.Cover())
	assert.Equal(t, "/main.webp", Property{ImageURL: "/main.webp", Images: []string{"/a.webp"}}.Cover())
	assert.Equal(t, "", Property{}.Cover())
}
