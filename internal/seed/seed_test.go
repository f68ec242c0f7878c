package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"IndoHomz/internal/db"
	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) repositories.PropertyRepository {
	t.Helper()
	gdb, err := db.Open("sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { db.Close(gdb) })
	return repositories.NewPropertyRepository(gdb)
}

func TestDetectType(t *testing.T) {
	cases := map[string]string{
		"Lotus Villas - DLF Phase 4":    models.TypeVilla,
		"Heritage Bungalow":             models.TypeVilla,
		"Sky Penthouse":                 models.TypePenthouse,
		"Compact Studio near Metro":     models.TypeStudio,
		"Co-Living PG in Sushant Lok 2": models.TypePG,
		"Shared rooms, Sector 45":       models.TypePG,
		"Aravalli Farmhouse":            models.TypeFarmhouse,
		"Countryside Retreat":           models.TypeFarmhouse,
		"Builder Floor Home":            models.TypeIndependentHouse,
		"2BHK in Sector 40":             models.TypeApartment,
		"Upgraded 3BHK flat":            models.TypeApartment,
	}
	for title, want := range cases {
		assert.Equal(t, want, DetectType(title), title)
	}
}

func TestDetectBedrooms(t *testing.T) {
	n := func(v int) *int { return &v }
	assert.Equal(t, n(0), DetectBedrooms("Studio Loft"))
	assert.Equal(t, n(2), DetectBedrooms("2BHK in Sector 40"))
	assert.Equal(t, n(3), DetectBedrooms("Spacious 3 BHK"))
	assert.Equal(t, n(3), DetectBedrooms("Villa in Malibu Town"))
	assert.Nil(t, DetectBedrooms("Co-Living PG"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹26,000/month", FormatPrice(26000))
	assert.Equal(t, "₹26,000/month", FormatPrice(float64(26000)))
	assert.Equal(t, "₹1.5L/month", FormatPrice("150000"))
	assert.Equal(t, "₹26,000/month", FormatPrice("₹26,000/month"))
	assert.Equal(t, "₹on request", FormatPrice("on request"))
}

func TestParse_JSONAndYAML(t *testing.T) {
	items, err := Parse([]byte(`[{"title":"A","price":12000},{"title":"B","price":"₹9,000/month"}]`), ".json")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "₹12,000/month", FormatPrice(items[0].Price))

	items, err = Parse([]byte("- title: C\n  price: 15000\n  is_available: false\n"), ".yml")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].IsAvailable)
	assert.False(t, *items[0].IsAvailable)

	_, err = Parse([]byte("x"), ".csv")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	items, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	for _, it := range items {
		assert.NotEmpty(t, it.Title)
	}
}

func TestRun_SkipsExistingAndClears(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	items := []Item{
		{Title: "2BHK in Sector 40", Price: 26000},
		{Title: "Co-Living PG", Price: "₹10,000/month"},
	}
	res, err := Run(ctx, repo, items, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	p, err := repo.GetBySlug(ctx, "2bhk-in-sector-40")
	require.NoError(t, err)
	assert.Equal(t, "₹26,000/month", p.Price)
	assert.Equal(t, models.TypeApartment, p.PropertyType)
	require.NotNil(t, p.Bedrooms)
	assert.Equal(t, 2, *p.Bedrooms)
	assert.Equal(t, 2, *p.Bathrooms)
	assert.Equal(t, "Gurgaon", p.City)
	assert.True(t, p.IsAvailable)
	assert.NotEmpty(t, p.ImageURL)
	assert.Contains(t, p.Description, "2BHK in Sector 40")

	res, err = Run(ctx, repo, items, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Skipped)

	res, err = Run(ctx, repo, items[:1], Options{Clear: true, NoImages: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Cleared)
	assert.Equal(t, 1, res.Created)
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].ImageURL)
}

func TestRun_LocalImages(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "properties", "loft"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "properties", "loft", "2.webp"), []byte("img"), 0o600))

	items := []Item{
		{
			Title:    "Loft",
			ImageURL: "/images/properties/loft/1.webp",
			Images:   []string{"/images/properties/loft/1.webp", "/images/properties/loft/2.webp"},
		},
		{Title: "Gone", ImageURL: "/images/properties/gone/1.webp"},
		{Title: "Remote", ImageURL: "https://cdn.example.com/remote.jpg"},
	}
	_, err := Run(ctx, repo, items, Options{ImageDir: dir})
	require.NoError(t, err)

	loft, err := repo.GetBySlug(ctx, "loft")
	require.NoError(t, err)
	assert.Equal(t, "/images/properties/loft/2.webp", loft.ImageURL)
	assert.Equal(t, []string{"/images/properties/loft/2.webp"}, loft.Images)

	gone, err := repo.GetBySlug(ctx, "gone")
	require.NoError(t, err)
	assert.Contains(t, placeholderImages, gone.ImageURL)

	remote, err := repo.GetBySlug(ctx, "remote")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/remote.jpg", remote.ImageURL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"Test Villa"}]`), 0o600))
	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Test Villa", items[0].Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
