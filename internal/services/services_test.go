package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
	"time"

	"IndoHomz/internal/catalog"
	"IndoHomz/internal/db"
	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	leads []*models.Lead
	err   error
}

func (n *recordingNotifier) NewLead(_ context.Context, l *models.Lead, _ *models.Property) error {
	n.leads = append(n.leads, l)
	return n.err
}

type fixture struct {
	db       *gorm.DB
	props    PropertyService
	leads    LeadService
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.Open("sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { db.Close(gdb) })

	propRepo := repositories.NewPropertyRepository(gdb)
	n := &recordingNotifier{}
	return &fixture{
		db:       gdb,
		props:    NewPropertyService(propRepo, Paging{}),
		leads:    NewLeadService(repositories.NewLeadRepository(gdb), propRepo, n),
		notifier: n,
	}
}

func (f *fixture) property(t *testing.T, title, price, typ, city string, available bool) *models.Property {
	t.Helper()
	p, err := f.props.Create(context.Background(), models.PropertyRequest{
		Title: title, Price: price, PropertyType: typ, City: city, IsAvailable: &available,
	})
	require.NoError(t, err)
	return p
}

func TestPropertyService_UniqueSlugs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.property(t, "Sunny Studio!", "₹20,000/month", "studio", "Gurgaon", true)
	b := f.property(t, "Sunny Studio", "₹21,000/month", "studio", "Gurgaon", true)
	c := f.property(t, "sunny   studio", "₹22,000/month", "studio", "Gurgaon", true)
	assert.Equal(t, "sunny-studio", a.Slug)
	assert.Equal(t, "sunny-studio-1", b.Slug)
	assert.Equal(t, "sunny-studio-2", c.Slug)

	title := "Sunny Studio"
	updated, err := f.props.Update(ctx, c.ID, models.PropertyUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "sunny-studio-2", updated.Slug, "re-slug must skip the row's own slug and taken ones")

	title = "Garden Villa"
	updated, err = f.props.Update(ctx, a.ID, models.PropertyUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "garden-villa", updated.Slug)

	got, err := f.props.GetBySlug(ctx, "garden-villa")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestPropertyService_DeleteSoftAndPermanent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.property(t, "Loft", "₹30,000/month", "apartment", "Gurgaon", true)
	lead, err := f.leads.Create(ctx, models.LeadRequest{Name: "Asha", Phone: "9876543210", PropertyID: &p.ID})
	require.NoError(t, err)

	require.NoError(t, f.props.Delete(ctx, p.ID, false))
	got, err := f.props.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)

	kept, err := f.leads.Get(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.PropertyID)

	require.NoError(t, f.props.Delete(ctx, p.ID, true))
	_, err = f.props.Get(ctx, p.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	kept, err = f.leads.Get(ctx, lead.ID)
	require.NoError(t, err, "leads outlive their listing")
	assert.Nil(t, kept.PropertyID)

	next := f.property(t, "Loft Two", "₹31,000/month", "apartment", "Gurgaon", true)
	byProp, err := f.leads.ListByProperty(ctx, next.ID)
	require.NoError(t, err)
	assert.Empty(t, byProp)
}

func TestPropertyService_FeaturedAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		f.property(t, "Studio "+string(rune('A'+i)), "₹18,000/month", "studio", "Gurgaon", i%4 != 0)
	}
	f.property(t, "Golf Course Villa", "₹2.5L/month", "villa", "Gurgaon", true)

	featured, err := f.props.Featured(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, featured, DefaultFeaturedLimit)
	assert.Equal(t, "Golf Course Villa", featured[0].Title)
	for _, p := range featured {
		assert.True(t, p.IsAvailable)
	}
	featured, err = f.props.Featured(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, featured, 7)

	res, err := f.props.Search(ctx, models.SearchRequest{Query: "studio", Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Total, "total counts every match, not the page")
	assert.Len(t, res.Items, 3)
	assert.Equal(t, 3, res.TotalPages)

	yes := true
	res, err = f.props.Search(ctx, models.SearchRequest{PropertyType: "studio", IsAvailable: &yes})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, true, res.FiltersApplied["is_available"])
	assert.Equal(t, "studio", res.FiltersApplied["property_type"])

	minPrice := 100000
	res, err = f.props.Search(ctx, models.SearchRequest{MinPrice: &minPrice})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Golf Course Villa", res.Items[0].Title)

	list, err := f.props.List(ctx, catalog.Filter{Type: "studio"}, 2, 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestPropertyService_SearchPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.property(t, "Studio "+string(rune('A'+i)), "₹18,000/month", "studio", "Gurgaon", true)
	}
	svc := NewPropertyService(repositories.NewPropertyRepository(f.db), Paging{Default: 2, Max: 3})

	res, err := svc.Search(ctx, models.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.PageSize)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.TotalPages)

	res, err = svc.Search(ctx, models.SearchRequest{PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)

	_, err = svc.Search(ctx, models.SearchRequest{PageSize: 4})
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.StatusCode)

	res, err = f.props.Search(ctx, models.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 12, res.PageSize)
}

func TestPropertyService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.property(t, "A", "1", "studio", "Gurgaon", true)
	f.property(t, "B", "1", "studio", "Gurgaon", false)
	f.property(t, "C", "1", "villa", "Delhi", true)
	for _, c := range []string{"Noida", "Pune", "Mumbai", "Goa"} {
		f.property(t, "P "+c, "1", "pg", c, true)
	}

	st, err := f.props.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, st.TotalProperties)
	assert.Equal(t, 6, st.AvailableProperties)
	assert.Equal(t, 1, st.RentedProperties)
	assert.Len(t, st.TopLocations, 5)
	assert.Equal(t, models.CityCount{City: "Gurgaon", Count: 2}, st.TopLocations[0])
	assert.Equal(t, models.TypeCount{Type: "pg", Count: 4}, st.PropertyTypes[0])

	types, err := f.props.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pg", "studio", "villa"}, types)
}

func TestLeadService_CreateCleansInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.property(t, "Villa", "1", "villa", "Gurgaon", true)

	lead, err := f.leads.Create(ctx, models.LeadRequest{
		Name:       "<b>Ravi</b>",
		Phone:      "+91 98765-43210",
		Email:      " Ravi@Example.com ",
		Message:    "<script>alert(1)</script>Call me",
		PropertyID: &p.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", lead.Name)
	assert.Equal(t, "9876543210", lead.Phone)
	assert.Equal(t, "ravi@example.com", lead.Email)
	assert.Equal(t, "Call me", lead.Message)
	assert.Equal(t, models.StatusNew, lead.Status)
	assert.Equal(t, models.SourceWebsite, lead.Source)
	assert.Len(t, f.notifier.leads, 1)
}

func TestLeadService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.leads.Create(ctx, models.LeadRequest{Name: "A", Phone: "12345"})
	assert.ErrorIs(t, err, utils.ErrInvalidPhone)

	missing := 404
	_, err = f.leads.Create(ctx, models.LeadRequest{Name: "A", Phone: "9876543210", PropertyID: &missing})
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestLeadService_UpdateRejectsMissingProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.property(t, "Villa", "1", "villa", "Gurgaon", true)
	lead, err := f.leads.Create(ctx, models.LeadRequest{Name: "A", Phone: "9876543210", PropertyID: &p.ID})
	require.NoError(t, err)

	missing := 9999
	_, err = f.leads.Update(ctx, lead.ID, models.LeadUpdate{PropertyID: &missing})
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.StatusCode)

	got, err := f.leads.Get(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PropertyID)
	assert.Equal(t, p.ID, *got.PropertyID)

	other := f.property(t, "Studio", "1", "studio", "Gurgaon", true)
	got, err = f.leads.Update(ctx, lead.ID, models.LeadUpdate{PropertyID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, *got.PropertyID)
}

func TestLeadService_NotifierFailureKeepsLead(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("smtp down")

	lead, err := f.leads.Create(context.Background(), models.LeadRequest{Name: "A", Phone: "9876543210"})
	require.NoError(t, err)
	assert.NotZero(t, lead.ID)
}

func TestLeadService_StatusStatsFunnel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []int
	for i, src := range []string{"website", "website", "google", "referral"} {
		l, err := f.leads.Create(ctx, models.LeadRequest{Name: "L", Phone: fmt.Sprintf("98765432%02d", 10+i), Source: src})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}
	_, err := f.leads.UpdateStatus(ctx, ids[0], models.StatusConverted)
	require.NoError(t, err)
	_, err = f.leads.UpdateStatus(ctx, ids[1], models.StatusSiteVisit)
	require.NoError(t, err)
	_, err = f.leads.UpdateStatus(ctx, ids[2], "archived")
	assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	_, err = f.leads.UpdateStatus(ctx, 999, models.StatusLost)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	st, err := f.leads.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, st.TotalLeads)
	assert.Equal(t, 2, st.NewLeads)
	assert.Equal(t, 1, st.ConvertedLeads)
	assert.Equal(t, 25.0, st.ConversionRate)
	assert.Equal(t, models.StatusCount{Status: "new", Count: 2}, st.ByStatus[0])

	fn, err := f.leads.Funnel(ctx)
	require.NoError(t, err)
	require.Len(t, fn.Funnel, 5)
	assert.Equal(t, models.FunnelStage{Stage: "New", Count: 2, Percentage: 50}, fn.Funnel[0])
	assert.Equal(t, models.FunnelStage{Stage: "Site Visit", Count: 1, Percentage: 25}, fn.Funnel[2])
	assert.Equal(t, models.FunnelStage{Stage: "Negotiation", Count: 0, Percentage: 0}, fn.Funnel[3])

	perf, total, err := f.leads.SourcePerformance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Contains(t, perf, models.SourcePerformance{Source: "Website", Leads: 2, Percentage: 50})
}

func TestLeadService_ExportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.leads.Create(ctx, models.LeadRequest{Name: "Asha, R", Phone: "9876543210", Message: "hi"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.leads.ExportCSV(ctx, &buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "Asha, R", rows[1][1])
	assert.Equal(t, "9876543210", rows[1][3])
}

func TestLeadService_ExportCSVNeutralisesFormulas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.leads.Create(ctx, models.LeadRequest{
		Name:    `=HYPERLINK("http://evil.example","x")`,
		Phone:   "9876543210",
		Message: "@SUM(A1:A9)",
	})
	require.NoError(t, err)
	_, err = f.leads.Create(ctx, models.LeadRequest{Name: "D'Souza", Phone: "9876543211", Message: "-2 rooms"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.leads.ExportCSV(ctx, &buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byPhone := map[string][]string{}
	for _, r := range rows[1:] {
		byPhone[r[3]] = r
	}
	assert.Equal(t, `'=HYPERLINK("http://evil.example","x")`, byPhone["9876543210"][1])
	assert.Equal(t, "'@SUM(A1:A9)", byPhone["9876543210"][7])
	assert.Equal(t, "D'Souza", byPhone["9876543211"][1])
	assert.Equal(t, "'-2 rooms", byPhone["9876543211"][7])
}

func TestCSVCell(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"Asha":     "Asha",
		"=1+1":     "'=1+1",
		"+91":      "'+91",
		"-x":       "'-x",
		"@cmd":     "'@cmd",
		"\tindent": "'\tindent",
		"\rreturn": "'\rreturn",
		"mid=dle":  "mid=dle",
	}
	for in, want := range cases {
		assert.Equal(t, want, csvCell(in), in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 33.33, percent(1, 3, 2))
	assert.Equal(t, 66.7, percent(2, 3, 1))
	assert.Equal(t, 0.0, percent(1, 0, 2))
}

func TestAnalyticsService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.property(t, "A", "₹26,000/month", "studio", "Gurgaon", true)
	f.property(t, "B", "₹75,000/month", "apartment", "Gurgaon", false)
	f.property(t, "C", "₹1.5L/month", "villa", "Gurgaon", true)
	f.property(t, "D", "₹3.5L/month", "villa", "Gurgaon", true)
	f.property(t, "E", "Price on request", "villa", "Gurgaon", true)
	_, err := f.leads.Create(ctx, models.LeadRequest{Name: "L", Phone: "9876543210"})
	require.NoError(t, err)

	svc := NewAnalyticsService(f.props, f.leads)

	dist, err := svc.PriceDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.PriceBucket{
		{Range: "Under ₹50K", Count: 1},
		{Range: "₹50K - ₹1L", Count: 1},
		{Range: "₹1L - ₹2L", Count: 1},
		{Range: "₹2L - ₹3L", Count: 0},
		{Range: "Above ₹3L", Count: 1},
	}, dist)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, dash.Overview.TotalProperties)
	assert.Equal(t, 4, dash.Overview.AvailableProperties)
	assert.EqualValues(t, 5, dash.RecentActivity.NewPropertiesThisWeek)
	assert.EqualValues(t, 1, dash.RecentActivity.NewLeadsThisWeek)

	trend, err := svc.AvailabilityTrend(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, trend.PeriodDays)
	assert.Equal(t, 80.0, trend.CurrentAvailabilityRate)

	_, err = svc.AvailabilityTrend(ctx, 5)
	assert.Error(t, err)
	_, err = svc.AvailabilityTrend(ctx, 91)
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter()
	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("lead:1.2.3.4", 3, time.Hour)
		assert.True(t, ok)
	}
	ok, retry := l.Allow("lead:1.2.3.4", 3, time.Hour)
	assert.False(t, ok)
	assert.Greater(t, retry, 59*time.Minute)

	ok, _ = l.Allow("lead:5.6.7.8", 3, time.Hour)
	assert.True(t, ok, "other clients keep their own window")

	ok, _ = l.Allow("short", 1, 50*time.Millisecond)
	assert.True(t, ok)
	ok, _ = l.Allow("short", 1, 50*time.Millisecond)
	assert.False(t, ok)
	time.Sleep(80 * time.Millisecond)
	ok, _ = l.Allow("short", 1, 50*time.Millisecond)
	assert.True(t, ok, "window resets after expiry")
}
