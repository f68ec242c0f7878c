package services

import (
	"context"
	"net/http"
	"time"

	"IndoHomz/internal/catalog"
	"IndoHomz/internal/models"
	"IndoHomz/internal/utils"
)

// Price buckets, upper bounds exclusive.
var priceBuckets = []struct {
	label string
	upper float64
}{
	{"Under ₹50K", 50000},
	{"₹50K - ₹1L", 100000},
	{"₹1L - ₹2L", 200000},
	{"₹2L - ₹3L", 300000},
	{"Above ₹3L", -1},
}

const (
	MinTrendDays     = 7
	MaxTrendDays     = 90
	DefaultTrendDays = 30
)

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	PriceDistribution(ctx context.Context) ([]models.PriceBucket, error)
	AvailabilityTrend(ctx context.Context, days int) (*models.AvailabilityTrend, error)
}

type analyticsService struct {
	props PropertyService
	leads LeadService
	now   func() time.Time
}

func NewAnalyticsService(props PropertyService, leads LeadService) AnalyticsService {
	return &analyticsService{props: props, leads: leads, now: time.Now}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	ps, err := s.props.Stats(ctx)
	if err != nil {
		return nil, err
	}
	ls, err := s.leads.Stats(ctx)
	if err != nil {
		return nil, err
	}
	weekAgo := s.now().AddDate(0, 0, -7)
	newProps, err := s.props.CreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	newLeads, err := s.leads.CreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Overview: models.DashboardOverview{
			TotalProperties:     ps.TotalProperties,
			AvailableProperties: ps.AvailableProperties,
			RentedProperties:    ps.RentedProperties,
			TotalLeads:          ls.TotalLeads,
			ConversionRate:      ls.ConversionRate,
		},
		RecentActivity: models.RecentActivity{
			NewPropertiesThisWeek: newProps,
			NewLeadsThisWeek:      newLeads,
		},
		PropertyBreakdown: models.PropertyBreakdown{ByType: ps.PropertyTypes, ByLocation: ps.TopLocations},
		LeadBreakdown:     models.LeadBreakdown{ByStatus: ls.ByStatus, BySource: ls.BySource},
	}, nil
}

// PriceDistribution buckets monthly rents; unparseable prices are skipped.
func (s *analyticsService) PriceDistribution(ctx context.Context) ([]models.PriceBucket, error) {
	all, err := s.props.Grid(ctx, catalog.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]models.PriceBucket, len(priceBuckets))
	for i, b := range priceBuckets {
		out[i].Range = b.label
	}
	for _, p := range all {
		price, err := utils.ParsePrice(p.Price)
		if err != nil {
			continue
		}
		out[bucketFor(price)].Count++
	}
	return out, nil
}

func bucketFor(price float64) int {
	for i, b := range priceBuckets {
		if b.upper < 0 || price < b.upper {
			return i
		}
	}
	return len(priceBuckets) - 1
}

// AvailabilityTrend accepts 7..90 days (0 means 30). No history is kept,
// so the current rate is reported for the whole period.
func (s *analyticsService) AvailabilityTrend(ctx context.Context, days int) (*models.AvailabilityTrend, error) {
	if days == 0 {
		days = DefaultTrendDays
	}
	if days < MinTrendDays || days > MaxTrendDays {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "days must be between 7 and 90", nil)
	}
	ps, err := s.props.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &models.AvailabilityTrend{
		PeriodDays:              days,
		CurrentAvailabilityRate: percent(ps.AvailableProperties, ps.TotalProperties, 2),
		TotalProperties:         ps.TotalProperties,
		AvailableProperties:     ps.AvailableProperties,
	}, nil
}
