package models

import "time"

// Report types understood by the report generator.
const (
	ReportPropertyOverview   = "property_overview"
	ReportAvailabilityStatus = "availability_status"
	ReportLeadInsights       = "lead_insights"
	ReportListingPerformance = "listing_performance"
	ReportMarketAnalysis     = "market_analysis"
)

type ReportType struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var ReportTypes = []ReportType{
	{ReportPropertyOverview, "Property Overview", "Comprehensive overview of property listings and availability"},
	{ReportAvailabilityStatus, "Availability Status", "Current availability levels and rental status"},
	{ReportLeadInsights, "Lead Insights", "Lead behavior analysis and conversion insights"},
	{ReportListingPerformance, "Listing Performance", "Property listing performance and engagement metrics"},
	{ReportMarketAnalysis, "Market Analysis", "Market trends and pricing analysis"},
}

func IsReportType(t string) bool {
	for _, rt := range ReportTypes {
		if rt.Type == t {
			return true
		}
	}
	return false
}

// ReportRequest: a missing range defaults to the 30 days before now.
type ReportRequest struct {
	ReportType string     `json:"report_type" validate:"required"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

type Report struct {
	ReportType       string    `json:"report_type"`
	Summary          string    `json:"summary"`
	DetailedAnalysis string    `json:"detailed_analysis"`
	Recommendations  []string  `json:"recommendations"`
	GeneratedAt      time.Time `json:"generated_at"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,min=3,max=500"`
}

type AskResponse struct {
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ListingLeads is one row of the listing performance ranking.
type ListingLeads struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Leads    int    `json:"leads"`
}

type PriceBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type AvailabilityTrend struct {
	PeriodDays              int     `json:"period_days"`
	CurrentAvailabilityRate float64 `json:"current_availability_rate"`
	TotalProperties         int     `json:"total_properties"`
	AvailableProperties     int     `json:"available_properties"`
}

type DashboardOverview struct {
	TotalProperties     int     `json:"total_properties"`
	AvailableProperties int     `json:"available_properties"`
	RentedProperties    int     `json:"rented_properties"`
	TotalLeads          int     `json:"total_leads"`
	ConversionRate      float64 `json:"conversion_rate"`
}

type RecentActivity struct {
	NewPropertiesThisWeek int64 `json:"new_properties_this_week"`
	NewLeadsThisWeek      int64 `json:"new_leads_this_week"`
}

type PropertyBreakdown struct {
	ByType     []TypeCount `json:"by_type"`
	ByLocation []CityCount `json:"by_location"`
}

type LeadBreakdown struct {
	ByStatus []StatusCount `json:"by_status"`
	BySource []SourceCount `json:"by_source"`
}

type Dashboard struct {
	Overview          DashboardOverview `json:"overview"`
	RecentActivity    RecentActivity    `json:"recent_activity"`
	PropertyBreakdown PropertyBreakdown `json:"property_breakdown"`
	LeadBreakdown     LeadBreakdown     `json:"lead_breakdown"`
}
