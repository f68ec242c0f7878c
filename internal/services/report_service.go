package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"IndoHomz/internal/catalog"
	"IndoHomz/internal/logger"
	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"
)

const systemPrompt = "You are IndoHomz's AI assistant specializing in real estate analytics. " +
	"Provide clear, actionable insights about property listings and lead management."

// Completer produces a chat completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type openAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter returns nil when apiKey is empty, which turns the
// report service into its template-only mode.
func NewOpenAICompleter(apiKey, model string) Completer {
	if apiKey == "" {
		return nil
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &openAICompleter{client: &c, model: model}
}

func (c *openAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(1500),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

type ReportService interface {
	Types() []models.ReportType
	Generate(ctx context.Context, req models.ReportRequest) (*models.Report, error)
	Ask(ctx context.Context, question string) (*models.AskResponse, error)
}

type reportService struct {
	props PropertyService
	leads LeadService
	ai    Completer
	now   func() time.Time
}

// NewReportService works without ai; reports then come from templates.
func NewReportService(props PropertyService, leads LeadService, ai Completer) ReportService {
	return &reportService{props: props, leads: leads, ai: ai, now: time.Now}
}

func (s *reportService) Types() []models.ReportType {
	return models.ReportTypes
}

// reportData is the figures a report is written from.
type reportData map[string]any

func (d reportData) num(k string) float64 {
	switch v := d[k].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

func (d reportData) str(k string) string {
	if v, ok := d[k].(string); ok {
		return v
	}
	return ""
}

func (s *reportService) Generate(ctx context.Context, req models.ReportRequest) (*models.Report, error) {
	if !models.IsReportType(req.ReportType) {
		return nil, utils.ErrUnknownReportType
	}
	end := s.now()
	if req.EndDate != nil {
		end = *req.EndDate
	}
	start := end.AddDate(0, 0, -30)
	if req.StartDate != nil {
		start = *req.StartDate
	}

	data, err := s.collect(ctx, req.ReportType, start, end)
	if err != nil {
		return nil, err
	}

	body := templateReport(req.ReportType, data)
	if s.ai != nil {
		text, err := s.ai.Complete(ctx, systemPrompt, reportPrompt(req.ReportType, data))
		if err != nil {
			logger.Log.WithFields(logrus.Fields{"report_type": req.ReportType, "error": err}).
				Warn("ai report failed, using template")
		} else {
			body = parseReport(text)
		}
	}
	body.ReportType = req.ReportType
	body.GeneratedAt = s.now()
	return &body, nil
}

func (s *reportService) Ask(ctx context.Context, question string) (*models.AskResponse, error) {
	ps, err := s.props.Stats(ctx)
	if err != nil {
		return nil, err
	}
	ls, err := s.leads.Stats(ctx)
	if err != nil {
		return nil, err
	}

	answer := templateAnswer(question, ps, ls)
	if s.ai != nil {
		bizContext, _ := json.MarshalIndent(map[string]any{
			"properties":   ps,
			"leads":        ls,
			"context_date": s.now().Format(time.RFC3339),
		}, "", "  ")
		prompt := fmt.Sprintf("You are IndoHomz's real estate analytics assistant. Based on the following "+
			"property and lead data, answer the user's question in a clear and actionable way.\n\n"+
			"Business Context:\n%s\n\nUser Question: %s\n\n"+
			"Please provide a concise and helpful answer based on the data provided. Focus on real estate "+
			"metrics like occupancy, leads, and property performance.", bizContext, question)
		text, err := s.ai.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			logger.Log.WithField("error", err).Warn("ai answer failed, using template")
		} else if strings.TrimSpace(text) != "" {
			answer = text
		}
	}
	return &models.AskResponse{Question: question, Answer: answer, GeneratedAt: s.now()}, nil
}

func (s *reportService) collect(ctx context.Context, typ string, start, end time.Time) (reportData, error) {
	ps, err := s.props.Stats(ctx)
	if err != nil {
		return nil, err
	}
	period := start.Format("2006-01-02") + " to " + end.Format("2006-01-02")

	switch typ {
	case models.ReportPropertyOverview:
		props, err := s.props.Grid(ctx, catalog.Filter{})
		if err != nil {
			return nil, err
		}
		return reportData{
			"total_properties":     ps.TotalProperties,
			"available_properties": ps.AvailableProperties,
			"rented_properties":    ps.RentedProperties,
			"occupancy_rate":       percent(ps.RentedProperties, ps.TotalProperties, 2),
			"property_types":       ps.PropertyTypes,
			"locations":            allCities(props),
		}, nil

	case models.ReportAvailabilityStatus:
		props, err := s.props.Grid(ctx, catalog.Filter{})
		if err != nil {
			return nil, err
		}
		return reportData{
			"total_properties":  ps.TotalProperties,
			"available_now":     ps.AvailableProperties,
			"currently_rented":  ps.RentedProperties,
			"availability_rate": percent(ps.AvailableProperties, ps.TotalProperties, 2),
			"by_type":           availabilityByType(props),
		}, nil

	case models.ReportLeadInsights:
		ls, err := s.leads.Stats(ctx)
		if err != nil {
			return nil, err
		}
		all, err := s.leads.List(ctx, repositories.LeadFilter{})
		if err != nil {
			return nil, err
		}
		inPeriod := 0
		for _, l := range all {
			if !l.CreatedAt.Before(start) && !l.CreatedAt.After(end) {
				inPeriod++
			}
		}
		return reportData{
			"period":          period,
			"total_leads":     ls.TotalLeads,
			"leads_in_period": inPeriod,
			"converted_leads": ls.ConvertedLeads,
			"conversion_rate": ls.ConversionRate,
			"by_status":       ls.ByStatus,
			"by_source":       ls.BySource,
		}, nil

	case models.ReportListingPerformance:
		top, err := s.topListings(ctx, 10)
		if err != nil {
			return nil, err
		}
		return reportData{"period": period, "top_listings": top}, nil

	default: // market_analysis
		return reportData{
			"total_properties":           ps.TotalProperties,
			"property_type_distribution": ps.PropertyTypes,
			"market_summary":             "Market analysis based on current property listings.",
		}, nil
	}
}

// topListings ranks listings by how many leads they attracted.
func (s *reportService) topListings(ctx context.Context, n int) ([]models.ListingLeads, error) {
	props, err := s.props.Grid(ctx, catalog.Filter{})
	if err != nil {
		return nil, err
	}
	leads, err := s.leads.List(ctx, repositories.LeadFilter{})
	if err != nil {
		return nil, err
	}
	counts := map[int]int{}
	for _, l := range leads {
		if l.PropertyID != nil {
			counts[*l.PropertyID]++
		}
	}
	out := make([]models.ListingLeads, 0, len(props))
	for _, p := range props {
		out = append(out, models.ListingLeads{Title: p.Title, Location: p.Location, Leads: counts[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Leads > out[j].Leads })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func allCities(props []models.Property) []models.CityCount {
	m := map[string]int{}
	for _, p := range props {
		city := p.City
		if city == "" {
			city = "Unknown"
		}
		m[city]++
	}
	out := make([]models.CityCount, 0, len(m))
	for c, n := range m {
		out = append(out, models.CityCount{City: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}

type typeAvailability struct {
	Type      string `json:"type"`
	Available bool   `json:"available"`
	Count     int    `json:"count"`
}

func availabilityByType(props []models.Property) []typeAvailability {
	type key struct {
		t string
		a bool
	}
	m := map[key]int{}
	for _, p := range props {
		t := p.PropertyType
		if t == "" {
			t = "Unknown"
		}
		m[key{t, p.IsAvailable}]++
	}
	out := make([]typeAvailability, 0, len(m))
	for k, n := range m {
		out = append(out, typeAvailability{Type: k.t, Available: k.a, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Available && !out[j].Available
	})
	return out
}

func asJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const jsonFormatHint = `Format the response as JSON with keys: "summary", "detailed_analysis", "recommendations" (as a list)`

func reportPrompt(typ string, d reportData) string {
	var b strings.Builder
	switch typ {
	case models.ReportPropertyOverview:
		fmt.Fprintf(&b, "Generate a comprehensive property portfolio report for IndoHomz based on the following data:\n\n")
		fmt.Fprintf(&b, "Total Properties: %s\nAvailable Properties: %s\nRented Properties: %s\nOccupancy Rate: %s%%\n\n",
			fmtNum(d.num("total_properties")), fmtNum(d.num("available_properties")),
			fmtNum(d.num("rented_properties")), fmtNum(d.num("occupancy_rate")))
		fmt.Fprintf(&b, "Property Types: %s\nLocations: %s\n\n", asJSON(d["property_types"]), asJSON(d["locations"]))
		b.WriteString("Please provide:\n1. A brief executive summary (2-3 sentences)\n2. Detailed analysis of the property portfolio\n3. 3-5 actionable recommendations for portfolio optimization\n\n")
	case models.ReportAvailabilityStatus:
		fmt.Fprintf(&b, "Generate an availability status report for IndoHomz based on the following data:\n\n")
		fmt.Fprintf(&b, "Total Properties: %s\nAvailable Now: %s\nCurrently Rented: %s\nAvailability Rate: %s%%\n\n",
			fmtNum(d.num("total_properties")), fmtNum(d.num("available_now")),
			fmtNum(d.num("currently_rented")), fmtNum(d.num("availability_rate")))
		fmt.Fprintf(&b, "Breakdown by Type: %s\n\n", asJSON(d["by_type"]))
		b.WriteString("Please provide:\n1. A brief executive summary of availability health\n2. Detailed analysis of availability patterns\n3. 3-5 actionable recommendations for improving occupancy\n\n")
	case models.ReportLeadInsights:
		fmt.Fprintf(&b, "Generate a lead insights report for IndoHomz based on the following data:\n\n")
		fmt.Fprintf(&b, "Analysis Period: %s\nTotal Leads: %s\nLeads in Period: %s\nConverted Leads: %s\nConversion Rate: %s%%\n\n",
			d.str("period"), fmtNum(d.num("total_leads")), fmtNum(d.num("leads_in_period")),
			fmtNum(d.num("converted_leads")), fmtNum(d.num("conversion_rate")))
		fmt.Fprintf(&b, "Lead Status Distribution: %s\nLead Source Distribution: %s\n\n", asJSON(d["by_status"]), asJSON(d["by_source"]))
		b.WriteString("Please provide:\n1. A brief executive summary of lead performance\n2. Detailed analysis of lead funnel and conversion patterns\n3. 3-5 actionable recommendations for improving lead conversion\n\n")
	case models.ReportListingPerformance:
		fmt.Fprintf(&b, "Generate a listing performance report for IndoHomz based on the following data:\n\n")
		fmt.Fprintf(&b, "Analysis Period: %s\nTop Performing Listings: %s\n\n", d.str("period"), asJSON(d["top_listings"]))
		b.WriteString("Please provide:\n1. A brief executive summary of listing performance\n2. Detailed analysis of top performers and patterns\n3. 3-5 actionable recommendations for improving listing engagement\n\n")
	default:
		fmt.Fprintf(&b, "Generate a market analysis report for IndoHomz based on the following data:\n\n")
		fmt.Fprintf(&b, "Total Properties: %s\nProperty Type Distribution: %s\n\n",
			fmtNum(d.num("total_properties")), asJSON(d["property_type_distribution"]))
		b.WriteString("Please provide:\n1. A brief executive summary of market position\n2. Detailed analysis of market segments and opportunities\n3. 3-5 actionable recommendations for market strategy\n\n")
	}
	b.WriteString(jsonFormatHint)
	return b.String()
}

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

type reportJSON struct {
	Summary          string   `json:"summary"`
	DetailedAnalysis string   `json:"detailed_analysis"`
	Recommendations  []string `json:"recommendations"`
}

// parseReport reads the model's answer as JSON when it contains an object,
// otherwise uses the raw text.
func parseReport(text string) models.Report {
	var rj reportJSON
	if m := jsonObject.FindString(text); m != "" && json.Unmarshal([]byte(m), &rj) == nil && rj.Summary != "" {
		if rj.Recommendations == nil {
			rj.Recommendations = []string{}
		}
		return models.Report{Summary: rj.Summary, DetailedAnalysis: rj.DetailedAnalysis, Recommendations: rj.Recommendations}
	}
	text = strings.TrimSpace(text)
	summary := text
	if r := []rune(text); len(r) > 500 {
		summary = string(r[:500])
	}
	return models.Report{
		Summary:          summary,
		DetailedAnalysis: text,
		Recommendations:  []string{"Review the full analysis above", "Monitor key metrics", "Implement suggested improvements"},
	}
}

func templateReport(typ string, d reportData) models.Report {
	switch typ {
	case models.ReportAvailabilityStatus:
		return models.Report{
			Summary: fmt.Sprintf("Current availability rate is %s%% with %s properties ready for immediate occupancy.",
				fmtNum(d.num("availability_rate")), fmtNum(d.num("available_now"))),
			DetailedAnalysis: fmt.Sprintf("Out of %s properties, %s are available and %s are rented. This indicates a %.1f%% occupancy rate.",
				fmtNum(d.num("total_properties")), fmtNum(d.num("available_now")), fmtNum(d.num("currently_rented")),
				100-d.num("availability_rate")),
			Recommendations: []string{
				"Prioritize marketing for properties available longest",
				"Review pricing for properties with extended availability",
				"Implement automated lead follow-up for available listings",
				"Consider promotional offers for immediate move-ins",
			},
		}
	case models.ReportLeadInsights:
		return models.Report{
			Summary: fmt.Sprintf("Lead analysis shows %s total inquiries with a %s%% conversion rate.",
				fmtNum(d.num("total_leads")), fmtNum(d.num("conversion_rate"))),
			DetailedAnalysis: fmt.Sprintf("During the period %s, IndoHomz received %s new leads. %s leads converted to tenants, resulting in a %s%% conversion rate.",
				d.str("period"), fmtNum(d.num("leads_in_period")), fmtNum(d.num("converted_leads")), fmtNum(d.num("conversion_rate"))),
			Recommendations: []string{
				"Improve response time for new inquiries",
				"Implement lead scoring to prioritize high-intent prospects",
				"Analyze drop-off points in the conversion funnel",
				"A/B test different follow-up strategies",
			},
		}
	case models.ReportListingPerformance:
		return models.Report{
			Summary: "Listing performance analysis reveals key patterns in property engagement and lead generation.",
			DetailedAnalysis: fmt.Sprintf("Analysis for %s shows varying levels of engagement across listings. Top performing properties demonstrate strong market fit.",
				d.str("period")),
			Recommendations: []string{
				"Replicate successful listing strategies across portfolio",
				"Improve photos and descriptions for underperforming listings",
				"Consider price adjustments based on performance data",
				"Highlight unique amenities in marketing materials",
			},
		}
	case models.ReportMarketAnalysis:
		return models.Report{
			Summary:          fmt.Sprintf("Market analysis of %s properties reveals diverse portfolio composition.", fmtNum(d.num("total_properties"))),
			DetailedAnalysis: "The IndoHomz portfolio spans multiple property types and price segments. Current market position shows opportunities for strategic expansion.",
			Recommendations: []string{
				"Monitor competitor pricing and offerings",
				"Expand in high-demand property segments",
				"Develop partnerships with corporate clients",
				"Consider seasonal pricing strategies",
			},
		}
	default:
		return models.Report{
			Summary: fmt.Sprintf("IndoHomz portfolio consists of %s properties with %s currently available (%s%% occupancy rate).",
				fmtNum(d.num("total_properties")), fmtNum(d.num("available_properties")), fmtNum(d.num("occupancy_rate"))),
			DetailedAnalysis: fmt.Sprintf("The property portfolio shows %s total listings across multiple property types and locations. %s properties are currently rented, indicating healthy demand. The availability rate of %.1f%% suggests room for growth.",
				fmtNum(d.num("total_properties")), fmtNum(d.num("rented_properties")), 100-d.num("occupancy_rate")),
			Recommendations: []string{
				"Focus on marketing available properties in high-demand areas",
				"Analyze pricing strategy for properties with low inquiry rates",
				"Diversify property types based on market demand",
				"Implement virtual tours to increase lead conversion",
			},
		}
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// templateAnswer answers from keywords when no model is configured.
func templateAnswer(question string, ps *models.PropertyStats, ls *models.LeadStats) string {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, "available", "availability", "vacant"):
		return fmt.Sprintf("Based on current data, IndoHomz has %d available properties out of %d total listings.",
			ps.AvailableProperties, ps.TotalProperties)
	case containsAny(q, "lead", "inquiry", "inquiries"):
		return fmt.Sprintf("IndoHomz has %d total leads with a %s%% conversion rate. %d are new inquiries.",
			ls.TotalLeads, fmtNum(ls.ConversionRate), ls.NewLeads)
	case containsAny(q, "property", "properties", "listing"):
		return fmt.Sprintf("The IndoHomz portfolio includes %d properties. %d are available and %d are currently rented.",
			ps.TotalProperties, ps.AvailableProperties, ps.RentedProperties)
	case containsAny(q, "conversion", "convert"):
		return fmt.Sprintf("The current lead conversion rate is %s%%. %d leads have been successfully converted.",
			fmtNum(ls.ConversionRate), ls.ConvertedLeads)
	default:
		return fmt.Sprintf("I can help you with questions about properties, availability, leads, and conversions. Currently, IndoHomz manages %d properties with %d active leads.",
			ps.TotalProperties, ls.TotalLeads)
	}
}
