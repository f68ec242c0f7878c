package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"IndoHomz/internal/logger"
	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"

	"github.com/sirupsen/logrus"
)

type LeadService interface {
	Create(ctx context.Context, req models.LeadRequest) (*models.Lead, error)
	Get(ctx context.Context, id int) (*models.Lead, error)
	List(ctx context.Context, f repositories.LeadFilter) ([]models.Lead, error)
	ListByProperty(ctx context.Context, propertyID int) ([]models.Lead, error)
	Update(ctx context.Context, id int, upd models.LeadUpdate) (*models.Lead, error)
	UpdateStatus(ctx context.Context, id int, status string) (*models.Lead, error)
	Stats(ctx context.Context) (*models.LeadStats, error)
	Funnel(ctx context.Context) (*models.Funnel, error)
	SourcePerformance(ctx context.Context) ([]models.SourcePerformance, int, error)
	CreatedSince(ctx context.Context, since time.Time) (int64, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type leadService struct {
	leads    repositories.LeadRepository
	props    repositories.PropertyRepository
	notifier Notifier
}

func NewLeadService(leads repositories.LeadRepository, props repositories.PropertyRepository, n Notifier) LeadService {
	if n == nil {
		n = NopNotifier{}
	}
	return &leadService{leads: leads, props: props, notifier: n}
}

// Create checks and cleans a visitor inquiry, stores it as "new" and
// notifies the sales inbox. Notification failures never fail the lead.
func (s *leadService) Create(ctx context.Context, req models.LeadRequest) (*models.Lead, error) {
	if !utils.ValidatePhone(req.Phone) {
		return nil, utils.ErrInvalidPhone
	}
	name := utils.SanitizeText(req.Name)
	if name == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Name is required", nil)
	}

	var prop *models.Property
	if req.PropertyID != nil {
		p, err := s.property(ctx, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		prop = p
	}

	source := strings.ToLower(strings.TrimSpace(req.Source))
	if source == "" {
		source = models.SourceWebsite
	}

	lead := &models.Lead{
		Name:               name,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              utils.NormalizePhone(req.Phone),
		PropertyID:         req.PropertyID,
		Message:            utils.SanitizeText(req.Message),
		PreferredVisitDate: req.PreferredVisitDate,
		Status:             models.StatusNew,
		Source:             source,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}

	if err := s.notifier.NewLead(ctx, lead, prop); err != nil {
		logger.Log.WithFields(logrus.Fields{"lead_id": lead.ID, "error": err}).Warn("lead notification failed")
	}
	return lead, nil
}

// property loads the listing a lead refers to; a missing one is a 400.
func (s *leadService) property(ctx context.Context, id int) (*models.Property, error) {
	p, err := s.props.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Property does not exist", err)
	}
	return p, err
}

func (s *leadService) Get(ctx context.Context, id int) (*models.Lead, error) {
	return s.leads.GetByID(ctx, id)
}

func (s *leadService) List(ctx context.Context, f repositories.LeadFilter) ([]models.Lead, error) {
	return s.leads.List(ctx, f)
}

func (s *leadService) ListByProperty(ctx context.Context, propertyID int) ([]models.Lead, error) {
	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.leads.ListByProperty(ctx, propertyID)
}

func (s *leadService) Update(ctx context.Context, id int, upd models.LeadUpdate) (*models.Lead, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Phone != nil {
		if !utils.ValidatePhone(*upd.Phone) {
			return nil, utils.ErrInvalidPhone
		}
		l.Phone = utils.NormalizePhone(*upd.Phone)
	}
	if upd.Status != nil {
		if !models.IsValidStatus(*upd.Status) {
			return nil, utils.ErrInvalidStatus
		}
		l.Status = *upd.Status
	}
	if upd.Name != nil {
		l.Name = utils.SanitizeText(*upd.Name)
	}
	if upd.Email != nil {
		l.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.Message != nil {
		l.Message = utils.SanitizeText(*upd.Message)
	}
	if upd.PropertyID != nil {
		if _, err := s.property(ctx, *upd.PropertyID); err != nil {
			return nil, err
		}
		l.PropertyID = upd.PropertyID
	}
	if upd.PreferredVisitDate != nil {
		l.PreferredVisitDate = upd.PreferredVisitDate
	}
	if upd.Source != nil {
		l.Source = *upd.Source
	}
	if err := s.leads.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *leadService) UpdateStatus(ctx context.Context, id int, status string) (*models.Lead, error) {
	if !models.IsValidStatus(status) {
		return nil, utils.ErrInvalidStatus
	}
	return s.Update(ctx, id, models.LeadUpdate{Status: &status})
}

func (s *leadService) Stats(ctx context.Context) (*models.LeadStats, error) {
	all, err := s.leads.All(ctx)
	if err != nil {
		return nil, err
	}
	st := &models.LeadStats{TotalLeads: len(all), ByStatus: []models.StatusCount{}, BySource: []models.SourceCount{}}

	byStatus := map[string]int{}
	bySource := map[string]int{}
	for _, l := range all {
		byStatus[l.Status]++
		bySource[l.Source]++
	}
	st.NewLeads = byStatus[models.StatusNew]
	st.ConversionRate = percent(byStatus[models.StatusConverted], st.TotalLeads, 2)
	st.ConvertedLeads = byStatus[models.StatusConverted]

	for _, status := range orderedKeys(byStatus, models.LeadStatuses) {
		st.ByStatus = append(st.ByStatus, models.StatusCount{Status: status, Count: byStatus[status]})
	}
	for _, src := range orderedKeys(bySource, nil) {
		st.BySource = append(st.BySource, models.SourceCount{Source: src, Count: bySource[src]})
	}
	return st, nil
}

// Funnel reports each stage with title-cased labels and 1dp percentages.
func (s *leadService) Funnel(ctx context.Context) (*models.Funnel, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, c := range st.ByStatus {
		counts[c.Status] = c.Count
	}
	f := &models.Funnel{TotalLeads: st.TotalLeads, ConversionRate: st.ConversionRate}
	for _, stage := range models.FunnelStages {
		f.Funnel = append(f.Funnel, models.FunnelStage{
			Stage:      models.StageLabel(stage),
			Count:      counts[stage],
			Percentage: percent(counts[stage], st.TotalLeads, 1),
		})
	}
	return f, nil
}

func (s *leadService) SourcePerformance(ctx context.Context) ([]models.SourcePerformance, int, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.SourcePerformance, 0, len(st.BySource))
	for _, src := range st.BySource {
		out = append(out, models.SourcePerformance{
			Source:     models.StageLabel(src.Source),
			Leads:      src.Count,
			Percentage: percent(src.Count, st.TotalLeads, 1),
		})
	}
	return out, st.TotalLeads, nil
}

func (s *leadService) CreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.leads.CountCreatedSince(ctx, since)
}

var csvHeader = []string{"id", "name", "email", "phone", "property_id", "status", "source", "message", "preferred_visit_date", "created_at"}

// ExportCSV writes every lead, newest first.
func (s *leadService) ExportCSV(ctx context.Context, w io.Writer) error {
	all, err := s.leads.All(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range all {
		var propID, visit string
		if l.PropertyID != nil {
			propID = strconv.Itoa(*l.PropertyID)
		}
		if l.PreferredVisitDate != nil {
			visit = l.PreferredVisitDate.Format("2006-01-02")
		}
		row := []string{
			strconv.Itoa(l.ID), csvCell(l.Name), csvCell(l.Email), l.Phone, propID,
			l.Status, csvCell(l.Source), csvCell(l.Message), visit, l.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvCell keeps spreadsheets from evaluating visitor text as a formula.
func csvCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// percent is part/total*100 rounded to the given decimals, 0 when total is 0.
func percent(part, total, decimals int) float64 {
	if total == 0 {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(float64(part)/float64(total)*100*scale) / scale
}

// orderedKeys lists known keys in their canonical order, then the rest sorted.
func orderedKeys(m map[string]int, known []string) []string {
	out := make([]string, 0, len(m))
	seen := map[string]bool{}
	for _, k := range known {
		if _, ok := m[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
