package models

import (
	"strings"
	"time"
)

// Lead funnel stages.
const (
	StatusNew         = "new"
	StatusContacted   = "contacted"
	StatusSiteVisit   = "site_visit"
	StatusNegotiation = "negotiation"
	StatusConverted   = "converted"
	StatusLost        = "lost"
)

// Lead sources.
const (
	SourceWebsite   = "website"
	SourceWhatsApp  = "whatsapp"
	SourceReferral  = "referral"
	SourceInstagram = "instagram"
	SourceGoogle    = "google"
	SourceWalkIn    = "walk_in"
)

var LeadStatuses = []string{StatusNew, StatusContacted, StatusSiteVisit, StatusNegotiation, StatusConverted, StatusLost}

// FunnelStages is the order leads move through; "lost" is not a stage.
var FunnelStages = []string{StatusNew, StatusContacted, StatusSiteVisit, StatusNegotiation, StatusConverted}

func IsValidStatus(s string) bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// StageLabel renders "site_visit" as "Site Visit".
func StageLabel(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Lead is a visitor inquiry, table leads.
type Lead struct {
	ID                 int        `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	Email              string     `gorm:"size:255;index" json:"email,omitempty"`
	Phone              string     `gorm:"size:20;not null;index" json:"phone"`
	PropertyID         *int       `gorm:"index" json:"property_id,omitempty"`
	Property           *Property  `gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL" json:"-"`
	Message            string     `gorm:"type:text" json:"message,omitempty"`
	PreferredVisitDate *time.Time `json:"preferred_visit_date,omitempty"`
	Status             string     `gorm:"size:50;default:new;index" json:"status"`
	Source             string     `gorm:"size:50;default:website;index" json:"source"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// LeadRequest is what the public forms submit.
type LeadRequest struct {
	Name               string     `json:"name" validate:"required,min=1,max=100"`
	Email              string     `json:"email" validate:"omitempty,email,max=255"`
	Phone              string     `json:"phone" validate:"required,min=10,max=20"`
	PropertyID         *int       `json:"property_id" validate:"omitempty,min=1"`
	Message            string     `json:"message" validate:"max=2000"`
	PreferredVisitDate *time.Time `json:"preferred_visit_date"`
	Source             string     `json:"source" validate:"omitempty,max=50"`
}

// LeadUpdate is the admin side partial update.
type LeadUpdate struct {
	Name               *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Email              *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone              *string    `json:"phone" validate:"omitempty,min=10,max=20"`
	PropertyID         *int       `json:"property_id" validate:"omitempty,min=1"`
	Message            *string    `json:"message"`
	PreferredVisitDate *time.Time `json:"preferred_visit_date"`
	Status             *string    `json:"status" validate:"omitempty,max=50"`
	Source             *string    `json:"source" validate:"omitempty,max=50"`
}

type InquiryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  int    `json:"lead_id"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type LeadStats struct {
	TotalLeads     int           `json:"total_leads"`
	NewLeads       int           `json:"new_leads"`
	ConvertedLeads int           `json:"converted_leads"`
	ConversionRate float64       `json:"conversion_rate"`
	ByStatus       []StatusCount `json:"by_status"`
	BySource       []SourceCount `json:"by_source"`
}

type FunnelStage struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Funnel struct {
	Funnel         []FunnelStage `json:"funnel"`
	TotalLeads     int           `json:"total_leads"`
	ConversionRate float64       `json:"conversion_rate"`
}

type SourcePerformance struct {
	Source     string  `json:"source"`
	Leads      int     `json:"leads"`
	Percentage float64 `json:"percentage"`
}
