package dto

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// CreateTicketRequest payload. The applicant is taken from the token.
type CreateTicketRequest struct {
	Line            string                `json:"line"`
	Machine         string                `json:"machine"`
	Symptom         string                `json:"symptom"`
	SymptomCategory string                `json:"symptom_category"`
	Description     string                `json:"description"`
	Priority        domain.TicketPriority `json:"priority"`
	BeforePhotos    []string              `json:"before_photos"`
}

// CompletionReportRequest is the technician's report on completion.
type CompletionReportRequest struct {
	ActionDetails string   `json:"action_details"`
	Parts         []string `json:"parts"`
	WorkDuration  string   `json:"work_duration"`
}

// UpdateStatusRequest payload. Omitting after_photos keeps the stored set.
type UpdateStatusRequest struct {
	Status           domain.TicketStatus      `json:"status"`
	Note             string                   `json:"note"`
	AfterPhotos      []string                 `json:"after_photos"`
	CompletionReport *CompletionReportRequest `json:"completion_report"`
}

// AdditionalInfoRequest payload.
type AdditionalInfoRequest struct {
	Symptoms []string `json:"symptoms"`
	Text     string   `json:"text"`
	Photos   []string `json:"photos"`
}

// HistoryEntryResponse is one audit row.
type HistoryEntryResponse struct {
	Status      domain.TicketStatus `json:"status"`
	StatusLabel string              `json:"status_label"`
	Timestamp   time.Time           `json:"timestamp"`
	Note        string              `json:"note"`
	UpdaterName string              `json:"updater_name"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID               string                   `json:"id"`
	Line             string                   `json:"line"`
	Machine          string                   `json:"machine"`
	Symptom          string                   `json:"symptom"`
	SymptomCategory  string                   `json:"symptom_category"`
	Description      string                   `json:"description"`
	Applicant        string                   `json:"applicant"`
	Status           domain.TicketStatus      `json:"status"`
	StatusLabel      string                   `json:"status_label"`
	Priority         domain.TicketPriority    `json:"priority"`
	PriorityLabel    string                   `json:"priority_label"`
	Delayed          bool                     `json:"delayed"`
	SLADeadline      time.Time                `json:"sla_deadline"`
	History          []HistoryEntryResponse   `json:"history"`
	BeforePhotos     []string                 `json:"before_photos"`
	AfterPhotos      []string                 `json:"after_photos"`
	CompletionReport *domain.CompletionReport `json:"completion_report"`
	AdditionalInfo   *domain.AdditionalInfo   `json:"additional_info"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// TicketPageResponse is one page of the admin table.
type TicketPageResponse struct {
	Items      []TicketResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// NamedCount is one chart bar.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DashboardResponse is the admin overview.
type DashboardResponse struct {
	Total          int              `json:"total"`
	Pending        int              `json:"pending"`
	CompletedToday int              `json:"completed_today"`
	DelayedCount   int              `json:"delayed_count"`
	Delayed        []TicketResponse `json:"delayed"`
	ByLine         []NamedCount     `json:"by_line"`
	TopSymptoms    []NamedCount     `json:"top_symptoms"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
