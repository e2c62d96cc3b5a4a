package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusCompleted:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency tiers.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityLow    TicketPriority = "LOW"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return true
	}
	return false
}

// CompletionReport is recorded once when a ticket enters COMPLETED.
type CompletionReport struct {
	ActionDetails string    `json:"action_details"`
	Parts         []string  `json:"parts"`
	WorkDuration  string    `json:"work_duration"`
	CompletedBy   string    `json:"completed_by"`
	CompletedAt   time.Time `json:"completed_at"`
}

// AdditionalInfo is the worker's one-time supplementary submission.
type AdditionalInfo struct {
	Symptoms    []string  `json:"symptoms"`
	Text        string    `json:"text"`
	Photos      []string  `json:"photos"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Empty reports whether the submission carries nothing.
func (a AdditionalInfo) Empty() bool {
	return len(a.Symptoms) == 0 && strings.TrimSpace(a.Text) == "" && len(a.Photos) == 0
}

// Ticket is the aggregate for maintenance requests.
type Ticket struct {
	ID               string
	Line             string
	Machine          string
	Symptom          string
	SymptomCategory  string
	Description      string
	Applicant        string
	Status           TicketStatus
	Priority         TicketPriority
	History          []HistoryEntry
	BeforePhotos     []string
	AfterPhotos      []string
	CompletionReport *CompletionReport
	AdditionalInfo   *AdditionalInfo
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LastHistory returns the most recent history entry.
func (t *Ticket) LastHistory() (HistoryEntry, bool) {
	if len(t.History) == 0 {
		return HistoryEntry{}, false
	}
	return t.History[len(t.History)-1], true
}

// Clone returns a deep copy so callers never share slices with a store.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	c.History = append([]HistoryEntry(nil), t.History...)
	c.BeforePhotos = append([]string(nil), t.BeforePhotos...)
	c.AfterPhotos = append([]string(nil), t.AfterPhotos...)
	if t.CompletionReport != nil {
		report := *t.CompletionReport
		report.Parts = append([]string(nil), t.CompletionReport.Parts...)
		c.CompletionReport = &report
	}
	if t.AdditionalInfo != nil {
		info := *t.AdditionalInfo
		info.Symptoms = append([]string(nil), t.AdditionalInfo.Symptoms...)
		info.Photos = append([]string(nil), t.AdditionalInfo.Photos...)
		c.AdditionalInfo = &info
	}
	return &c
}
