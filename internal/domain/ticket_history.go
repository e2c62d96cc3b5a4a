package domain

import "time"

// SystemUpdater is the updater name used for engine-generated entries.
const SystemUpdater = "system"

// HistoryEntry is an immutable audit trail entry on a ticket.
type HistoryEntry struct {
	Status      TicketStatus `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
	Note        string       `json:"note"`
	UpdaterName string       `json:"updater_name"`
}
