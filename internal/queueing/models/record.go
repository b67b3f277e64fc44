package models

import "time"

// ProcessingTimeRecord is the immutable audit entry written once when
// a ticket reaches completed or skipped. It is never updated or
// deleted afterwards.
type ProcessingTimeRecord struct {
	TicketID              string    `json:"id_ticket"`
	TicketNumber          string    `json:"ticket_number"`
	Service               string    `json:"service"`
	Office                string    `json:"office"`
	LaneID                string    `json:"id_lane"`
	ProcessingStartTime   time.Time `json:"processing_start_time"`
	ProcessingEndTime     time.Time `json:"processing_end_time"`
	ProcessingTimeMinutes int       `json:"processing_time_minutes"`
	StaffMember           string    `json:"staff_member"`
	CompletionReason      string    `json:"completion_reason"`
	CreatedAt             time.Time `json:"created_at"`
}
