package models

import "time"

// TicketStatus is the closed set of states a ticket moves through.
type TicketStatus string

const (
	StatusWaiting    TicketStatus = "waiting"
	StatusCurrent    TicketStatus = "current"
	StatusProcessing TicketStatus = "processing"
	StatusCompleted  TicketStatus = "completed"
	StatusCancelled  TicketStatus = "cancelled"
	StatusSkipped    TicketStatus = "skipped"
)

// Terminal reports whether no further transition is permitted.
func (s TicketStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusSkipped:
		return true
	}
	return false
}

// PriorityClass determines serving precedence and is immutable once
// the ticket is issued.
type PriorityClass string

const (
	PriorityRegular  PriorityClass = "regular"
	PriorityElevated PriorityClass = "priority"
	PriorityVIP      PriorityClass = "vip"
)

// Rank maps the class to its serving precedence, higher served first.
func (p PriorityClass) Rank() int {
	switch p {
	case PriorityVIP:
		return 3
	case PriorityElevated:
		return 2
	case PriorityRegular:
		return 1
	}
	return 0
}

type CustomerType string

const (
	CustomerAppointment CustomerType = "appointment"
	CustomerWalkIn      CustomerType = "walk_in"
)

// Event is a staff or customer action fired against a ticket.
type Event string

const (
	EventPullNext        Event = "pull_next"
	EventStartProcessing Event = "start_processing"
	EventHold            Event = "hold"
	EventSkip            Event = "skip"
	EventComplete        Event = "complete"
	EventCancel          Event = "cancel"
)

type Ticket struct {
	ID            string        `json:"id_ticket"`
	TicketNumber  string        `json:"ticket_number"`
	Office        string        `json:"office"`
	Service       string        `json:"service"`
	PriorityClass PriorityClass `json:"priority_class"`
	CustomerType  CustomerType  `json:"customer_type"`
	CourseCode    string        `json:"course_code,omitempty"`
	YearLevel     string        `json:"year_level,omitempty"`
	Status        TicketStatus  `json:"status"`
	LaneID        string        `json:"id_lane"`
	AssignedStaff string        `json:"assigned_staff,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`

	// QueuedAt is the ordering position within the lane. It starts
	// equal to CreatedAt and is pushed forward when a hold returns the
	// ticket to waiting, so a held ticket re-enters behind same-class
	// tickets that arrived during its hold.
	QueuedAt time.Time `json:"queued_at"`

	ProcessingStartTime *time.Time `json:"processing_start_time,omitempty"`
	ProcessingEndTime   *time.Time `json:"processing_end_time,omitempty"`
	CompletionReason    string     `json:"completion_reason,omitempty"`
}
