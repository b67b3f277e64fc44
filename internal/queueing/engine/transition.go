package engine

import (
	"math"
	"time"

	"campus-queue-backend/internal/queueing/models"
)

// allowedFrom maps each event to the statuses it may fire from:
//
//	waiting -> current -> processing -> completed|skipped
//	waiting -> cancelled
//	current -> skipped, current -> waiting (hold)
var allowedFrom = map[models.Event][]models.TicketStatus{
	models.EventPullNext:        {models.StatusWaiting},
	models.EventStartProcessing: {models.StatusCurrent},
	models.EventHold:            {models.StatusCurrent},
	models.EventSkip:            {models.StatusCurrent, models.StatusProcessing},
	models.EventComplete:        {models.StatusProcessing},
	models.EventCancel:          {models.StatusWaiting},
}

func eventAllowed(ev models.Event, from models.TicketStatus) bool {
	for _, s := range allowedFrom[ev] {
		if s == from {
			return true
		}
	}
	return false
}

func terminalEvent(ev models.Event) bool {
	switch ev {
	case models.EventComplete, models.EventSkip, models.EventCancel:
		return true
	}
	return false
}

// Outcome is the result of a successful transition: the updated ticket
// copy and, on completed/skipped, the processing-time record to append.
type Outcome struct {
	Ticket models.Ticket
	Record *models.ProcessingTimeRecord
}

// Apply evaluates one state-machine event against a ticket snapshot.
// The input is never mutated; callers persist the returned copy with a
// conditional update keyed on the snapshot's status so that racing
// staff cannot both win.
func Apply(t models.Ticket, ev models.Event, actor string, now time.Time) (Outcome, error) {
	if t.Status.Terminal() {
		if terminalEvent(ev) {
			return Outcome{}, ErrAlreadyTerminal
		}
		return Outcome{}, &InvalidTransitionError{From: t.Status, Event: ev}
	}
	if !eventAllowed(ev, t.Status) {
		return Outcome{}, &InvalidTransitionError{From: t.Status, Event: ev}
	}

	out := Outcome{Ticket: t}
	switch ev {
	case models.EventPullNext:
		out.Ticket.Status = models.StatusCurrent
		out.Ticket.AssignedStaff = actor

	case models.EventStartProcessing:
		start := now
		out.Ticket.Status = models.StatusProcessing
		out.Ticket.ProcessingStartTime = &start

	case models.EventHold:
		out.Ticket.Status = models.StatusWaiting
		out.Ticket.AssignedStaff = ""
		out.Ticket.QueuedAt = now

	case models.EventSkip:
		end := now
		out.Ticket.Status = models.StatusSkipped
		out.Ticket.ProcessingEndTime = &end
		out.Ticket.CompletionReason = "skipped"
		rec := buildRecord(out.Ticket, actor, now)
		out.Record = &rec

	case models.EventComplete:
		out.Ticket.Status = models.StatusCompleted
		if out.Ticket.ProcessingEndTime == nil {
			end := now
			out.Ticket.ProcessingEndTime = &end
		}
		out.Ticket.CompletionReason = "completed"
		rec := buildRecord(out.Ticket, actor, now)
		out.Record = &rec

	case models.EventCancel:
		out.Ticket.Status = models.StatusCancelled
	}
	return out, nil
}

// buildRecord snapshots the ticket into an immutable processing-time
// record. A ticket skipped before processing started has no start
// time; it defaults to the transition time, yielding zero minutes.
func buildRecord(t models.Ticket, actor string, now time.Time) models.ProcessingTimeRecord {
	start := now
	if t.ProcessingStartTime != nil {
		start = *t.ProcessingStartTime
	}
	end := now
	if t.ProcessingEndTime != nil {
		end = *t.ProcessingEndTime
	}

	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	staff := actor
	if staff == "" {
		staff = t.AssignedStaff
	}

	return models.ProcessingTimeRecord{
		TicketID:              t.ID,
		TicketNumber:          t.TicketNumber,
		Service:               t.Service,
		Office:                t.Office,
		LaneID:                t.LaneID,
		ProcessingStartTime:   start,
		ProcessingEndTime:     end,
		ProcessingTimeMinutes: minutes,
		StaffMember:           staff,
		CompletionReason:      t.CompletionReason,
		CreatedAt:             now,
	}
}
