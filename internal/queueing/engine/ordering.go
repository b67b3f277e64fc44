package engine

import (
	"sort"

	"campus-queue-backend/internal/queueing/models"
)

// SortWaiting orders tickets into serving order: higher priority class
// first, then queue position (arrival time, or hold-return time for
// held tickets), then creation time and id as deterministic
// tie-breaks.
func SortWaiting(tickets []models.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		if ra, rb := a.PriorityClass.Rank(), b.PriorityClass.Rank(); ra != rb {
			return ra > rb
		}
		if !a.QueuedAt.Equal(b.QueuedAt) {
			return a.QueuedAt.Before(b.QueuedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// NextTicket returns the advisory next ticket to serve in the lane, or
// nil when nothing is waiting. Advisory because the snapshot can go
// stale: the caller must still win the conditional pull_next update
// before the ticket is actually theirs.
func NextTicket(laneID string, tickets []models.Ticket) *models.Ticket {
	var candidates []models.Ticket
	for _, t := range tickets {
		if t.LaneID == laneID && t.Status == models.StatusWaiting {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	SortWaiting(candidates)
	next := candidates[0]
	return &next
}
