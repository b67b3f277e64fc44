package engine

import (
	"errors"
	"fmt"

	"campus-queue-backend/internal/queueing/models"
)

// Expected business failures. Callers branch on these; none of them
// indicates a crash.
var (
	// ErrServiceRequired rejects admission of a ticket without a service.
	ErrServiceRequired = errors.New("ticket service is required")

	// ErrOfficeRequired rejects admission of a ticket without an office.
	ErrOfficeRequired = errors.New("ticket office is required")

	// ErrNoEligibleLane means no active lane matched the ticket's
	// attributes. The office configuration has to change before retrying.
	ErrNoEligibleLane = errors.New("no eligible lane for ticket")

	// ErrAlreadyTerminal acknowledges a repeated terminal transition.
	// Callers treat it as success; no second record is ever written.
	ErrAlreadyTerminal = errors.New("ticket already finalized")

	// ErrAlreadyClaimed means another staff member won the race for a
	// waiting ticket. Callers re-fetch the next ticket and retry.
	ErrAlreadyClaimed = errors.New("ticket already claimed by another staff member")

	// ErrLaneFrozen rejects lane re-assignment once a ticket has been
	// called to a counter.
	ErrLaneFrozen = errors.New("lane assignment is frozen once the ticket has been called")
)

// InvalidTransitionError reports an event fired against a status it is
// not allowed from. The ticket is left untouched.
type InvalidTransitionError struct {
	From  models.TicketStatus
	Event models.Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %q not allowed from status %q", e.Event, e.From)
}
