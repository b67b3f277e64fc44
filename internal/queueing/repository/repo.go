package repository

import (
	"context"
	"errors"
	"time"

	"campus-queue-backend/internal/queueing/models"
)

// ErrNotFound is returned when an id does not resolve to a row.
var ErrNotFound = errors.New("not found")

type TicketRepository interface {
	Insert(ctx context.Context, t *models.Ticket) error
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	ListByLaneAndStatus(ctx context.Context, laneID string, statuses ...models.TicketStatus) ([]models.Ticket, error)

	// QueueLengths counts tickets occupying each lane of the office
	// (status waiting, current or processing).
	QueueLengths(ctx context.Context, office string) (map[string]int, error)

	// NextTicketSequence atomically allocates the office's next
	// per-day ticket number sequence. Concurrent callers each get a
	// distinct value.
	NextTicketSequence(ctx context.Context, office string, day time.Time) (int, error)

	// TransitionTx applies the ticket's mutable fields only when the
	// stored status still equals expected, and appends rec (when non-nil)
	// in the same transaction. Reports whether the conditional update won.
	TransitionTx(ctx context.Context, t *models.Ticket, expected models.TicketStatus, rec *models.ProcessingTimeRecord) (bool, error)

	// ReassignLaneIfWaiting moves the ticket to another lane only while
	// it is still waiting. Reports whether a row changed.
	ReassignLaneIfWaiting(ctx context.Context, id, laneID string, queuedAt time.Time) (bool, error)
}

type LaneRepository interface {
	Insert(ctx context.Context, l *models.Lane) error
	GetByID(ctx context.Context, id string) (*models.Lane, error)
	ListByOffice(ctx context.Context, office string) ([]models.Lane, error)
	ListActiveByOffice(ctx context.Context, office string) ([]models.Lane, error)
	SetStatus(ctx context.Context, id string, status models.LaneStatus) error
}

type RecordRepository interface {
	// Insert appends a processing-time record. The table is append-only;
	// nothing in the backend updates or deletes rows.
	Insert(ctx context.Context, rec *models.ProcessingTimeRecord) error
	List(ctx context.Context, office, service string) ([]models.ProcessingTimeRecord, error)
}
