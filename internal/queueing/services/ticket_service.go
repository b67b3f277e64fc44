package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-queue-backend/internal/queueing/engine"
	"campus-queue-backend/internal/queueing/models"
	"campus-queue-backend/internal/queueing/repository"
	"campus-queue-backend/pkg/utils"
)

type TicketService struct {
	Tickets repository.TicketRepository
	Lanes   repository.LaneRepository

	// Now is the clock source, replaceable in tests.
	Now func() time.Time
}

func NewTicketService(tickets repository.TicketRepository, lanes repository.LaneRepository) *TicketService {
	return &TicketService{Tickets: tickets, Lanes: lanes, Now: time.Now}
}

func (s *TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateTicketRequest struct {
	Office        string               `json:"office"`
	Service       string               `json:"service"`
	PriorityClass models.PriorityClass `json:"priority_class"`
	CustomerType  models.CustomerType  `json:"customer_type"`
	CourseCode    string               `json:"course_code"`
	YearLevel     string               `json:"year_level"`
}

// CreateTicket issues a new ticket: allocates its id and display
// number, routes it through the admission filter over the office's
// active lanes and live queue lengths, and persists it as waiting.
func (s *TicketService) CreateTicket(ctx context.Context, req CreateTicketRequest) (*models.Ticket, error) {
	if strings.TrimSpace(req.Service) == "" {
		return nil, engine.ErrServiceRequired
	}
	if strings.TrimSpace(req.Office) == "" {
		return nil, engine.ErrOfficeRequired
	}

	lanes, err := s.Lanes.ListActiveByOffice(ctx, req.Office)
	if err != nil {
		return nil, err
	}
	loads, err := s.Tickets.QueueLengths(ctx, req.Office)
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := models.Ticket{
		ID:            utils.NewTicketID(),
		Office:        req.Office,
		Service:       req.Service,
		PriorityClass: req.PriorityClass,
		CustomerType:  req.CustomerType,
		CourseCode:    req.CourseCode,
		YearLevel:     req.YearLevel,
		Status:        models.StatusWaiting,
		CreatedAt:     now,
		QueuedAt:      now,
	}
	if t.PriorityClass == "" {
		t.PriorityClass = models.PriorityRegular
	}
	if t.CustomerType == "" {
		t.CustomerType = models.CustomerWalkIn
	}

	laneID, err := engine.AssignLane(t, lanes, loads)
	if err != nil {
		return nil, err
	}
	t.LaneID = laneID

	seq, err := s.Tickets.NextTicketSequence(ctx, req.Office, now)
	if err != nil {
		return nil, err
	}
	t.TicketNumber = utils.FormatTicketNumber(req.Office, now, seq)

	if err := s.Tickets.Insert(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Transition fires one state-machine event against the ticket. The
// write is a conditional update keyed on the status the snapshot was
// read at, so two staff racing on the same ticket cannot both win; the
// processing-time record (when one is due) lands in the same
// transaction.
func (s *TicketService) Transition(ctx context.Context, ticketID string, ev models.Event, actor string) (*engine.Outcome, error) {
	t, err := s.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	out, err := engine.Apply(*t, ev, actor, s.now())
	if err != nil {
		// A pull against a ticket some other desk already holds is a
		// lost claim, not a caller bug; report it as such so the caller
		// re-fetches the queue and retries.
		var invalid *engine.InvalidTransitionError
		if ev == models.EventPullNext && errors.As(err, &invalid) && !t.Status.Terminal() {
			return nil, engine.ErrAlreadyClaimed
		}
		return nil, err
	}

	won, err := s.Tickets.TransitionTx(ctx, &out.Ticket, t.Status, out.Record)
	if err != nil {
		return nil, err
	}
	if !won {
		// The row moved between our read and the conditional write.
		// Re-evaluate against the fresh status to report the same typed
		// failure a direct call would have seen.
		if fresh, ferr := s.Tickets.GetByID(ctx, ticketID); ferr == nil {
			if ev == models.EventPullNext && fresh.Status != models.StatusWaiting {
				return nil, engine.ErrAlreadyClaimed
			}
			if _, aerr := engine.Apply(*fresh, ev, actor, s.now()); aerr != nil {
				return nil, aerr
			}
		}
		return nil, engine.ErrAlreadyClaimed
	}
	return &out, nil
}

// NextTicket returns the advisory next ticket for a lane, or nil when
// the lane has nothing waiting.
func (s *TicketService) NextTicket(ctx context.Context, laneID string) (*models.Ticket, error) {
	waiting, err := s.Tickets.ListByLaneAndStatus(ctx, laneID, models.StatusWaiting)
	if err != nil {
		return nil, err
	}
	return engine.NextTicket(laneID, waiting), nil
}

// PullNext picks the lane's next ticket and claims it for the staff
// member. A lost claim means another desk took the ticket first, so
// the pick is refreshed and retried a few times before giving up.
func (s *TicketService) PullNext(ctx context.Context, laneID, actor string) (*models.Ticket, error) {
	for attempt := 0; attempt < 3; attempt++ {
		candidate, err := s.NextTicket(ctx, laneID)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, nil
		}

		out, err := s.Transition(ctx, candidate.ID, models.EventPullNext, actor)
		if errors.Is(err, engine.ErrAlreadyClaimed) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &out.Ticket, nil
	}
	return nil, engine.ErrAlreadyClaimed
}

// WaitingList returns a lane's waiting tickets in serving order, for
// display boards.
func (s *TicketService) WaitingList(ctx context.Context, laneID string) ([]models.Ticket, error) {
	waiting, err := s.Tickets.ListByLaneAndStatus(ctx, laneID, models.StatusWaiting)
	if err != nil {
		return nil, err
	}
	engine.SortWaiting(waiting)
	return waiting, nil
}

// ReassignLane moves a waiting ticket to another lane. The target lane
// must accept the ticket; once a ticket has been called the lane is
// frozen.
func (s *TicketService) ReassignLane(ctx context.Context, ticketID, laneID string) error {
	t, err := s.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if t.Status != models.StatusWaiting {
		return engine.ErrLaneFrozen
	}

	lane, err := s.Lanes.GetByID(ctx, laneID)
	if err != nil {
		return err
	}
	if !engine.Eligible(*lane, *t) {
		return engine.ErrNoEligibleLane
	}

	moved, err := s.Tickets.ReassignLaneIfWaiting(ctx, ticketID, laneID, s.now())
	if err != nil {
		return err
	}
	if !moved {
		return engine.ErrLaneFrozen
	}
	return nil
}
