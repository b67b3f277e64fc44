package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-queue-backend/internal/queueing/engine"
	"campus-queue-backend/internal/queueing/models"
	"campus-queue-backend/internal/queueing/repository"
)

// fakeTicketRepo is an in-memory TicketRepository with the same
// compare-and-set semantics as the MySQL implementation.
type fakeTicketRepo struct {
	mu       sync.Mutex
	tickets  map[string]models.Ticket
	records  []models.ProcessingTimeRecord
	counters map[string]int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]models.Ticket{}, counters: map[string]int{}}
}

func (r *fakeTicketRepo) Insert(_ context.Context, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID] = *t
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTicketRepo) ListByLaneAndStatus(_ context.Context, laneID string, statuses ...models.TicketStatus) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.tickets {
		if t.LaneID != laneID {
			continue
		}
		for _, s := range statuses {
			if t.Status == s {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) QueueLengths(_ context.Context, office string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loads := map[string]int{}
	for _, t := range r.tickets {
		if t.Office != office {
			continue
		}
		switch t.Status {
		case models.StatusWaiting, models.StatusCurrent, models.StatusProcessing:
			loads[t.LaneID]++
		}
	}
	return loads, nil
}

func (r *fakeTicketRepo) NextTicketSequence(_ context.Context, office string, day time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := office + "|" + day.Format("2006-01-02")
	r.counters[key]++
	return r.counters[key], nil
}

func (r *fakeTicketRepo) TransitionTx(_ context.Context, t *models.Ticket, expected models.TicketStatus, rec *models.ProcessingTimeRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[t.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	r.tickets[t.ID] = *t
	if rec != nil {
		r.records = append(r.records, *rec)
	}
	return true, nil
}

func (r *fakeTicketRepo) ReassignLaneIfWaiting(_ context.Context, id, laneID string, queuedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok || t.Status != models.StatusWaiting {
		return false, nil
	}
	t.LaneID = laneID
	t.QueuedAt = queuedAt
	r.tickets[id] = t
	return true, nil
}

type fakeLaneRepo struct {
	lanes []models.Lane
}

func (r *fakeLaneRepo) Insert(_ context.Context, l *models.Lane) error {
	r.lanes = append(r.lanes, *l)
	return nil
}

func (r *fakeLaneRepo) GetByID(_ context.Context, id string) (*models.Lane, error) {
	for _, l := range r.lanes {
		if l.ID == id {
			lane := l
			return &lane, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLaneRepo) ListByOffice(_ context.Context, office string) ([]models.Lane, error) {
	var out []models.Lane
	for _, l := range r.lanes {
		if l.Office == office {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLaneRepo) ListActiveByOffice(ctx context.Context, office string) ([]models.Lane, error) {
	all, _ := r.ListByOffice(ctx, office)
	var out []models.Lane
	for _, l := range all {
		if l.Status == models.LaneActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLaneRepo) SetStatus(_ context.Context, id string, status models.LaneStatus) error {
	for i := range r.lanes {
		if r.lanes[i].ID == id {
			r.lanes[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func testService(lanes ...models.Lane) (*TicketService, *fakeTicketRepo) {
	tickets := newFakeTicketRepo()
	svc := NewTicketService(tickets, &fakeLaneRepo{lanes: lanes})
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return base }
	return svc, tickets
}

func registrarLane(id string, typ models.LaneType, order int) models.Lane {
	return models.Lane{ID: id, Name: id, Office: "Registrar", Order: order, Type: typ, Status: models.LaneActive}
}

func TestCreateTicketAssignsLaneAndNumber(t *testing.T) {
	svc, _ := testService(
		registrarLane("reg", models.LaneRegular, 1),
		registrarLane("prio", models.LanePriority, 2),
	)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketRequest{
		Office:  "Registrar",
		Service: "Transcript",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, ticket.Status)
	assert.Equal(t, models.PriorityRegular, ticket.PriorityClass, "defaults to regular")
	assert.Equal(t, "reg", ticket.LaneID)
	assert.Equal(t, "REG-250310-001", ticket.TicketNumber)
	assert.Equal(t, ticket.CreatedAt, ticket.QueuedAt)

	second, err := svc.CreateTicket(ctx, CreateTicketRequest{
		Office:        "Registrar",
		Service:       "Transcript",
		PriorityClass: models.PriorityVIP,
	})
	require.NoError(t, err)
	assert.Equal(t, "prio", second.LaneID)
	assert.Equal(t, "REG-250310-002", second.TicketNumber)
}

func TestCreateTicketRequiresOfficeAndService(t *testing.T) {
	svc, _ := testService(registrarLane("reg", models.LaneRegular, 1))
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar"})
	assert.ErrorIs(t, err, engine.ErrServiceRequired)

	_, err = svc.CreateTicket(ctx, CreateTicketRequest{Office: "  ", Service: "Transcript"})
	assert.ErrorIs(t, err, engine.ErrOfficeRequired)
}

func TestConcurrentCreateUniqueTicketNumbers(t *testing.T) {
	svc, _ := testService(registrarLane("reg", models.LaneRegular, 1))
	ctx := context.Background()

	const customers = 64
	numbers := make([]string, customers)
	errs := make([]error, customers)
	var wg sync.WaitGroup
	for i := 0; i < customers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ticket, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
			errs[i] = err
			if err == nil {
				numbers[i] = ticket.TicketNumber
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]int{}
	for i := 0; i < customers; i++ {
		require.NoError(t, errs[i])
		seen[numbers[i]]++
	}
	assert.Len(t, seen, customers, "every ticket gets its own number")
	for number, n := range seen {
		assert.Equal(t, 1, n, "number %s issued more than once", number)
	}
}

func TestCreateTicketNoEligibleLane(t *testing.T) {
	svc, _ := testService(registrarLane("prio", models.LanePriority, 1))

	_, err := svc.CreateTicket(context.Background(), CreateTicketRequest{
		Office:        "Registrar",
		Service:       "Transcript",
		PriorityClass: models.PriorityRegular,
	})
	assert.ErrorIs(t, err, engine.ErrNoEligibleLane)
}

func TestTransitionWritesRecordExactlyOnce(t *testing.T) {
	svc, repo := testService(registrarLane("reg", models.LaneRegular, 1))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, ticket.ID, models.EventPullNext, "maria")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, ticket.ID, models.EventStartProcessing, "maria")
	require.NoError(t, err)
	out, err := svc.Transition(ctx, ticket.ID, models.EventComplete, "maria")
	require.NoError(t, err)
	require.NotNil(t, out.Record)

	// Second completion is acknowledged but records nothing.
	_, err = svc.Transition(ctx, ticket.ID, models.EventComplete, "maria")
	assert.ErrorIs(t, err, engine.ErrAlreadyTerminal)
	assert.Len(t, repo.records, 1)
}

func TestConcurrentPullExactlyOneWinner(t *testing.T) {
	svc, _ := testService(registrarLane("reg", models.LaneRegular, 1))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)

	const staff = 8
	errs := make([]error, staff)
	var wg sync.WaitGroup
	for i := 0; i < staff; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transition(ctx, ticket.ID, models.EventPullNext, "desk")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, engine.ErrAlreadyClaimed)
		}
	}
	assert.Equal(t, 1, wins, "exactly one staff member claims the ticket")
}

func TestPullNextServesQueueInOrder(t *testing.T) {
	svc, _ := testService(registrarLane("reg", models.LaneRegular, 1))
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := base
	svc.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)

	pulled, err := svc.PullNext(ctx, "reg", "maria")
	require.NoError(t, err)
	require.NotNil(t, pulled)
	assert.Equal(t, first.ID, pulled.ID)
	assert.Equal(t, "maria", pulled.AssignedStaff)
}

func TestPullNextEmptyLane(t *testing.T) {
	svc, _ := testService(registrarLane("reg", models.LaneRegular, 1))

	pulled, err := svc.PullNext(context.Background(), "reg", "maria")
	require.NoError(t, err)
	assert.Nil(t, pulled)
}

func TestHoldThenPullServesInterveningArrivalFirst(t *testing.T) {
	svc, _ := testService(registrarLane("reg", models.LaneRegular, 1))
	ctx := context.Background()

	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	held, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, held.ID, models.EventPullNext, "maria")
	require.NoError(t, err)

	during, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, held.ID, models.EventHold, "maria")
	require.NoError(t, err)

	pulled, err := svc.PullNext(ctx, "reg", "maria")
	require.NoError(t, err)
	require.NotNil(t, pulled)
	assert.Equal(t, during.ID, pulled.ID, "held ticket re-enters behind the arrival it held through")
}

func TestReassignLaneOnlyWhileWaiting(t *testing.T) {
	svc, _ := testService(
		registrarLane("a", models.LaneAll, 1),
		registrarLane("b", models.LaneAll, 2),
	)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)
	require.Equal(t, "a", ticket.LaneID)

	require.NoError(t, svc.ReassignLane(ctx, ticket.ID, "b"))
	moved, err := svc.Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", moved.LaneID)

	_, err = svc.Transition(ctx, ticket.ID, models.EventPullNext, "maria")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ReassignLane(ctx, ticket.ID, "a"), engine.ErrLaneFrozen)
}

func TestReassignLaneRejectsIneligibleTarget(t *testing.T) {
	svc, _ := testService(
		registrarLane("reg", models.LaneRegular, 1),
		registrarLane("prio", models.LanePriority, 2),
	)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, CreateTicketRequest{Office: "Registrar", Service: "Transcript"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ReassignLane(ctx, ticket.ID, "prio"), engine.ErrNoEligibleLane)
}
