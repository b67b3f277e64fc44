package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-queue-backend/internal/queueing/models"
)

func queuedTicket(id string, class models.PriorityClass, created time.Time) models.Ticket {
	return models.Ticket{
		ID:            id,
		Service:       "Transcript",
		PriorityClass: class,
		Status:        models.StatusWaiting,
		LaneID:        "lane-1",
		CreatedAt:     created,
		QueuedAt:      created,
	}
}

func TestNextTicketEmptyLane(t *testing.T) {
	assert.Nil(t, NextTicket("lane-1", nil))
	assert.Nil(t, NextTicket("lane-1", []models.Ticket{}))
}

func TestNextTicketIgnoresOtherLanesAndStatuses(t *testing.T) {
	other := queuedTicket("t-other", models.PriorityVIP, t0)
	other.LaneID = "lane-2"
	claimed := queuedTicket("t-claimed", models.PriorityVIP, t0)
	claimed.Status = models.StatusCurrent
	mine := queuedTicket("t-mine", models.PriorityRegular, t0.Add(time.Minute))

	next := NextTicket("lane-1", []models.Ticket{other, claimed, mine})
	require.NotNil(t, next)
	assert.Equal(t, "t-mine", next.ID)
}

func TestVIPBeatsEarlierRegular(t *testing.T) {
	regular := queuedTicket("t-regular", models.PriorityRegular, t0.Add(-time.Minute))
	vip := queuedTicket("t-vip", models.PriorityVIP, t0)

	next := NextTicket("lane-1", []models.Ticket{regular, vip})
	require.NotNil(t, next)
	assert.Equal(t, "t-vip", next.ID)
}

func TestFIFOWithinPriorityClass(t *testing.T) {
	first := queuedTicket("t-first", models.PriorityElevated, t0)
	second := queuedTicket("t-second", models.PriorityElevated, t0.Add(time.Second))

	next := NextTicket("lane-1", []models.Ticket{second, first})
	require.NotNil(t, next)
	assert.Equal(t, "t-first", next.ID, "earlier arrival of the same class is served first")
}

func TestHeldTicketGoesBehindLaterArrivals(t *testing.T) {
	held := queuedTicket("t-held", models.PriorityRegular, t0)
	held.QueuedAt = t0.Add(10 * time.Minute) // returned from hold at 09:10

	during := queuedTicket("t-during", models.PriorityRegular, t0.Add(5*time.Minute))

	next := NextTicket("lane-1", []models.Ticket{held, during})
	require.NotNil(t, next)
	assert.Equal(t, "t-during", next.ID, "ticket that waited through the hold goes first")

	// But the held ticket still outranks lower classes.
	regularLater := queuedTicket("t-later", models.PriorityRegular, t0.Add(20*time.Minute))
	vipHeld := queuedTicket("t-vip-held", models.PriorityVIP, t0)
	vipHeld.QueuedAt = t0.Add(30 * time.Minute)
	next = NextTicket("lane-1", []models.Ticket{regularLater, vipHeld})
	require.NotNil(t, next)
	assert.Equal(t, "t-vip-held", next.ID)
}

func TestSortWaitingIsDeterministic(t *testing.T) {
	a := queuedTicket("a", models.PriorityRegular, t0)
	b := queuedTicket("b", models.PriorityRegular, t0)

	tickets := []models.Ticket{b, a}
	SortWaiting(tickets)
	assert.Equal(t, "a", tickets[0].ID, "identical timestamps fall back to id order")
}
