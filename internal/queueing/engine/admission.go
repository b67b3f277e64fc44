package engine

import (
	"strings"

	"campus-queue-backend/internal/queueing/models"
)

// QueueLengths maps a lane id to the number of tickets currently
// occupying it (status waiting, current or processing).
type QueueLengths map[string]int

// Eligible reports whether the lane accepts the ticket.
//
// A priority lane takes only priority/vip tickets. A regular lane
// takes only regular tickets and additionally applies its course and
// year-level filters. An "all" lane ignores class and filters
// entirely. The service filter applies to every lane type; an empty
// set means the lane serves everything.
func Eligible(lane models.Lane, t models.Ticket) bool {
	if lane.Status != models.LaneActive {
		return false
	}
	if len(lane.ServicesOffered) > 0 && !containsFold(lane.ServicesOffered, t.Service) {
		return false
	}

	switch lane.Type {
	case models.LaneAll:
		return true
	case models.LanePriority:
		return t.PriorityClass == models.PriorityElevated || t.PriorityClass == models.PriorityVIP
	case models.LaneRegular:
		if t.PriorityClass != models.PriorityRegular {
			return false
		}
		if len(lane.AllowedCourses) > 0 && !containsFold(lane.AllowedCourses, t.CourseCode) {
			return false
		}
		if len(lane.AllowedYearLevels) > 0 && !containsFold(lane.AllowedYearLevels, t.YearLevel) {
			return false
		}
		return true
	}
	return false
}

// AssignLane picks a lane for a new ticket. Every active lane is
// tested against the eligibility rules; among the eligible ones the
// least-loaded lane wins, ties broken by the configured serving order.
// Pure over the snapshots it is given; the caller persists the result.
func AssignLane(t models.Ticket, lanes []models.Lane, loads QueueLengths) (string, error) {
	if strings.TrimSpace(t.Service) == "" {
		return "", ErrServiceRequired
	}

	best := -1
	for i := range lanes {
		if !Eligible(lanes[i], t) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		li, lb := loads[lanes[i].ID], loads[lanes[best].ID]
		if li < lb || (li == lb && lanes[i].Order < lanes[best].Order) {
			best = i
		}
	}
	if best == -1 {
		return "", ErrNoEligibleLane
	}
	return lanes[best].ID, nil
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
