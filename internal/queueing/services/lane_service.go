package services

import (
	"context"
	"errors"
	"strings"

	"campus-queue-backend/internal/queueing/models"
	"campus-queue-backend/internal/queueing/repository"
	"campus-queue-backend/pkg/utils"
)

type LaneService struct {
	Lanes   repository.LaneRepository
	Tickets repository.TicketRepository
}

func NewLaneService(lanes repository.LaneRepository, tickets repository.TicketRepository) *LaneService {
	return &LaneService{Lanes: lanes, Tickets: tickets}
}

// LaneWithLoad pairs a lane with its live queue length for the admin
// overview.
type LaneWithLoad struct {
	models.Lane
	QueueLength int `json:"queue_length"`
}

func (s *LaneService) ListByOffice(ctx context.Context, office string) ([]LaneWithLoad, error) {
	lanes, err := s.Lanes.ListByOffice(ctx, office)
	if err != nil {
		return nil, err
	}
	loads, err := s.Tickets.QueueLengths(ctx, office)
	if err != nil {
		return nil, err
	}

	out := make([]LaneWithLoad, 0, len(lanes))
	for _, l := range lanes {
		out = append(out, LaneWithLoad{Lane: l, QueueLength: loads[l.ID]})
	}
	return out, nil
}

type CreateLaneRequest struct {
	Name              string          `json:"name"`
	Office            string          `json:"office"`
	Order             int             `json:"lane_order"`
	Type              models.LaneType `json:"lane_type"`
	AllowedCourses    []string        `json:"allowed_courses"`
	AllowedYearLevels []string        `json:"allowed_year_levels"`
	ServicesOffered   []string        `json:"services_offered"`
}

func (s *LaneService) CreateLane(ctx context.Context, req CreateLaneRequest) (*models.Lane, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Office) == "" {
		return nil, errors.New("lane name and office are required")
	}
	switch req.Type {
	case models.LaneAll, models.LanePriority, models.LaneRegular:
	default:
		return nil, errors.New("lane_type must be all, priority or regular")
	}

	lane := models.Lane{
		ID:                utils.NewTicketID(),
		Name:              req.Name,
		Office:            req.Office,
		Order:             req.Order,
		Type:              req.Type,
		Status:            models.LaneActive,
		AllowedCourses:    req.AllowedCourses,
		AllowedYearLevels: req.AllowedYearLevels,
		ServicesOffered:   req.ServicesOffered,
	}
	if err := s.Lanes.Insert(ctx, &lane); err != nil {
		return nil, err
	}
	return &lane, nil
}

// SetStatus flips a lane between active and maintenance. Waiting
// tickets already assigned keep their lane; only new admissions skip a
// maintenance lane.
func (s *LaneService) SetStatus(ctx context.Context, id string, status models.LaneStatus) error {
	switch status {
	case models.LaneActive, models.LaneMaintenance:
	default:
		return errors.New("status must be active or maintenance")
	}
	return s.Lanes.SetStatus(ctx, id, status)
}
