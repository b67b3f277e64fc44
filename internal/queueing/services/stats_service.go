package services

import (
	"context"

	"campus-queue-backend/internal/queueing/engine"
	"campus-queue-backend/internal/queueing/repository"
)

type StatsService struct {
	Records repository.RecordRepository
}

func NewStatsService(records repository.RecordRepository) *StatsService {
	return &StatsService{Records: records}
}

// Summary aggregates processing-time records, optionally filtered by
// office and/or service. Empty filters match everything; an office
// with no finished tickets yields a zero summary.
func (s *StatsService) Summary(ctx context.Context, office, service string) (engine.Stats, error) {
	records, err := s.Records.List(ctx, office, service)
	if err != nil {
		return engine.Stats{}, err
	}
	return engine.Aggregate(records, engine.Filter{Office: office, Service: service}), nil
}
