package engine

import (
	"math"

	"campus-queue-backend/internal/queueing/models"
)

// Filter optionally restricts aggregation by office and/or service.
// Empty fields match everything.
type Filter struct {
	Office  string
	Service string
}

type ServiceStats struct {
	AverageMinutes float64 `json:"average_minutes"`
	Count          int     `json:"count"`
}

type Stats struct {
	AverageMinutes float64                 `json:"average_minutes"`
	Count          int                     `json:"count"`
	ByService      map[string]ServiceStats `json:"by_service"`
}

// Aggregate summarises processing-time records. Averages are reported
// rounded to one decimal; per-service averages are computed
// independently. An empty filtered set yields a zero summary, never an
// error.
func Aggregate(records []models.ProcessingTimeRecord, f Filter) Stats {
	stats := Stats{ByService: map[string]ServiceStats{}}

	total := 0
	sums := map[string]int{}
	counts := map[string]int{}
	for _, r := range records {
		if f.Office != "" && r.Office != f.Office {
			continue
		}
		if f.Service != "" && r.Service != f.Service {
			continue
		}
		total += r.ProcessingTimeMinutes
		sums[r.Service] += r.ProcessingTimeMinutes
		counts[r.Service]++
		stats.Count++
	}

	if stats.Count > 0 {
		stats.AverageMinutes = round1(float64(total) / float64(stats.Count))
	}
	for service, n := range counts {
		stats.ByService[service] = ServiceStats{
			AverageMinutes: round1(float64(sums[service]) / float64(n)),
			Count:          n,
		}
	}
	return stats
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
