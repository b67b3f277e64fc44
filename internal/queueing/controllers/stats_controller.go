package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-queue-backend/internal/queueing/services"
)

type StatsController struct {
	StatsService *services.StatsService
}

func NewStatsController(service *services.StatsService) *StatsController {
	return &StatsController{StatsService: service}
}

// SummaryHandler reports processing-time statistics, optionally
// filtered by office and/or service.
func (sc *StatsController) SummaryHandler(c echo.Context) error {
	office := c.QueryParam("office")
	service := c.QueryParam("service")

	stats, err := sc.StatsService.Summary(c.Request().Context(), office, service)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve statistics: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Statistics retrieved successfully",
		"data":    stats,
	})
}
