package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-queue-backend/internal/queueing/models"
	"campus-queue-backend/internal/queueing/repository"
	"campus-queue-backend/internal/queueing/services"
)

type LaneController struct {
	LaneService *services.LaneService
}

func NewLaneController(service *services.LaneService) *LaneController {
	return &LaneController{LaneService: service}
}

// ListLanesHandler returns the office's lanes with their live queue
// lengths.
func (lc *LaneController) ListLanesHandler(c echo.Context) error {
	office := c.QueryParam("office")
	if office == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "office query parameter is required",
			"data":    nil,
		})
	}

	lanes, err := lc.LaneService.ListByOffice(c.Request().Context(), office)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve lanes: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Lanes retrieved successfully",
		"data":    lanes,
	})
}

// CreateLaneHandler adds a lane to an office.
func (lc *LaneController) CreateLaneHandler(c echo.Context) error {
	var req services.CreateLaneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	lane, err := lc.LaneService.CreateLane(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Lane created",
		"data":    lane,
	})
}

// SetLaneStatusHandler flips a lane between active and maintenance.
func (lc *LaneController) SetLaneStatusHandler(c echo.Context) error {
	laneID := c.Param("id_lane")
	status := c.QueryParam("status")
	if status == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "status query parameter is required",
			"data":    nil,
		})
	}

	err := lc.LaneService.SetStatus(c.Request().Context(), laneID, models.LaneStatus(status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Lane not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Lane status updated",
		"data": map[string]interface{}{
			"id_lane": laneID,
			"status":  status,
		},
	})
}
