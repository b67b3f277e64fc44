package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-queue-backend/internal/common/middlewares"
	"campus-queue-backend/internal/queueing/engine"
	"campus-queue-backend/internal/queueing/models"
	"campus-queue-backend/internal/queueing/repository"
	"campus-queue-backend/internal/queueing/services"
	"campus-queue-backend/ws"
)

type TicketController struct {
	TicketService *services.TicketService
}

func NewTicketController(service *services.TicketService) *TicketController {
	return &TicketController{TicketService: service}
}

// CreateTicketHandler issues a new ticket and assigns it a lane.
func (tc *TicketController) CreateTicketHandler(c echo.Context) error {
	var req services.CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	ticket, err := tc.TicketService.CreateTicket(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, engine.ErrNoEligibleLane) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "No lane available for this ticket",
				"data":    nil,
			})
		}
		if errors.Is(err, engine.ErrServiceRequired) || errors.Is(err, engine.ErrOfficeRequired) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to create ticket: " + err.Error(),
			"data":    nil,
		})
	}

	ws.HubInstance.Publish(map[string]interface{}{
		"id_ticket":     ticket.ID,
		"ticket_number": ticket.TicketNumber,
		"id_lane":       ticket.LaneID,
		"status":        ticket.Status,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Ticket created",
		"data":    ticket,
	})
}

// PullNextHandler claims the next ticket of a lane for the calling
// staff member.
func (tc *TicketController) PullNextHandler(c echo.Context) error {
	laneID := c.Param("id_lane")
	claims := middlewares.StaffClaims(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	ticket, err := tc.TicketService.PullNext(c.Request().Context(), laneID, claims.Username)
	if err != nil {
		return transitionError(c, err)
	}
	if ticket == nil {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"status":  http.StatusNotFound,
			"message": "No waiting ticket in this lane",
			"data":    nil,
		})
	}

	broadcastTicket(ticket)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Ticket pulled",
		"data":    ticket,
	})
}

// TransitionHandler maps one route per staff action onto the state
// machine.
func (tc *TicketController) TransitionHandler(ev models.Event) echo.HandlerFunc {
	return func(c echo.Context) error {
		ticketID := c.Param("id_ticket")
		if ticketID == "" {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "id_ticket parameter is required",
				"data":    nil,
			})
		}

		actor := ""
		if claims := middlewares.StaffClaims(c); claims != nil {
			actor = claims.Username
		}

		out, err := tc.TicketService.Transition(c.Request().Context(), ticketID, ev, actor)
		if err != nil {
			return transitionError(c, err)
		}

		broadcastTicket(&out.Ticket)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  http.StatusOK,
			"message": "Ticket updated",
			"data":    out.Ticket,
		})
	}
}

// NextTicketHandler previews the next ticket without claiming it.
func (tc *TicketController) NextTicketHandler(c echo.Context) error {
	laneID := c.Param("id_lane")
	ticket, err := tc.TicketService.NextTicket(c.Request().Context(), laneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to read queue: " + err.Error(),
			"data":    nil,
		})
	}
	if ticket == nil {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"status":  http.StatusNotFound,
			"message": "No waiting ticket in this lane",
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Next ticket",
		"data":    ticket,
	})
}

// WaitingListHandler returns the lane's waiting tickets in serving
// order for the display boards.
func (tc *TicketController) WaitingListHandler(c echo.Context) error {
	laneID := c.Param("id_lane")
	tickets, err := tc.TicketService.WaitingList(c.Request().Context(), laneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to read queue: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Waiting list retrieved successfully",
		"data":    tickets,
	})
}

// ReassignLaneHandler moves a waiting ticket to another lane.
func (tc *TicketController) ReassignLaneHandler(c echo.Context) error {
	ticketID := c.Param("id_ticket")
	laneID := c.QueryParam("id_lane")
	if laneID == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_lane parameter is required",
			"data":    nil,
		})
	}

	err := tc.TicketService.ReassignLane(c.Request().Context(), ticketID, laneID)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Ticket reassigned",
		"data": map[string]interface{}{
			"id_ticket": ticketID,
			"id_lane":   laneID,
		},
	})
}

func broadcastTicket(t *models.Ticket) {
	ws.HubInstance.Publish(map[string]interface{}{
		"id_ticket":     t.ID,
		"ticket_number": t.TicketNumber,
		"id_lane":       t.LaneID,
		"status":        t.Status,
	})
}

// transitionError maps the engine's typed business failures onto HTTP
// statuses. A repeated terminal transition is acknowledged as success
// per the idempotency contract.
func transitionError(c echo.Context, err error) error {
	var invalid *engine.InvalidTransitionError
	switch {
	case errors.Is(err, engine.ErrAlreadyTerminal):
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  http.StatusOK,
			"message": "Ticket already finalized",
			"data":    nil,
		})
	case errors.Is(err, engine.ErrAlreadyClaimed):
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"status":  http.StatusConflict,
			"message": "Ticket was claimed by another staff member",
			"data":    nil,
		})
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	case errors.Is(err, engine.ErrLaneFrozen), errors.Is(err, engine.ErrNoEligibleLane):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"status":  http.StatusNotFound,
			"message": "Ticket not found",
			"data":    nil,
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  http.StatusInternalServerError,
		"message": "Failed to update ticket: " + err.Error(),
		"data":    nil,
	})
}
