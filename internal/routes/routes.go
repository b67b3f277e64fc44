package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	authControllers "campus-queue-backend/internal/auth/controllers"
	authServices "campus-queue-backend/internal/auth/services"
	"campus-queue-backend/internal/common/middlewares"
	queueingControllers "campus-queue-backend/internal/queueing/controllers"
	"campus-queue-backend/internal/queueing/models"
	"campus-queue-backend/internal/queueing/repository"
	queueingServices "campus-queue-backend/internal/queueing/services"
	"campus-queue-backend/ws"
)

// Init wires repositories, services and controllers onto the Echo
// instance.
func Init(e *echo.Echo, db *sql.DB) {
	ticketRepo := repository.NewTicketMySQL(db)
	laneRepo := repository.NewLaneMySQL(db)
	recordRepo := repository.NewRecordMySQL(db)

	ticketService := queueingServices.NewTicketService(ticketRepo, laneRepo)
	laneService := queueingServices.NewLaneService(laneRepo, ticketRepo)
	statsService := queueingServices.NewStatsService(recordRepo)
	authService := authServices.NewAuthService(db)

	ticketController := queueingControllers.NewTicketController(ticketService)
	laneController := queueingControllers.NewLaneController(laneService)
	statsController := queueingControllers.NewStatsController(statsService)
	authController := authControllers.NewAuthController(authService)

	api := e.Group("/api")

	// Auth
	api.POST("/auth/login", authController.LoginHandler)

	// Kiosk ticket creation has no auth; everything else is staff-only.
	tickets := api.Group("/tickets")
	tickets.POST("", ticketController.CreateTicketHandler)
	tickets.PUT("/:id_ticket/pull", ticketController.TransitionHandler(models.EventPullNext), middlewares.JWTMiddleware())
	tickets.PUT("/:id_ticket/start", ticketController.TransitionHandler(models.EventStartProcessing), middlewares.JWTMiddleware())
	tickets.PUT("/:id_ticket/hold", ticketController.TransitionHandler(models.EventHold), middlewares.JWTMiddleware())
	tickets.PUT("/:id_ticket/skip", ticketController.TransitionHandler(models.EventSkip), middlewares.JWTMiddleware())
	tickets.PUT("/:id_ticket/complete", ticketController.TransitionHandler(models.EventComplete), middlewares.JWTMiddleware())
	tickets.PUT("/:id_ticket/cancel", ticketController.TransitionHandler(models.EventCancel))
	tickets.PUT("/:id_ticket/lane", ticketController.ReassignLaneHandler, middlewares.JWTMiddleware())

	// Lanes
	lanes := api.Group("/lanes")
	lanes.GET("", laneController.ListLanesHandler, middlewares.JWTMiddleware())
	lanes.POST("", laneController.CreateLaneHandler, middlewares.JWTMiddleware(), middlewares.RequireRole("admin"))
	lanes.PUT("/:id_lane/status", laneController.SetLaneStatusHandler, middlewares.JWTMiddleware(), middlewares.RequireRole("admin"))
	lanes.GET("/:id_lane/next", ticketController.NextTicketHandler, middlewares.JWTMiddleware())
	lanes.POST("/:id_lane/pull", ticketController.PullNextHandler, middlewares.JWTMiddleware())
	lanes.GET("/:id_lane/waiting", ticketController.WaitingListHandler)

	// Reports
	api.GET("/stats", statsController.SummaryHandler, middlewares.JWTMiddleware())

	// Display boards
	e.GET("/ws", ws.ServeWS(ws.HubInstance))
}
