package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"campus-queue-backend/config"
	"campus-queue-backend/internal/routes"
	"campus-queue-backend/pkg/storage/mariadb"
)

func main() {
	cfg := config.LoadConfig()
	db := mariadb.Connect()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	routes.Init(e, db)

	log.Printf("Server running on port %s...", cfg.Port)
	log.Fatal(e.Start(":" + cfg.Port))
}
