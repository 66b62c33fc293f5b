package main

import (
	"context"
	"log"
	"time"

	"dietchart/internal/api"
	"dietchart/internal/app"
	"dietchart/internal/config"
	"dietchart/internal/render"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// 1. Initialize Echo
	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// 2. Handler starts without data and answers 503 until the load finishes
	h := api.NewHandler(nil)
	h.RegisterRoutes(e)

	// 3. Load in the background
	go func() {
		log.Printf("BACKGROUND: Loading %s ...", cfg.Source.Location)
		t0 := time.Now()

		dashboard, err := app.BuildDashboard(context.Background(), cfg)
		if err != nil {
			log.Printf("BACKGROUND: Load failed: %v", err)
			h.SetError(err)
			return
		}
		h.SetData(dashboard)

		log.Printf("BACKGROUND: Ready in %v (%s)", time.Since(t0), render.Describe(dashboard.Layout))
	}()

	// 4. Start Server
	log.Printf("Server ready on port %s (data loading in background...)", cfg.Server.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
