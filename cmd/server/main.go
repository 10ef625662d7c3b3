package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carviz/internal/api"
	"carviz/internal/config"
	"carviz/internal/dashboard"
	"carviz/internal/engine"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DEBUG)
	}

	// 1. Load the dataset. Without it there is nothing to serve.
	store, err := engine.Load(cfg.DataPath, cfg.IDColumn)
	if err != nil {
		log.Fatalf("dataset: %v", err)
	}

	// 2. Render the initial charts and start the event loop
	session, err := dashboard.New(store, cfg.Title, dashboard.DefaultSelection())
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go session.Run(ctx)

	// 3. Initialize Echo
	e := echo.New()
	e.Debug = cfg.Debug
	e.HideBanner = true
	if cfg.Debug {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	h := api.NewHandler(session, store, api.Options{
		Title:       cfg.Title,
		Debug:       cfg.Debug,
		ImageWidth:  cfg.ImageWidth,
		ImageHeight: cfg.ImageHeight,
	})
	h.RegisterRoutes(e)

	// 4. Start Server
	go func() {
		log.Infof("Dashboard ready on %s (debug=%t)", cfg.Addr, cfg.Debug)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
