package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support_desk_go/config"
	"support_desk_go/db"
	"support_desk_go/handlers"
	"support_desk_go/middleware"
	"support_desk_go/services"
	"support_desk_go/services/jobs"
	"support_desk_go/store"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// openStore builds the record store selected by STORAGE_DRIVER. The returned
// cleanup releases database connections.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverSQLite, config.StorageDriverTurso:
		database, err := db.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		gormStore := store.NewGormStore(database)
		if err := gormStore.Migrate(); err != nil {
			db.Close(database)
			return nil, nil, err
		}
		return gormStore, func() {
			if err := db.Close(database); err != nil {
				log.Printf("[WARNING] Failed to close database: %v", err)
			}
		}, nil
	}

	var backend store.Backend
	if cfg.R2Configured() {
		r2, err := store.NewR2Backend(cfg)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r2.Ping(ctx); err != nil {
			return nil, nil, err
		}
		backend = r2
	} else {
		backend = store.NewLocalBackend(cfg.DataDir)
	}
	log.Printf("[INFO] Storing JSON documents in %s", backend.Describe())
	return store.NewJSONStore(backend), func() {}, nil
}

func main() {
	// Load configuration
	cfg := config.Load()

	recordStore, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	sender, err := services.NewSender(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize email delivery: %v", err)
	}

	repo := store.NewRepository(recordStore)
	dispatcher := services.NewDispatcher(repo, sender, cfg)
	queries := services.NewQueryService(repo, dispatcher)
	templates := services.NewTemplateService(repo)
	drafter := services.NewDrafter(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Deliver scheduled notifications in the background
	worker := jobs.NewNotificationWorker(dispatcher, cfg.SchedulerInterval)
	if err := worker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}
	defer worker.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	submissions := middleware.SubmissionRateLimiter()
	defer submissions.Close()
	notify := middleware.NotifyRateLimiter()
	defer notify.Close()

	h := handlers.NewHandler(queries, templates, dispatcher, drafter)
	h.RegisterRoutes(e, handlers.Limiters{Submissions: submissions, Notify: notify})

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARNING] Server shutdown: %v", err)
	}
}
