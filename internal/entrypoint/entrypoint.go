package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/config"
	"github.com/mrlokans/lending/internal/database"
	http_controllers "github.com/mrlokans/lending/internal/http"
	"github.com/mrlokans/lending/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -9 can't be caught, so only SIGINT and SIGTERM are handled
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// OpenDatabase connects to the configured database and applies migrations.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	return database.NewDatabase(cfg.Database.Path, database.WithLogLevel(database.ParseLogLevel(cfg.Database.LogLevel)))
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting lending service v%s", version)

	db, err := OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	sweeper := scheduler.NewOverdueSweepScheduler(db, cfg.OverdueSweep)
	if err := sweeper.Start(schedulerCtx); err != nil {
		log.Printf("Warning: overdue sweep scheduler not started: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database: db,
		Version:  version,
	})

	onShutdown := func(ctx context.Context) {
		schedulerCancel()
		sweeper.Stop()
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}

	Serve(router, cfg, onShutdown)
}

// Migrate creates or updates the schema and exits.
func Migrate(cfg *config.Config) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	return db.Close()
}

// SweepOverdue runs a single overdue sweep regardless of the schedule.
func SweepOverdue(cfg *config.Config) (int64, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return scheduler.NewOverdueSweepScheduler(db, cfg.OverdueSweep).RunNow()
}
