package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/endikaluq/geolink/internal/adapters/gmlc"
	natsadapter "github.com/endikaluq/geolink/internal/adapters/nats"
	"github.com/endikaluq/geolink/internal/adapters/postgres"
	"github.com/endikaluq/geolink/internal/core/ports"
	"github.com/endikaluq/geolink/internal/core/usecases"
	"github.com/endikaluq/geolink/internal/pkg/config"
	"github.com/endikaluq/geolink/internal/pkg/logging"
	"github.com/endikaluq/geolink/internal/workflows"
)

// The reporter worker executes the periodic deferred-location reporting
// workflows: each tick re-mediates one Notification-type record and fans the
// report out through NATS.
func main() {
	cfg, err := config.Load("geolink-reporter")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(os.Getenv("LOG_LEVEL"), "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var events ports.EventPublisher
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, reports will not be relayed", "error", err)
	} else {
		defer publisher.Close()
		events = publisher
	}

	locator := gmlc.New(cfg.GMLC.BaseURL, time.Duration(cfg.GMLC.TimeoutSeconds)*time.Second)
	repo := postgres.NewGeolocationRepo(db)

	// No cache or scheduler here: refreshes must hit the store, and the
	// worker never starts new reporting sequences.
	svc := usecases.NewGeolocationService(repo, locator, nil, events, nil, slog.Default())

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.PeriodicReportWorkflow)
	w.RegisterActivity(&workflows.ReportActivities{Service: svc})

	slog.Info("reporter worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
