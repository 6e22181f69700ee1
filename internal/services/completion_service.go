package services

import (
	"context"
	"fmt"
	"log/slog"

	"airline-reservation/monitoring"

	"github.com/robfig/cron/v3"
)

type dueCompleter interface {
	CompleteDue(ctx context.Context) (int, error)
}

// CompletionScheduler periodically moves past bookings to Completed and,
// when a metrics file is configured, refreshes it after every sweep.
type CompletionScheduler struct {
	cron        *cron.Cron
	bookings    dueCompleter
	monitor     *monitoring.Monitor
	metricsFile string
}

func NewCompletionScheduler(bookings dueCompleter, monitor *monitoring.Monitor, metricsFile string) *CompletionScheduler {
	return &CompletionScheduler{
		cron:        cron.New(),
		bookings:    bookings,
		monitor:     monitor,
		metricsFile: metricsFile,
	}
}

// Start registers the sweep on schedule (standard cron spec or a
// descriptor such as "@every 1h") and starts the cron goroutine.
func (s *CompletionScheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid completion schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	slog.Info("completion scheduler started", "schedule", schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *CompletionScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CompletionScheduler) RunOnce(ctx context.Context) int {
	n, err := s.bookings.CompleteDue(ctx)
	if err != nil {
		slog.Error("completion sweep failed", "error", err)
		return 0
	}
	if err := s.monitor.WriteTextfile(s.metricsFile); err != nil {
		slog.Error("failed to write metrics file", "error", err, "path", s.metricsFile)
	}
	return n
}
