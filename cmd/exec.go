package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"airline-reservation/config"
	"airline-reservation/internal/handlers"
	"airline-reservation/internal/services"
	"airline-reservation/internal/store"
	"airline-reservation/models"
	"airline-reservation/monitoring"
	"airline-reservation/utils"

	"github.com/spf13/cobra"
)

func Start() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "airline-reservation",
		Short:        "In-memory airline reservation system",
		SilenceUsage: true,
	}
	root.AddCommand(newConsoleCmd(), newPingNotifierCmd())
	return root
}

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start an interactive reservation session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := config.LoadConfig()
			slog.SetDefault(utils.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat))

			return runConsole(ctx, cfg, cmd)
		},
	}
}

// newPingNotifierCmd checks that the configured notification backend is
// reachable without starting a session.
func newPingNotifierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping-notifier",
		Short: "Check the configured notification backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfig()
			slog.SetDefault(utils.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat))

			_, closeFn, err := newNotifier(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintf(cmd.OutOrStdout(), "notifier %q ok\n", cfg.Notifier)
			return nil
		},
	}
}

func runConsole(ctx context.Context, cfg *config.Config, cmd *cobra.Command) error {
	basis, err := models.ParseFareBasis(cfg.FareBasis)
	if err != nil {
		return fmt.Errorf("FARE_BASIS: %w", err)
	}

	st := store.NewMemory(store.Limits{
		Passengers: cfg.MaxPassengers,
		Flights:    cfg.MaxFlights,
		Bookings:   cfg.MaxBookings,
	})
	monitor := monitoring.NewMonitor()

	notifier, closeNotifier, err := newNotifier(ctx, cfg, monitor)
	if err != nil {
		return err
	}
	defer closeNotifier()

	// Initialize services
	passengerService := services.NewPassengerService(st)
	flightService := services.NewFlightService(st, monitor)
	bookingService := services.NewBookingService(st, services.NewFareEngine(basis), notifier, monitor, nil)
	reportService := services.NewReportService(st, nil)

	scheduler := services.NewCompletionScheduler(bookingService, monitor, cfg.MetricsFile)
	if err := scheduler.Start(cfg.CompletionSchedule); err != nil {
		return err
	}
	defer scheduler.Stop()

	console := handlers.NewConsoleHandler(
		passengerService,
		flightService,
		bookingService,
		reportService,
		handlers.AdminCredentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		cmd.OutOrStdout(),
	)

	slog.Info("console session started", "environment", cfg.Environment, "fare_basis", string(basis), "notifier", cfg.Notifier)
	runErr := console.Run(ctx, cmd.InOrStdin())

	if err := monitor.WriteTextfile(cfg.MetricsFile); err != nil {
		slog.Error("failed to write metrics file", "error", err, "path", cfg.MetricsFile)
	}
	return runErr
}

// newNotifier builds the configured backend behind a circuit breaker. The
// returned close function releases its connection.
func newNotifier(ctx context.Context, cfg *config.Config, monitor *monitoring.Monitor) (services.Notifier, func() error, error) {
	noop := func() error { return nil }

	var next services.Notifier
	closeFn := noop

	switch strings.ToLower(cfg.Notifier) {
	case "", "none":
		return services.NopNotifier{}, noop, nil
	case "redis":
		client, err := utils.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		next = services.NewRedisNotifier(client)
		closeFn = client.Close
	case "pubnub":
		if cfg.PubNubPublishKey == "" || cfg.PubNubSubscribeKey == "" {
			return nil, nil, fmt.Errorf("pubnub notifier needs PUBNUB_PUBLISH_KEY and PUBNUB_SUBSCRIBE_KEY")
		}
		next = services.NewPubNubNotifier(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubSecretKey)
	default:
		return nil, nil, fmt.Errorf("unknown NOTIFIER %q: use none, redis or pubnub", cfg.Notifier)
	}

	breaker := utils.NewCircuitBreaker(cfg.Notifier, cfg.NotifierMaxFailures, cfg.NotifierBreakerCooldown)
	return services.NewGuardedNotifier(next, breaker, monitor), closeFn, nil
}
