package main

import (
	"context"
	"fmt"
	"netchat/observability"
	"netchat/runtime"
	"netchat/runtime/workers"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. Keeping main trivial ensures all defers
// execute before the process exits and keeps the wiring testable.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Shared state
	stats := observability.NewStats()
	registry := runtime.NewRegistry(log, stats)

	// 3. Workers under supervision
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := workers.NewServerWorker(log, registry, stats, address, config.WriteTimeout)
	monitor := workers.NewHealthMonitoringWorker(log, registry, stats, config.MetricInterval)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(server, monitor)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Block until a signal arrives; the supervisor drains its workers
	// (listener closed, live sessions force-closed) before returning.
	sup.Run(ctx)
	log.Info("Program stopped cleanly")

	return nil
}
