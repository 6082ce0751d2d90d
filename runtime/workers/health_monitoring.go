package workers

import (
	"context"
	"log/slog"
	"netchat/contract"
	"netchat/observability"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthMonitoringWorker periodically samples the server process and the
// chat counters and logs them. Best effort only: a failed sample is logged
// and skipped, never fatal.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	registry       contract.IRegistry
	stats          *observability.Stats
	metricInterval time.Duration
}

func NewHealthMonitoringWorker(
	log *slog.Logger,
	registry contract.IRegistry,
	stats *observability.Stats,
	metricInterval time.Duration,
) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		registry:       registry,
		stats:          stats,
		metricInterval: metricInterval,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			w.report(proc)
		}
	}
}

func (w *HealthMonitoringWorker) report(proc *process.Process) {
	cpu, err := proc.CPUPercent()
	if err != nil {
		w.log.Debug("Error while finding process cpu usage", "err", err)
		return
	}
	ram, err := proc.MemoryPercent()
	if err != nil {
		w.log.Debug("Error while finding process ram usage", "err", err)
		return
	}

	view := w.stats.Snapshot()
	w.log.Info("server health",
		"active_sessions", w.registry.Size(),
		"sessions_joined", view.SessionsJoined,
		"sessions_closed", view.SessionsClosed,
		"messages_broadcast", view.MessagesBroadcast,
		"write_failures", view.WriteFailures,
		"cpu_percent", cpu,
		"ram_percent", ram,
	)
}
