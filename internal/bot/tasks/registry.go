// Package tasks implements the scheduled maintenance tasks of the menu bot.
package tasks

import (
	"context"
	"log/slog"

	"github.com/edgard/menubot/internal/config"
	"github.com/edgard/menubot/internal/database"
)

// ScheduledTaskFunc is the signature of every scheduled task.
// The context is cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// TaskDeps contains the dependencies of the scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}

// RegisterAllTasks returns the task functions keyed by the names used in the
// scheduler section of the configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	tasks := map[string]ScheduledTaskFunc{
		config.TaskLedgerMaintenance: newLedgerMaintenanceTask(deps),
		config.TaskTempSweep:         newTempSweepTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
