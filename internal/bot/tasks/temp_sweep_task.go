package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/edgard/menubot/internal/tempfile"
)

// newTempSweepTask removes request files that outlived bot.temp_max_age,
// which only happens when a process died mid-request.
func newTempSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "temp_sweep")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := deps.Config.Bot.TempDir
		if dir == "" {
			dir = os.TempDir()
		}

		removed, err := tempfile.Sweep(dir, deps.Config.Bot.TempMaxAge, time.Now())
		if err != nil {
			log.ErrorContext(ctx, "Temp sweep failed", "dir", dir, "removed", removed, "error", err)
			return fmt.Errorf("temp sweep failed: %w", err)
		}
		if removed > 0 {
			log.WarnContext(ctx, "Removed stale temporary files", "dir", dir, "removed", removed)
		}
		return nil
	}
}
