package tasks

import (
	"context"
	"fmt"
	"time"
)

// newLedgerMaintenanceTask prunes ledger rows older than the configured
// retention and then compacts the database.
func newLedgerMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "ledger_maintenance")

	return func(ctx context.Context) error {
		startTime := time.Now()

		if retention := deps.Config.Database.Retention; retention > 0 {
			removed, err := deps.Store.PruneRequests(ctx, startTime.Add(-retention))
			if err != nil {
				log.ErrorContext(ctx, "Ledger pruning failed", "error", err)
				return fmt.Errorf("ledger pruning failed: %w", err)
			}
			log.InfoContext(ctx, "Pruned request ledger", "removed", removed, "retention", retention)
		}

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Ledger maintenance completed", "duration", time.Since(startTime))
		return nil
	}
}
