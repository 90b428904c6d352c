package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store is the request ledger.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordRequest inserts one request row.
	RecordRequest(ctx context.Context, req *Request) error

	// Summarize aggregates the requests created at or after since.
	// A zero since covers every row.
	Summarize(ctx context.Context, since time.Time) (*Summary, error)

	// PruneRequests deletes requests created before the cutoff and returns
	// how many were removed.
	PruneRequests(ctx context.Context, before time.Time) (int64, error)

	// RunSQLMaintenance runs VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by db.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) RecordRequest(ctx context.Context, req *Request) error {
	if req == nil {
		return errors.New("cannot record nil request")
	}
	if req.ID == "" {
		return errors.New("request must have an id")
	}
	if req.Kind == "" || req.Outcome == "" {
		return errors.New("request must have a kind and an outcome")
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	const query = `
        INSERT INTO requests (id, chat_id, kind, desired_count, segments, delivery_mode, outcome, duration_ms, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		req.ID, req.ChatID, req.Kind, req.DesiredCount, req.Segments,
		req.DeliveryMode, req.Outcome, req.DurationMS, req.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

func (s *sqlxStore) Summarize(ctx context.Context, since time.Time) (*Summary, error) {
	var sinceMS int64
	if !since.IsZero() {
		sinceMS = since.UTC().UnixMilli()
	}

	const query = `
        SELECT
            COUNT(*)                                                      AS total,
            COALESCE(SUM(kind = 'voice'), 0)                              AS voice,
            COALESCE(SUM(kind = 'text'), 0)                               AS text,
            COALESCE(SUM(outcome = 'degraded'), 0)                        AS degraded,
            COALESCE(SUM(outcome NOT IN ('ok', 'degraded')), 0)           AS failed,
            COALESCE(SUM(segments), 0)                                    AS segments,
            COALESCE(AVG(duration_ms), 0.0)                               AS avg_duration_ms
        FROM requests
        WHERE created_at >= ?`

	var summary Summary
	if err := s.db.GetContext(ctx, &summary, query, sinceMS); err != nil {
		return nil, fmt.Errorf("failed to summarize requests: %w", err)
	}
	return &summary, nil
}

func (s *sqlxStore) PruneRequests(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM requests WHERE created_at < ?`, before.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune requests: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned requests: %w", err)
	}
	s.logger.DebugContext(ctx, "Pruned request ledger", "removed", n, "before", before)
	return n, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	// VACUUM cannot run inside a transaction.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
