package database

import "time"

// Request is one handled inbound message. It holds metadata only; neither the
// user's text nor the generated answer is stored.
type Request struct {
	ID           string
	ChatID       int64
	Kind         string
	DesiredCount int
	Segments     int
	DeliveryMode string
	Outcome      string
	DurationMS   int64
	CreatedAt    time.Time
}

// Summary aggregates requests over a time window.
type Summary struct {
	Total         int64   `db:"total"`
	Voice         int64   `db:"voice"`
	Text          int64   `db:"text"`
	Degraded      int64   `db:"degraded"`
	Failed        int64   `db:"failed"`
	Segments      int64   `db:"segments"`
	AvgDurationMS float64 `db:"avg_duration_ms"`
}
