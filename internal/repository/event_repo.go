package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sensor_dashboard/internal/models"
)

// occurred_at is stored as fixed-width UTC text so range filters compare
// lexicographically.
const storedTimeLayout = "2006-01-02 15:04:05.000000000"

const (
	insertEventSQL = `
		INSERT INTO dashboard_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`
	selectEventsSQL       = `SELECT id, occurred_at, type, message, meta FROM dashboard_events`
	deleteEventsBeforeSQL = `DELETE FROM dashboard_events WHERE occurred_at < ?`
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event. Empty EventID and zero OccurredAt are filled in.
func (r *EventSQLite) Append(ctx context.Context, e models.DashboardEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		formatStoredTime(e.OccurredAt),
		normalizeType(e.Type),
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.EventID, err)
	}
	return nil
}

// List returns events filtered by [from, to] (inclusive) and/or type,
// oldest first. A positive limit keeps only the newest limit events.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.DashboardEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatStoredTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatStoredTime(to))
	}
	if typ = normalizeType(typ); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if limit > 0 {
		// newest N, then flip back to ascending
		q = "SELECT * FROM (" + q + " ORDER BY occurred_at DESC LIMIT ?) ORDER BY occurred_at ASC"
		args = append(args, limit)
	} else {
		q += " ORDER BY occurred_at ASC"
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]models.DashboardEvent, 0, 64)
	for rows.Next() {
		var (
			ev       models.DashboardEvent
			occurred string
			metaStr  sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &occurred, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if ev.OccurredAt, err = parseStoredTime(occurred); err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.EventID, err)
		}

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBefore removes events older than cutoff and returns how many went.
func (r *EventSQLite) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteEventsBeforeSQL, formatStoredTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

func normalizeType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseStoredTime(s string) (time.Time, error) {
	for _, layout := range []string{storedTimeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid stored time %q", s)
}
