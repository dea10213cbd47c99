package repository

import (
	"context"
	"database/sql"
	"time"

	"sensor_dashboard/internal/models"
)

// EventRepo stores the operator-visible journal.
type EventRepo interface {
	Append(ctx context.Context, e models.DashboardEvent) error
	List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.DashboardEvent, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
