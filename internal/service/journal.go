package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

// Recorder journals operator-visible events. Implementations never fail
// the caller.
type Recorder interface {
	Record(ctx context.Context, eventType, description string, meta map[string]any)
}

// Journal writes events to the event repository, best effort.
type Journal struct {
	repo repository.EventRepo
	log  *logger.Logger
	now  func() time.Time
}

// NewJournal returns a journal backed by repo. A nil repo only logs.
func NewJournal(repo repository.EventRepo, log *logger.Logger) *Journal {
	return &Journal{repo: repo, log: log.Named("journal"), now: time.Now}
}

// Record appends one event. Failures are logged and swallowed.
func (j *Journal) Record(ctx context.Context, eventType, description string, meta map[string]any) {
	if j == nil || j.repo == nil {
		return
	}
	ev := models.DashboardEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  j.now().UTC(),
		Type:        eventType,
		Description: description,
	}
	if len(meta) > 0 {
		ev.Metadata = meta
	}
	if err := j.repo.Append(ctx, ev); err != nil {
		j.log.Errorw("journal_append_failed", "type", eventType, "err", err)
	}
}

// Prune drops events older than retention. Zero retention keeps everything.
func (j *Journal) Prune(ctx context.Context, retention time.Duration) {
	if j == nil || j.repo == nil || retention <= 0 {
		return
	}
	n, err := j.repo.DeleteBefore(ctx, j.now().Add(-retention))
	if err != nil {
		j.log.Errorw("journal_prune_failed", "err", err)
		return
	}
	if n > 0 {
		j.log.Debugw("journal_pruned", "deleted", n)
	}
}

// record is a nil-safe helper for services holding an optional Recorder.
func record(ctx context.Context, r Recorder, eventType, description string, meta map[string]any) {
	if r == nil {
		return
	}
	r.Record(context.WithoutCancel(ctx), eventType, description, meta)
}
