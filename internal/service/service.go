package service

import (
	"context"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/push"
	"sensor_dashboard/internal/repository"
	"sensor_dashboard/internal/series"
	"sensor_dashboard/internal/state"
	"sensor_dashboard/internal/ui"
)

// DeviceAPI is the remote sensor board as seen by the services.
type DeviceAPI interface {
	Status(ctx context.Context) (models.PartialState, error)
	Reading(ctx context.Context) (models.Reading, error)
	History(ctx context.Context) ([]models.Reading, error)
	Toggle(ctx context.Context, endpoint string) error
}

// Polling pulls the latest reading into the display and the chart.
type Polling interface {
	// Pull is the timer path; it never blocks on other pulls.
	Pull(ctx context.Context) error
	// StartupPull is the immediate pull after chart initialization.
	StartupPull(ctx context.Context) error
	// ReadNow is the manual path; it returns ErrPullInFlight while another
	// manual pull is running.
	ReadNow(ctx context.Context) error
}

// Commands sends user toggles to the device.
type Commands interface {
	Toggle(ctx context.Context, target models.Target) error
}

// Dashboard exposes the current UI state.
type Dashboard interface {
	Snapshot() models.Dashboard
	Series() models.Series
}

// EventLog exposes the operator-visible journal.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DashboardEvent, error)
}

// Sync owns startup sequencing and the poll timer.
// Stop via context cancellation in main() for graceful shutdown.
type Sync interface {
	Run(ctx context.Context)
}

// Service aggregates all sub-services.
type Service struct {
	Polling
	Commands
	Dashboard
	EventLog
	Sync
}

// Options tunes the composed services.
type Options struct {
	PollInterval     time.Duration
	SeriesCapacity   int
	Location         *time.Location
	JournalRetention time.Duration
	Push             push.Config
}

// NewService wires the device client and the journal repository into the
// synchronization core. The returned Board, store and buffer are shared by
// every trigger path.
func NewService(repos *repository.Repository, dev DeviceAPI, opts Options, log *logger.Logger) *Service {
	board := ui.NewBoard()
	store := state.NewStore(board)
	buffer := series.New(opts.SeriesCapacity, board)
	journal := NewJournal(repos.EventRepo, log)

	poller := NewPollingService(dev, buffer, board, journal, opts.Location, log)
	commands := NewCommandService(dev, store, journal, log)

	var pusher PushRunner
	if opts.Push.URL != "" {
		pusher = push.New(opts.Push, store, board, journal, log)
	}

	coordinator := NewCoordinator(CoordinatorDeps{
		Device:    dev,
		Store:     store,
		Chart:     buffer,
		Board:     board,
		Poller:    poller,
		Push:      pusher,
		Journal:   journal,
		Location:  opts.Location,
		Interval:  opts.PollInterval,
		Retention: opts.JournalRetention,
	}, log)

	return &Service{
		Polling:   poller,
		Commands:  commands,
		Dashboard: board,
		EventLog:  NewEventLogService(repos.EventRepo),
		Sync:      coordinator,
	}
}
