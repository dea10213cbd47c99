package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
)

// DefaultPollInterval is the recurring pull period.
const DefaultPollInterval = 60 * time.Second

// StateApplier takes authoritative device state snapshots.
type StateApplier interface {
	ApplyAuthoritative(p models.PartialState) models.DeviceSnapshot
}

// ChartSurface is told when the chart has been initialized.
type ChartSurface interface {
	SetChartReady()
}

// PushRunner holds the push channel for the session.
type PushRunner interface {
	Run(ctx context.Context)
}

// CoordinatorDeps groups the collaborators of a Coordinator. Push and
// Journal may be nil.
type CoordinatorDeps struct {
	Device    DeviceAPI
	Store     StateApplier
	Chart     Chart
	Board     ChartSurface
	Poller    Polling
	Push      PushRunner
	Journal   *Journal
	Location  *time.Location
	Interval  time.Duration
	Retention time.Duration
}

// Coordinator composes the session: push channel, startup sequence and the
// recurring pull timer.
type Coordinator struct {
	deps CoordinatorDeps
	log  *logger.Logger
}

func NewCoordinator(deps CoordinatorDeps, log *logger.Logger) *Coordinator {
	if deps.Interval <= 0 {
		deps.Interval = DefaultPollInterval
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &Coordinator{deps: deps, log: log.Named("sync")}
}

// Run opens the push channel, performs the startup sequence and then pulls
// every interval until ctx ends. Pulls still in flight at that point are
// abandoned; Run waits for their cleanup before returning.
func (c *Coordinator) Run(ctx context.Context) {
	var wg sync.WaitGroup
	defer wg.Wait()

	if c.deps.Push != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.deps.Push.Run(ctx)
		}()
	}

	c.Start(ctx)

	t := time.NewTicker(c.deps.Interval)
	defer t.Stop()
	c.log.Infow("poll_timer_armed", "interval", c.deps.Interval)

	for {
		select {
		case <-ctx.Done():
			c.log.Infow("sync_stopped")
			return
		case <-t.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.deps.Poller.Pull(ctx)
			}()
			c.deps.Journal.Prune(ctx, c.deps.Retention)
		}
	}
}

// Start runs the startup sequence: the state snapshot in parallel with
// chart initialization followed by an immediate pull. Every step fails soft.
func (c *Coordinator) Start(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		c.loadState(ctx)
		return nil
	})
	g.Go(func() error {
		c.initChart(ctx)
		_ = c.deps.Poller.StartupPull(ctx)
		return nil
	})
	_ = g.Wait()
	c.log.Infow("startup_complete")
}

func (c *Coordinator) loadState(ctx context.Context) {
	p, err := c.deps.Device.Status(ctx)
	// well-formed fields are applied even when others were rejected
	snap := c.deps.Store.ApplyAuthoritative(p)
	if err != nil {
		c.log.Errorw("initial_state_failed", "err", err)
		record(ctx, c.deps.Journal, models.EventStatusError, "Initial state fetch failed", map[string]any{"error": err.Error()})
		return
	}
	c.log.Infow("initial_state_applied", "lcd_on", snap.LCD.On, "speaker_on", snap.Speaker.On)
}

func (c *Coordinator) initChart(ctx context.Context) {
	defer func() {
		if c.deps.Board != nil {
			c.deps.Board.SetChartReady()
		}
	}()

	history, err := c.deps.Device.History(ctx)
	if err != nil {
		// an empty chart still accepts live points
		c.log.Errorw("history_fetch_failed", "err", err)
		record(ctx, c.deps.Journal, models.EventHistoryError, "History fetch failed", map[string]any{"error": err.Error()})
		c.deps.Chart.Reset(nil)
		return
	}

	points := make([]models.SeriesPoint, 0, len(history))
	for _, r := range history {
		points = append(points, r.Point(c.deps.Location))
	}
	c.deps.Chart.Reset(points)
	c.log.Infow("chart_initialized", "history_points", len(history))
}
