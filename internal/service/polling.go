package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
)

// ErrPullInFlight is returned by ReadNow while a manual pull is running.
var ErrPullInFlight = errors.New("manual pull already in flight")

// Pull triggers, as logged and journaled.
const (
	triggerStartup = "startup"
	triggerTimer   = "timer"
	triggerManual  = "manual"
)

// Display is the part of the UI a pull writes to.
type Display interface {
	ShowReading(r models.Reading, label string)
	ShowError()
	SetLoading(on bool)
	SetReadNowEnabled(on bool)
}

// Chart is the rolling series a pull appends to.
type Chart interface {
	Append(p models.SeriesPoint)
	Reset(points []models.SeriesPoint)
}

// PollingService runs pulls of the latest reading.
//
// State per pull: Idle -> InFlight -> Success|Failure -> Idle. The loading
// indicator is shown while any pull is in flight; the manual control is
// disabled only while a manual pull is in flight. Both are released on every
// exit path.
type PollingService struct {
	device  DeviceAPI
	chart   Chart
	display Display
	events  Recorder
	loc     *time.Location
	log     *logger.Logger

	manual atomic.Bool

	mu      sync.Mutex
	pending int
}

func NewPollingService(device DeviceAPI, chart Chart, display Display, events Recorder, loc *time.Location, log *logger.Logger) *PollingService {
	if loc == nil {
		loc = time.Local
	}
	return &PollingService{
		device:  device,
		chart:   chart,
		display: display,
		events:  events,
		loc:     loc,
		log:     log.Named("polling"),
	}
}

// Pull fetches one reading on the poll timer. Timer and startup pulls may
// overlap each other and a manual pull; completions apply in completion
// order.
func (s *PollingService) Pull(ctx context.Context) error {
	return s.pull(ctx, triggerTimer)
}

// StartupPull is the immediate pull that ends the startup sequence. It
// behaves like Pull.
func (s *PollingService) StartupPull(ctx context.Context) error {
	return s.pull(ctx, triggerStartup)
}

// ReadNow is the manual trigger. At most one manual pull is in flight.
func (s *PollingService) ReadNow(ctx context.Context) error {
	if !s.manual.CompareAndSwap(false, true) {
		s.log.Debugw("read_now_suppressed")
		return ErrPullInFlight
	}
	s.display.SetReadNowEnabled(false)
	defer func() {
		s.display.SetReadNowEnabled(true)
		s.manual.Store(false)
	}()

	return s.pull(ctx, triggerManual)
}

// ManualInFlight reports whether the manual control is currently locked.
func (s *PollingService) ManualInFlight() bool { return s.manual.Load() }

func (s *PollingService) pull(ctx context.Context, trigger string) error {
	s.beginLoading()
	defer s.endLoading()

	r, err := s.device.Reading(ctx)
	if ctx.Err() != nil {
		// abandoned: the session no longer cares about this result
		s.log.Debugw("pull_abandoned", "trigger", trigger, "err", ctx.Err())
		return ctx.Err()
	}
	if err != nil {
		s.display.ShowError()
		s.log.Errorw("pull_failed", "trigger", trigger, "err", err)
		record(ctx, s.events, models.EventPullError, "Reading pull failed", map[string]any{
			"trigger": trigger,
			"error":   err.Error(),
		})
		return err
	}

	label := r.Label(s.loc)
	s.display.ShowReading(r, label)
	s.chart.Append(r.Point(s.loc))
	s.log.Infow("pull_succeeded", "trigger", trigger, "temperature", r.Temperature, "humidity", r.Humidity)
	return nil
}

func (s *PollingService) beginLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
	if s.pending == 1 {
		s.display.SetLoading(true)
	}
}

func (s *PollingService) endLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.pending == 0 {
		s.display.SetLoading(false)
	}
}
