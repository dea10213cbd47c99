package service

import (
	"context"
	"sync"
	"time"

	"sensor_dashboard/internal/models"
)

// fakeEventRepo is an in-memory repository.EventRepo.
type fakeEventRepo struct {
	mu sync.Mutex

	gotFrom  time.Time
	gotTo    time.Time
	gotType  string
	gotLimit int

	events    []models.DashboardEvent
	err       error
	appendErr error
	deleted   int64
	cutoff    time.Time

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.DashboardEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	f.gotLimit = limit
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.DashboardEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = cutoff
	return f.deleted, f.err
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

func (f *fakeEventRepo) count(typ string) int {
	n := 0
	for _, t := range f.types() {
		if t == typ {
			n++
		}
	}
	return n
}

// fakeDevice is a scriptable DeviceAPI. A nil func returns the zero value.
type fakeDevice struct {
	mu sync.Mutex

	status  func(ctx context.Context) (models.PartialState, error)
	reading func(ctx context.Context) (models.Reading, error)
	history func(ctx context.Context) ([]models.Reading, error)
	toggle  func(ctx context.Context, endpoint string) error

	readingCalls int
	toggled      []string
}

func (d *fakeDevice) Status(ctx context.Context) (models.PartialState, error) {
	if d.status == nil {
		return models.PartialState{}, nil
	}
	return d.status(ctx)
}

func (d *fakeDevice) Reading(ctx context.Context) (models.Reading, error) {
	d.mu.Lock()
	d.readingCalls++
	fn := d.reading
	d.mu.Unlock()
	if fn == nil {
		return models.Reading{}, nil
	}
	return fn(ctx)
}

func (d *fakeDevice) History(ctx context.Context) ([]models.Reading, error) {
	if d.history == nil {
		return nil, nil
	}
	return d.history(ctx)
}

func (d *fakeDevice) Toggle(ctx context.Context, endpoint string) error {
	d.mu.Lock()
	d.toggled = append(d.toggled, endpoint)
	fn := d.toggle
	d.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, endpoint)
}

func (d *fakeDevice) readings() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readingCalls
}

var fixedNow = time.Date(2025, 3, 1, 12, 30, 45, 0, time.UTC)

func readingOf(temp, hum float64) func(context.Context) (models.Reading, error) {
	return func(context.Context) (models.Reading, error) {
		return models.Reading{Timestamp: fixedNow, Temperature: temp, Humidity: hum}, nil
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

// metaOf returns metadata key of the first journaled event of type typ.
func (f *fakeEventRepo) metaOf(typ, key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.Type != typ {
			continue
		}
		m, _ := e.Metadata.(map[string]any)
		return m[key]
	}
	return nil
}
