package service

import (
	"context"
	"errors"
	"testing"

	"sensor_dashboard/internal/device"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/state"
)

func TestToggle_SendsCommandAndFlipsOptimistically(t *testing.T) {
	dev := &fakeDevice{}
	store := state.NewStore(nil)
	store.ApplyAuthoritative(models.PartialState{LCDOn: models.Bool(false), SpeakerOn: models.Bool(true)})
	repo := &fakeEventRepo{}
	svc := NewCommandService(dev, store, NewJournal(repo, nil), nil)

	if err := svc.Toggle(context.Background(), models.TargetLCD); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if len(dev.toggled) != 1 || dev.toggled[0] != "/lcd_toggle" {
		t.Fatalf("device calls: %v", dev.toggled)
	}
	got := store.Get()
	if !got.LCD.On || got.LCD.Source != models.SourceOptimistic {
		t.Fatalf("lcd: %+v", got.LCD)
	}
	if !got.Speaker.On || got.Speaker.Source != models.SourceConfirmed {
		t.Fatalf("speaker must be untouched: %+v", got.Speaker)
	}
	if repo.count(models.EventCommand) != 1 {
		t.Fatalf("command not journaled: %v", repo.types())
	}
}

func TestToggle_FailureReportedWithoutRollback(t *testing.T) {
	rejection := &device.StatusError{Method: "POST", Path: "/speaker_toggle", Code: 503, Status: "503 Service Unavailable"}
	dev := &fakeDevice{toggle: func(context.Context, string) error { return rejection }}
	store := state.NewStore(nil)
	store.ApplyAuthoritative(models.PartialState{SpeakerOn: models.Bool(false)})
	repo := &fakeEventRepo{}
	svc := NewCommandService(dev, store, NewJournal(repo, nil), nil)

	err := svc.Toggle(context.Background(), models.TargetSpeaker)
	var se *device.StatusError
	if !errors.As(err, &se) || se.Code != 503 {
		t.Fatalf("want wrapped StatusError, got %v", err)
	}

	if got := store.Get().Speaker; !got.On || got.Source != models.SourceOptimistic {
		t.Fatalf("failed toggle must not roll back: %+v", got)
	}
	if len(dev.toggled) != 1 {
		t.Fatalf("no retry expected, calls=%d", len(dev.toggled))
	}
	if repo.count(models.EventCommandError) != 1 {
		t.Fatalf("failure not journaled: %v", repo.types())
	}
}

func TestToggle_UnknownTarget(t *testing.T) {
	dev := &fakeDevice{}
	store := state.NewStore(nil)
	svc := NewCommandService(dev, store, nil, nil)

	if err := svc.Toggle(context.Background(), models.Target("fan")); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("want ErrUnknownTarget, got %v", err)
	}
	if len(dev.toggled) != 0 {
		t.Fatalf("device must not be called")
	}
	if store.Get().LCD.Known {
		t.Fatalf("store must not change")
	}
}

func TestToggle_PushConfirmationOverridesOptimistic(t *testing.T) {
	dev := &fakeDevice{}
	store := state.NewStore(nil)
	store.ApplyAuthoritative(models.PartialState{LCDOn: models.Bool(true)})
	svc := NewCommandService(dev, store, nil, nil)

	if err := svc.Toggle(context.Background(), models.TargetLCD); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	// device reports it ignored the command
	if _, err := store.ApplyJSON([]byte(`{"lcd_on":true}`)); err != nil {
		t.Fatalf("ApplyJSON: %v", err)
	}
	if got := store.Get().LCD; !got.On || got.Source != models.SourceConfirmed {
		t.Fatalf("push must win: %+v", got)
	}
}
