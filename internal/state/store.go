// Package state holds the last-known LCD and speaker outputs.
package state

import (
	"sync"

	"sensor_dashboard/internal/models"
)

// Sink is told about every change of the device outputs.
type Sink interface {
	ShowDeviceState(s models.DeviceSnapshot)
}

// Store is the single source of truth for the displayed toggle positions.
// Authoritative updates (push frames, /status snapshots) overwrite only the
// fields they carry; optimistic flips are tagged until confirmed.
type Store struct {
	mu   sync.Mutex
	snap models.DeviceSnapshot
	sink Sink
}

// NewStore returns a store with both outputs unknown. sink may be nil.
func NewStore(sink Sink) *Store {
	unknown := models.FieldState{Source: models.SourceUnknown}
	return &Store{
		snap: models.DeviceSnapshot{LCD: unknown, Speaker: unknown},
		sink: sink,
	}
}

// ApplyAuthoritative overwrites the fields present in p and marks them
// confirmed. Absent fields are untouched.
func (s *Store) ApplyAuthoritative(p models.PartialState) models.DeviceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Empty() {
		return s.snap
	}
	if p.LCDOn != nil {
		s.snap.LCD = confirmed(*p.LCDOn)
	}
	if p.SpeakerOn != nil {
		s.snap.Speaker = confirmed(*p.SpeakerOn)
	}
	s.notifyLocked()
	return s.snap
}

// ApplyJSON parses a raw partial state and applies whatever fields are
// well-formed. The returned error describes rejected fields or a payload
// that is not an object; it never prevents valid fields from landing.
func (s *Store) ApplyJSON(data []byte) (models.DeviceSnapshot, error) {
	p, err := models.ParsePartialState(data)
	return s.ApplyAuthoritative(p), err
}

// Flip inverts one output locally, tags it optimistic and returns the new
// value. An unknown target is a no-op returning false.
func (s *Store) Flip(t models.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.fieldLocked(t)
	if f == nil {
		return false
	}
	*f = models.FieldState{On: !f.On, Known: true, Source: models.SourceOptimistic}
	s.notifyLocked()
	return f.On
}

// Get returns the current snapshot.
func (s *Store) Get() models.DeviceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Store) fieldLocked(t models.Target) *models.FieldState {
	switch t {
	case models.TargetLCD:
		return &s.snap.LCD
	case models.TargetSpeaker:
		return &s.snap.Speaker
	default:
		return nil
	}
}

func (s *Store) notifyLocked() {
	if s.sink != nil {
		s.sink.ShowDeviceState(s.snap)
	}
}

func confirmed(on bool) models.FieldState {
	return models.FieldState{On: on, Known: true, Source: models.SourceConfirmed}
}
