// Package devicesim is a stand-in for the sensor board. It serves the same
// HTTP and WebSocket API so the dashboard can be run and tested without
// hardware.
package devicesim

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
)

// ----------- Simulation constants -----------
const (
	AmbientF       = 72.0 // room temperature °F, the unit the board reports
	AmbientRH      = 45.0 // room relative humidity %
	DriftPerSec    = 0.02 // fraction of the distance to ambient recovered per second
	DefaultNoiseF  = 0.5  // max temperature jitter per sample
	DefaultNoiseRH = 1.0  // max humidity jitter per sample
	HistorySize    = 60   // samples kept for /dht_history
	DefaultSettle  = 200 * time.Millisecond
	minHumidity    = 0.0
	maxHumidity    = 100.0
)

// Sample is one recorded sensor value.
type Sample struct {
	Temperature float64
	Humidity    float64
	Timestamp   time.Time
}

// Options tunes a Simulator. Zero values pick the defaults, except the
// noise amplitudes which may be set to a negative value to disable jitter.
type Options struct {
	HistorySize int
	NoiseF      float64
	NoiseRH     float64
	// Settle delays the LCD toggle before its state is broadcast, like the
	// panel's power-up on the board.
	Settle time.Duration
	Seed   uint64
}

// Simulator holds the fake board state.
type Simulator struct {
	mu        sync.Mutex
	temp      float64
	hum       float64
	lcdOn     bool
	speakerOn bool
	faulty    bool
	updatedAt time.Time

	history []Sample
	size    int

	noiseF  float64
	noiseRH float64
	settle  time.Duration
	rng     *rand.Rand

	hub *hub
	log *logger.Logger
	now func() time.Time
}

// New returns a simulator at ambient conditions with the LCD on and the
// speaker off.
func New(opts Options, log *logger.Logger) *Simulator {
	if opts.HistorySize <= 0 {
		opts.HistorySize = HistorySize
	}
	if opts.NoiseF == 0 {
		opts.NoiseF = DefaultNoiseF
	}
	if opts.NoiseRH == 0 {
		opts.NoiseRH = DefaultNoiseRH
	}
	if opts.Settle == 0 {
		opts.Settle = DefaultSettle
	}
	l := log.Named("devicesim")
	return &Simulator{
		temp:      AmbientF,
		hum:       AmbientRH,
		lcdOn:     true,
		size:      opts.HistorySize,
		noiseF:    math.Max(opts.NoiseF, 0),
		noiseRH:   math.Max(opts.NoiseRH, 0),
		settle:    max(opts.Settle, 0),
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		hub:       newHub(l),
		log:       l,
		now:       time.Now,
		updatedAt: time.Now(),
	}
}

// Run samples the sensor every tick until ctx is canceled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Tick(now)
		}
	}
}

// Tick advances the simulation to now and records one history sample.
func (s *Simulator) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := now.Sub(s.updatedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	s.temp = driftToward(s.temp, AmbientF, elapsed) + s.jitter(s.noiseF)
	s.hum = clamp(driftToward(s.hum, AmbientRH, elapsed)+s.jitter(s.noiseRH), minHumidity, maxHumidity)
	s.updatedAt = now

	s.history = append(s.history, Sample{Temperature: s.temp, Humidity: s.hum, Timestamp: now})
	if len(s.history) > s.size {
		s.history = s.history[len(s.history)-s.size:]
	}
}

// Reading returns the current sensor value. ok is false while the sensor
// is faulted.
func (s *Simulator) Reading() (temp, hum float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.faulty {
		return 0, 0, false
	}
	return s.temp, s.hum, true
}

// History returns the recorded samples, oldest first.
func (s *Simulator) History() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sample(nil), s.history...)
}

// Set forces the current sensor value.
func (s *Simulator) Set(temp, hum float64) {
	s.mu.Lock()
	s.temp, s.hum = temp, clamp(hum, minHumidity, maxHumidity)
	s.updatedAt = s.now()
	s.mu.Unlock()
}

// SetFault makes /dht_data report null values, like a sensor that failed
// its last read.
func (s *Simulator) SetFault(on bool) {
	s.mu.Lock()
	s.faulty = on
	s.mu.Unlock()
}

// Outputs returns the LCD and speaker power state.
func (s *Simulator) Outputs() models.PartialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputsLocked()
}

// Toggle flips one output and broadcasts the resulting state to every push
// subscriber. It is used both by the HTTP command handlers and by Press.
func (s *Simulator) Toggle(t models.Target) bool {
	s.mu.Lock()
	switch t {
	case models.TargetLCD:
		s.lcdOn = !s.lcdOn
	case models.TargetSpeaker:
		s.speakerOn = !s.speakerOn
	default:
		s.mu.Unlock()
		return false
	}
	state := s.outputsLocked()
	s.mu.Unlock()

	if t == models.TargetLCD {
		time.Sleep(s.settle)
	}
	s.log.Infow("output_toggled", "target", t, "lcd_on", *state.LCDOn, "speaker_on", *state.SpeakerOn)
	s.hub.broadcast(state)
	return true
}

// Press simulates a physical button or IR remote toggling an output. The
// change reaches clients only through the push channel.
func (s *Simulator) Press(t models.Target) bool { return s.Toggle(t) }

// InjectFrame pushes a raw text frame to every subscriber as is.
func (s *Simulator) InjectFrame(raw []byte) { s.hub.sendRaw(raw) }

// Subscribers reports the number of open push connections.
func (s *Simulator) Subscribers() int { return s.hub.len() }

// Close drops every push connection.
func (s *Simulator) Close() { s.hub.closeAll() }

func (s *Simulator) outputsLocked() models.PartialState {
	return models.PartialState{LCDOn: models.Bool(s.lcdOn), SpeakerOn: models.Bool(s.speakerOn)}
}

func (s *Simulator) jitter(amp float64) float64 {
	if amp == 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * amp
}

// driftToward moves v toward target by DriftPerSec of the gap per elapsed second.
func driftToward(v, target, elapsed float64) float64 {
	k := math.Min(DriftPerSec*elapsed, 1)
	return v + (target-v)*k
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
