// Package push keeps the device push channel open and applies incoming
// state frames to the device state store.
package push

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
)

const (
	maxFrameSize            = 1 << 12 // 4 KB
	closeWait               = time.Second
	defaultHandshakeTimeout = 10 * time.Second
	defaultMinBackoff       = time.Second
	defaultMaxBackoff       = 30 * time.Second
	maxLoggedFrame          = 128
)

// Applier takes the fields decoded from a state frame.
type Applier interface {
	ApplyAuthoritative(p models.PartialState) models.DeviceSnapshot
}

// StatusSink is told when the channel opens and closes.
type StatusSink interface {
	SetPushConnected(on bool)
}

// Recorder journals operator-visible events.
type Recorder interface {
	Record(ctx context.Context, eventType, description string, meta map[string]any)
}

// Config controls dialing and reconnects.
type Config struct {
	URL              string
	Reconnect        bool
	MinBackoff       time.Duration
	MaxBackoff       time.Duration
	HandshakeTimeout time.Duration
}

// Client owns one push connection at a time. Frames are applied strictly in
// arrival order by a single reader. Nothing outside this package may assume
// the channel is live.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer
	store  Applier
	status StatusSink
	events Recorder
	log    *logger.Logger

	connected atomic.Bool
	applied   atomic.Int64
	partial   atomic.Int64
	dropped   atomic.Int64
}

// New builds a push client. status and events may be nil.
func New(cfg Config, store Applier, status StatusSink, events Recorder, log *logger.Logger) *Client {
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = defaultMinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = defaultMaxBackoff
		if cfg.MaxBackoff < cfg.MinBackoff {
			cfg.MaxBackoff = cfg.MinBackoff
		}
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	return &Client{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		store:  store,
		status: status,
		events: events,
		log:    log.Named("push"),
	}
}

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool { return c.connected.Load() }

// Stats returns frame counts so far: fully applied, applied with some
// fields rejected, and dropped with nothing applied.
func (c *Client) Stats() (applied, partial, dropped int64) {
	return c.applied.Load(), c.partial.Load(), c.dropped.Load()
}

// Run holds the channel open until ctx ends. With reconnects disabled it
// returns after the first connection closes or the first dial fails.
func (c *Client) Run(ctx context.Context) {
	backoff := c.cfg.MinBackoff
	for {
		opened, err := c.session(ctx)
		if ctx.Err() != nil {
			return
		}
		if opened {
			backoff = c.cfg.MinBackoff
		} else {
			c.log.Warnw("push_dial_failed", "url", c.cfg.URL, "err", err)
		}
		if !c.cfg.Reconnect {
			c.log.Infow("push_reconnect_disabled")
			return
		}

		c.log.Debugw("push_reconnect_wait", "backoff", backoff)
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		backoff *= 2
		if backoff > c.cfg.MaxBackoff {
			backoff = c.cfg.MaxBackoff
		}
	}
}

// session dials once and reads until the connection ends. opened reports
// whether the dial succeeded.
func (c *Client) session(ctx context.Context) (opened bool, err error) {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxFrameSize)
	c.setConnected(ctx, true, nil)

	// Unblock ReadMessage when the session ends.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			c.setConnected(ctx, false, err)
			return true, err
		}
		if mt != websocket.TextMessage {
			continue
		}
		c.handleFrame(ctx, data)
	}
}

func (c *Client) handleFrame(ctx context.Context, data []byte) {
	p, err := models.ParsePartialState(data)
	if !p.Empty() {
		snap := c.store.ApplyAuthoritative(p)
		c.log.Debugw("push_state_applied", "lcd_on", snap.LCD.On, "speaker_on", snap.Speaker.On)
	}

	switch {
	case err == nil:
		c.applied.Inc()
	case !p.Empty():
		c.partial.Inc()
		c.log.Warnw("push_frame_fields_rejected", "err", err, "frame", truncate(data))
		c.record(ctx, models.EventPushPartial, "Push frame applied with rejected fields", map[string]any{
			"error": err.Error(),
			"frame": truncate(data),
		})
	default:
		c.dropped.Inc()
		c.log.Warnw("push_frame_rejected", "err", err, "frame", truncate(data))
		c.record(ctx, models.EventPushDropped, "Malformed push frame dropped", map[string]any{
			"error": err.Error(),
			"frame": truncate(data),
		})
	}
}

func (c *Client) setConnected(ctx context.Context, on bool, cause error) {
	c.connected.Store(on)
	if c.status != nil {
		c.status.SetPushConnected(on)
	}
	if on {
		c.log.Infow("push_connected", "url", c.cfg.URL)
		c.record(ctx, models.EventPushConnected, "Push channel connected", map[string]any{"url": c.cfg.URL})
		return
	}

	meta := map[string]any{"url": c.cfg.URL}
	if cause != nil && !errors.Is(cause, context.Canceled) {
		meta["error"] = cause.Error()
	}
	c.log.Infow("push_disconnected", "url", c.cfg.URL, "err", cause)
	c.record(ctx, models.EventPushDisconnected, "Push channel disconnected", meta)
}

func (c *Client) record(ctx context.Context, typ, desc string, meta map[string]any) {
	if c.events == nil {
		return
	}
	// journal even when the session context is already done
	c.events.Record(context.WithoutCancel(ctx), typ, desc, meta)
}

func truncate(b []byte) string {
	if len(b) > maxLoggedFrame {
		return string(b[:maxLoggedFrame]) + "..."
	}
	return string(b)
}
