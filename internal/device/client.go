// Package device talks to the sensor board's HTTP API.
package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sensor_dashboard/internal/models"
)

// Device API paths.
const (
	pathStatus  = "/status"
	pathReading = "/dht_data"
	pathHistory = "/dht_history"
	PathPush    = "/ws"

	contentTypeJSON  = "application/json"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20 // 1 MB
)

// ErrMalformed marks a response that decoded but lacks expected fields.
var ErrMalformed = errors.New("malformed device payload")

// StatusError is returned when the device answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device %s %s: %s", e.Method, e.Path, e.Status)
}

// Client is a thin JSON client for one device.
type Client struct {
	base *url.URL
	http *http.Client
	now  func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock replaces the clock used to stamp pulled readings.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient builds a client for the device at baseURL (e.g. "http://192.168.4.1").
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse device url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("device url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PushURL returns the ws:// (or wss://) address of the device push channel.
func (c *Client) PushURL() string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + PathPush
	return u.String()
}

// Status fetches the current output states.
func (c *Client) Status(ctx context.Context) (models.PartialState, error) {
	body, err := c.get(ctx, pathStatus)
	if err != nil {
		return models.PartialState{}, err
	}
	p, err := models.ParsePartialState(body)
	if err != nil {
		return p, fmt.Errorf("%w: %s: %v", ErrMalformed, pathStatus, err)
	}
	return p, nil
}

type readingDTO struct {
	Timestamp   *float64 `json:"timestamp,omitempty"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

func (d readingDTO) complete() bool {
	return d.Temperature != nil && d.Humidity != nil
}

// Reading pulls the latest sensor sample, stamped with the receive time.
func (c *Client) Reading(ctx context.Context) (models.Reading, error) {
	body, err := c.get(ctx, pathReading)
	if err != nil {
		return models.Reading{}, err
	}
	var dto readingDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return models.Reading{}, fmt.Errorf("%w: %s: %v", ErrMalformed, pathReading, err)
	}
	if !dto.complete() {
		return models.Reading{}, fmt.Errorf("%w: %s: temperature and humidity are required", ErrMalformed, pathReading)
	}
	return models.Reading{
		Timestamp:   c.now(),
		Temperature: *dto.Temperature,
		Humidity:    *dto.Humidity,
	}, nil
}

type historyDTO struct {
	History []readingDTO `json:"history"`
}

// History fetches the device-side backlog in one batch, oldest first.
// Entries missing a field are skipped.
func (c *Client) History(ctx context.Context) ([]models.Reading, error) {
	body, err := c.get(ctx, pathHistory)
	if err != nil {
		return nil, err
	}
	var dto historyDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, pathHistory, err)
	}

	out := make([]models.Reading, 0, len(dto.History))
	for _, h := range dto.History {
		if !h.complete() || h.Timestamp == nil {
			continue
		}
		out = append(out, models.Reading{
			Timestamp:   epochSeconds(*h.Timestamp),
			Temperature: *h.Temperature,
			Humidity:    *h.Humidity,
		})
	}
	return out, nil
}

// Toggle posts an empty JSON command to endpoint. Any 2xx is success.
func (c *Client) Toggle(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(endpoint), http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	_, err = c.do(req)
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", contentTypeJSON)
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("device %s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method: req.Method,
			Path:   req.URL.Path,
			Code:   resp.StatusCode,
			Status: resp.Status,
		}
	}
	return body, nil
}

func (c *Client) resolve(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func epochSeconds(v float64) time.Time {
	sec := int64(v)
	nsec := int64((v - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
