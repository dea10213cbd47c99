// Package series keeps the rolling chart window.
package series

import (
	"sync"

	"sensor_dashboard/internal/models"
)

// DefaultCapacity is the chart window size.
const DefaultCapacity = 60

// Renderer receives the full window after every mutation.
type Renderer interface {
	Render(s models.Series)
}

// Buffer is a fixed-capacity FIFO of chart points. Oldest points are evicted
// first once capacity is exceeded. Safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	points   []models.SeriesPoint
	capacity int
	renderer Renderer
}

// New returns an empty buffer. A non-positive capacity selects DefaultCapacity;
// a nil renderer disables redraw notifications.
func New(capacity int, r Renderer) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		points:   make([]models.SeriesPoint, 0, capacity+1),
		capacity: capacity,
		renderer: r,
	}
}

// Append adds p at the end, evicting from the front while over capacity.
func (b *Buffer) Append(p models.SeriesPoint) {
	b.mu.Lock()
	b.points = append(b.points, p)
	for len(b.points) > b.capacity {
		b.points = b.points[1:]
	}
	b.renderLocked()
	b.mu.Unlock()
}

// Reset replaces the window with points, keeping only the most recent
// capacity entries.
func (b *Buffer) Reset(points []models.SeriesPoint) {
	if len(points) > b.capacity {
		points = points[len(points)-b.capacity:]
	}

	b.mu.Lock()
	b.points = append(make([]models.SeriesPoint, 0, b.capacity+1), points...)
	b.renderLocked()
	b.mu.Unlock()
}

// AsArrays returns the window as parallel arrays in insertion order.
func (b *Buffer) AsArrays() models.Series {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.arraysLocked()
}

// Len returns the number of retained points.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.points)
}

// Capacity returns the maximum number of retained points.
func (b *Buffer) Capacity() int { return b.capacity }

func (b *Buffer) arraysLocked() models.Series {
	s := models.Series{
		Labels:       make([]string, len(b.points)),
		Temperatures: make([]float64, len(b.points)),
		Humidities:   make([]float64, len(b.points)),
	}
	for i, p := range b.points {
		s.Labels[i] = p.Label
		s.Temperatures[i] = p.Temperature
		s.Humidities[i] = p.Humidity
	}
	return s
}

// renderLocked runs under b.mu so the sink sees windows in mutation order.
func (b *Buffer) renderLocked() {
	if b.renderer != nil {
		b.renderer.Render(b.arraysLocked())
	}
}
