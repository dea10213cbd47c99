package models

import (
	"fmt"
	"time"
)

// Reading is a single temperature/humidity sample. Immutable once created.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
}

// LabelLayout is the clock format used for chart labels and the last-updated field.
const LabelLayout = "15:04:05"

// Label formats the reading time in loc. A nil loc means time.Local.
func (r Reading) Label(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return r.Timestamp.In(loc).Format(LabelLayout)
}

// Point derives the chart point for this reading.
func (r Reading) Point(loc *time.Location) SeriesPoint {
	return SeriesPoint{
		Label:       r.Label(loc),
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
	}
}

func (r Reading) String() string {
	return fmt.Sprintf("Timestamp: %s, Temperature: %.2f, Humidity: %.1f%%",
		r.Timestamp.Format(time.RFC3339), r.Temperature, r.Humidity)
}

// SeriesPoint is one entry of the rolling chart window.
type SeriesPoint struct {
	Label       string  `json:"label"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// Series holds the chart window as parallel arrays, oldest first.
type Series struct {
	Labels       []string  `json:"labels"`
	Temperatures []float64 `json:"temperatures"`
	Humidities   []float64 `json:"humidities"`
}

// Len reports the number of points in the series.
func (s Series) Len() int { return len(s.Labels) }
