// Package ui holds the in-process view of what the dashboard page shows.
// It is the sink for device state, chart redraws and pull display updates,
// and is read by the local HTTP API.
package ui

import (
	"strconv"
	"sync"

	"sensor_dashboard/internal/models"
)

// Board holds mutable UI state behind an RWMutex. Readers get value copies.
type Board struct {
	mu     sync.RWMutex
	dash   models.Dashboard
	series models.Series
}

// NewBoard returns a board with placeholders shown and Read-Now enabled.
func NewBoard() *Board {
	return &Board{
		dash: models.Dashboard{
			Temperature:    "--",
			Humidity:       "--",
			LastUpdated:    "--",
			ReadNowEnabled: true,
			Device: models.DeviceSnapshot{
				LCD:     models.FieldState{Source: models.SourceUnknown},
				Speaker: models.FieldState{Source: models.SourceUnknown},
			},
		},
		series: models.Series{Labels: []string{}, Temperatures: []float64{}, Humidities: []float64{}},
	}
}

// ShowReading fills the current-reading fields from a successful pull.
func (b *Board) ShowReading(r models.Reading, label string) {
	b.mu.Lock()
	b.dash.Temperature = FormatTemperature(r.Temperature)
	b.dash.Humidity = FormatHumidity(r.Humidity)
	b.dash.LastUpdated = label
	b.mu.Unlock()
}

// ShowError puts the error sentinel in all three current-reading fields.
func (b *Board) ShowError() {
	b.mu.Lock()
	b.dash.Temperature = models.ErrorSentinel
	b.dash.Humidity = models.ErrorSentinel
	b.dash.LastUpdated = models.ErrorSentinel
	b.mu.Unlock()
}

// SetLoading shows or hides the loading indicator.
func (b *Board) SetLoading(on bool) {
	b.mu.Lock()
	b.dash.Loading = on
	b.mu.Unlock()
}

// SetReadNowEnabled enables or disables the manual pull control.
func (b *Board) SetReadNowEnabled(on bool) {
	b.mu.Lock()
	b.dash.ReadNowEnabled = on
	b.mu.Unlock()
}

// SetChartReady marks the chart surface as initialized.
func (b *Board) SetChartReady() {
	b.mu.Lock()
	b.dash.ChartReady = true
	b.mu.Unlock()
}

// SetPushConnected records whether the push channel is currently open.
func (b *Board) SetPushConnected(on bool) {
	b.mu.Lock()
	b.dash.PushConnected = on
	b.mu.Unlock()
}

// ShowDeviceState moves the toggle controls.
func (b *Board) ShowDeviceState(s models.DeviceSnapshot) {
	b.mu.Lock()
	b.dash.Device = s
	b.mu.Unlock()
}

// Render redraws the chart with a new window.
func (b *Board) Render(s models.Series) {
	b.mu.Lock()
	b.series = s
	b.dash.Points = s.Len()
	b.mu.Unlock()
}

// Snapshot returns a copy of the current UI state.
func (b *Board) Snapshot() models.Dashboard {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dash
}

// Series returns the chart window last rendered.
func (b *Board) Series() models.Series {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return models.Series{
		Labels:       append([]string{}, b.series.Labels...),
		Temperatures: append([]float64{}, b.series.Temperatures...),
		Humidities:   append([]float64{}, b.series.Humidities...),
	}
}

// FormatTemperature renders a temperature with two decimals.
func FormatTemperature(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// FormatHumidity renders a humidity with one decimal.
func FormatHumidity(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
