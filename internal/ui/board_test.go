package ui

import (
	"testing"
	"time"

	"sensor_dashboard/internal/models"
)

func TestBoard_Defaults(t *testing.T) {
	d := NewBoard().Snapshot()
	if !d.ReadNowEnabled || d.Loading || d.ChartReady {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if d.Device.LCD.Source != models.SourceUnknown {
		t.Fatalf("lcd source: %q", d.Device.LCD.Source)
	}
}

func TestBoard_ShowReadingFormats(t *testing.T) {
	b := NewBoard()
	r := models.Reading{Timestamp: time.Now(), Temperature: 72.3, Humidity: 41}

	b.ShowReading(r, "10:11:12")

	d := b.Snapshot()
	if d.Temperature != "72.30" || d.Humidity != "41.0" || d.LastUpdated != "10:11:12" {
		t.Fatalf("unexpected display: %+v", d)
	}
}

func TestBoard_ShowErrorSetsAllThreeFields(t *testing.T) {
	b := NewBoard()
	b.ShowReading(models.Reading{Temperature: 1, Humidity: 2}, "00:00:01")

	b.ShowError()

	d := b.Snapshot()
	for name, v := range map[string]string{"temperature": d.Temperature, "humidity": d.Humidity, "last_updated": d.LastUpdated} {
		if v != models.ErrorSentinel {
			t.Errorf("%s: got %q, want %q", name, v, models.ErrorSentinel)
		}
	}
}

func TestBoard_RenderCopiesSeries(t *testing.T) {
	b := NewBoard()
	s := models.Series{Labels: []string{"a", "b"}, Temperatures: []float64{1, 2}, Humidities: []float64{3, 4}}

	b.Render(s)
	got := b.Series()
	got.Labels[0] = "mutated"

	if b.Series().Labels[0] != "a" {
		t.Fatalf("Series must return a copy")
	}
	if b.Snapshot().Points != 2 {
		t.Fatalf("points: %d", b.Snapshot().Points)
	}
}

func TestFormat(t *testing.T) {
	if got := FormatTemperature(20); got != "20.00" {
		t.Errorf("FormatTemperature: %q", got)
	}
	if got := FormatHumidity(55.55); got != "55.5" && got != "55.6" {
		t.Errorf("FormatHumidity: %q", got)
	}
}
