package series

import (
	"fmt"
	"sync"
	"testing"

	"sensor_dashboard/internal/models"
)

type recordingRenderer struct {
	mu    sync.Mutex
	calls []models.Series
}

func (r *recordingRenderer) Render(s models.Series) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func point(i int) models.SeriesPoint {
	return models.SeriesPoint{
		Label:       fmt.Sprintf("t%03d", i),
		Temperature: float64(i),
		Humidity:    float64(i) / 2,
	}
}

func TestBuffer_NeverExceedsCapacityAndKeepsMostRecent(t *testing.T) {
	b := New(DefaultCapacity, nil)

	for n := 1; n <= 150; n++ {
		b.Append(point(n))

		s := b.AsArrays()
		want := n
		if want > DefaultCapacity {
			want = DefaultCapacity
		}
		if s.Len() != want || len(s.Temperatures) != want || len(s.Humidities) != want {
			t.Fatalf("after %d appends: lengths %d/%d/%d, want %d",
				n, len(s.Labels), len(s.Temperatures), len(s.Humidities), want)
		}
		// retained points are exactly the most recent ones, oldest first
		first := n - want + 1
		for i := 0; i < want; i++ {
			if s.Labels[i] != point(first+i).Label || s.Temperatures[i] != float64(first+i) {
				t.Fatalf("after %d appends: index %d holds %q/%v, want %q",
					n, i, s.Labels[i], s.Temperatures[i], point(first+i).Label)
			}
		}
	}
}

func TestBuffer_RendersAfterEveryMutation(t *testing.T) {
	r := &recordingRenderer{}
	b := New(3, r)

	for i := 0; i < 5; i++ {
		b.Append(point(i))
	}
	b.Reset(nil)

	if r.count() != 6 {
		t.Fatalf("render calls: got %d, want 6", r.count())
	}
	last := r.calls[4]
	if last.Len() != 3 || last.Labels[0] != "t002" || last.Labels[2] != "t004" {
		t.Fatalf("unexpected window on 5th render: %+v", last.Labels)
	}
	if r.calls[5].Len() != 0 {
		t.Fatalf("reset render should be empty, got %d points", r.calls[5].Len())
	}
}

func TestBuffer_ResetTrimsToMostRecent(t *testing.T) {
	b := New(4, nil)
	pts := make([]models.SeriesPoint, 0, 10)
	for i := 0; i < 10; i++ {
		pts = append(pts, point(i))
	}

	b.Reset(pts)

	s := b.AsArrays()
	if s.Len() != 4 {
		t.Fatalf("len: got %d, want 4", s.Len())
	}
	if s.Labels[0] != "t006" || s.Labels[3] != "t009" {
		t.Fatalf("unexpected labels: %v", s.Labels)
	}

	// the caller's slice must not alias the buffer
	pts[9].Label = "mutated"
	if b.AsArrays().Labels[3] != "t009" {
		t.Fatalf("buffer aliased caller slice")
	}
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	if got := New(0, nil).Capacity(); got != DefaultCapacity {
		t.Fatalf("capacity: got %d, want %d", got, DefaultCapacity)
	}
}

func TestBuffer_ConcurrentAppends(t *testing.T) {
	b := New(DefaultCapacity, &recordingRenderer{})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				b.Append(point(g*100 + i))
			}
		}(g)
	}
	wg.Wait()

	if b.Len() != DefaultCapacity {
		t.Fatalf("len: got %d, want %d", b.Len(), DefaultCapacity)
	}
}
