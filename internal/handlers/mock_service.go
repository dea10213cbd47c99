package handlers

import (
	"context"
	"sync"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockPolling struct {
	readNowErr   error
	readNowCalls int
}

func (m *mockPolling) Pull(ctx context.Context) error { return nil }

func (m *mockPolling) StartupPull(ctx context.Context) error { return nil }

func (m *mockPolling) ReadNow(ctx context.Context) error {
	m.readNowCalls++
	return m.readNowErr
}

type mockCommands struct {
	err        error
	lastTarget models.Target
	calls      int
}

func (m *mockCommands) Toggle(ctx context.Context, target models.Target) error {
	m.calls++
	m.lastTarget = target
	return m.err
}

type mockDashboard struct {
	mu     sync.Mutex
	board  models.Dashboard
	series models.Series
	reads  int
}

func (m *mockDashboard) Snapshot() models.Dashboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	return m.board
}

func (m *mockDashboard) Series() models.Series {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.series
}

type mockEventLog struct {
	resp      []models.DashboardEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
	calls     int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DashboardEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func sampleDashboard() models.Dashboard {
	return models.Dashboard{
		Temperature:    "22.50",
		Humidity:       "41.0",
		LastUpdated:    "12:30:45",
		ReadNowEnabled: true,
		ChartReady:     true,
		PushConnected:  true,
		Points:         2,
		Device: models.DeviceSnapshot{
			LCD:     models.FieldState{On: true, Known: true, Source: models.SourceConfirmed},
			Speaker: models.FieldState{On: false, Known: true, Source: models.SourceConfirmed},
		},
	}
}
