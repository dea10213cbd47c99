package devicesim

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, s *Simulator) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		s.Close()
		srv.Close()
	})
	return srv
}

func dialPush(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitSubscribers(s *Simulator, n int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Subscribers() == n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestRoutes_DhtData(t *testing.T) {
	s := quietSim(0)
	s.Set(23.456, 40.04)
	r := s.Routes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dht_data", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["temperature"] != 23.46 || out["humidity"] != 40.0 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	s.SetFault(true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dht_data", nil))
	if got := strings.ReplaceAll(w.Body.String(), " ", ""); got != `{"temperature":null,"humidity":null}` {
		t.Fatalf("expected nulls, got %s", got)
	}
}

func TestRoutes_StatusAndHistory(t *testing.T) {
	s := quietSim(0)
	s.Tick(time.Unix(1700000000, 0))
	s.Tick(time.Unix(1700000060, 0))
	r := s.Routes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"lcd_on":true`) || !strings.Contains(w.Body.String(), `"speaker_on":false`) {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dht_history", nil))
	var out struct {
		History []struct {
			Temperature float64 `json:"temperature"`
			Humidity    float64 `json:"humidity"`
			Timestamp   int64   `json:"timestamp"`
		} `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.History) != 2 || out.History[0].Timestamp != 1700000000 || out.History[1].Timestamp != 1700000060 {
		t.Fatalf("unexpected history: %+v", out.History)
	}
}

func TestRoutes_ToggleBroadcastsState(t *testing.T) {
	s := quietSim(0)
	srv := newTestServer(t, s)
	a := dialPush(t, srv)
	b := dialPush(t, srv)
	if !waitSubscribers(s, 2) {
		t.Fatalf("subscribers=%d", s.Subscribers())
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/speaker_toggle", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status=%d", resp.StatusCode)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		var frame map[string]bool
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if !frame["lcd_on"] || !frame["speaker_on"] {
			t.Fatalf("unexpected frame: %+v", frame)
		}
	}
}

func TestRoutes_ToggleRejectsForeignContentType(t *testing.T) {
	s := quietSim(0)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/lcd_toggle", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	s.Routes().ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
	if !*s.Outputs().LCDOn {
		t.Fatalf("rejected command must not toggle")
	}
}

func TestClose_DropsSubscribers(t *testing.T) {
	s := quietSim(0)
	srv := newTestServer(t, s)
	conn := dialPush(t, srv)
	if !waitSubscribers(s, 1) {
		t.Fatalf("subscribers=%d", s.Subscribers())
	}

	s.Close()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going-away close, got %v", err)
	}
}
