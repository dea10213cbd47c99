package devicesim

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sensor_dashboard/internal/models"
)

const maxMsgSize = 1 << 12 // 4 KB

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type readingResponse struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

type historyEntry struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Timestamp   int64   `json:"timestamp"`
}

// Routes builds the device API served by the board.
func (s *Simulator) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/status", s.status)
	router.GET("/dht_data", s.dhtData)
	router.GET("/dht_history", s.dhtHistory)
	router.POST("/lcd_toggle", s.toggleHandler(models.TargetLCD))
	router.POST("/speaker_toggle", s.toggleHandler(models.TargetSpeaker))
	router.GET("/ws", s.wsConnect)

	return router
}

func (s *Simulator) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.Outputs())
}

func (s *Simulator) dhtData(c *gin.Context) {
	temp, hum, ok := s.Reading()
	if !ok {
		// the board sends explicit nulls when the read failed
		c.JSON(http.StatusOK, readingResponse{})
		return
	}
	c.JSON(http.StatusOK, readingResponse{Temperature: round(temp, 100), Humidity: round(hum, 10)})
}

func (s *Simulator) dhtHistory(c *gin.Context) {
	samples := s.History()
	entries := make([]historyEntry, 0, len(samples))
	for _, smp := range samples {
		entries = append(entries, historyEntry{
			Temperature: *round(smp.Temperature, 100),
			Humidity:    *round(smp.Humidity, 10),
			Timestamp:   smp.Timestamp.Unix(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (s *Simulator) toggleHandler(t models.Target) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ct := c.GetHeader("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
			c.String(http.StatusUnsupportedMediaType, "unsupported content type")
			return
		}
		s.Toggle(t)
		c.String(http.StatusOK, "OK")
	}
}

// wsConnect registers a push subscriber. Frames sent by the client are
// read and discarded; the board never answers them.
func (s *Simulator) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	conn.SetReadLimit(maxMsgSize)
	s.hub.add(conn)
	s.log.Infow("push_client_connected", "remote", conn.RemoteAddr().String())

	defer func() {
		s.hub.remove(conn)
		_ = conn.Close()
		s.log.Infow("push_client_disconnected", "remote", conn.RemoteAddr().String())
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// round mirrors the board's %.2f / %.1f formatting.
func round(v, scale float64) *float64 {
	r := math.Round(v*scale) / scale
	return &r
}
