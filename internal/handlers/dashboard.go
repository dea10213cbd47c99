package handlers

import (
	"context"
	"errors"
	"net/http"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK        = "ok"
	statusRefreshed = "refreshed"
	statusSent      = "sent"
	statusFailed    = "failed"

	errPullInFlight   = "a manual read is already in progress"
	errPullFailed     = "device read failed"
	errUnknownTarget  = "unknown target; use lcd or speaker"
	errCommandFailed  = "device rejected or did not receive the command"
	errDeviceCanceled = "request canceled"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondWithDashboard answers with a status and the current dashboard.
func (h *Handler) respondWithDashboard(c *gin.Context, httpCode int, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	resp["dashboard"] = h.services.Dashboard.Snapshot()
	c.JSON(httpCode, resp)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current dashboard
// @Description  Latest reading, loading/control flags, chart readiness and device output state.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.Dashboard
// @Router       /api/v1/dashboard [get]
func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.Snapshot())
}

// @Summary      Rolling series
// @Description  Parallel label/temperature/humidity arrays, oldest first, at most 60 points.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.Series
// @Router       /api/v1/series [get]
func (h *Handler) getSeries(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.Series())
}

// @Summary      Read now
// @Description  Manual pull of the latest reading. Only one manual pull runs at a time.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, dashboard"
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/readings/refresh [post]
func (h *Handler) refreshReading(c *gin.Context) {
	// a client hanging up must not abandon the pull; the device client's
	// timeout still bounds it
	err := h.services.Polling.ReadNow(context.WithoutCancel(c.Request.Context()))
	switch {
	case err == nil:
		h.respondWithDashboard(c, http.StatusOK, statusRefreshed, nil)
	case errors.Is(err, service.ErrPullInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": errPullInFlight})
	default:
		if h.log != nil {
			h.log.Warnw("refresh_failed", "err", err)
		}
		// the dashboard already shows the error sentinel
		h.respondWithDashboard(c, http.StatusBadGateway, statusFailed, gin.H{"error": errPullFailed, "detail": err.Error()})
	}
}

// @Summary      Toggle an output
// @Description  Sends one toggle command. The output is flipped optimistically and stays flipped even if the device fails; the next push or status snapshot settles it.
// @Tags         devices
// @Produce      json
// @Param        target  path  string  true  "Output"  Enums(lcd,speaker)
// @Success      200  {object}  map[string]interface{}  "status, target, dashboard"
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/devices/{target}/toggle [post]
func (h *Handler) toggleOutput(c *gin.Context) {
	target := models.Target(c.Param("target"))
	err := h.services.Commands.Toggle(c.Request.Context(), target)
	switch {
	case err == nil:
		h.respondWithDashboard(c, http.StatusOK, statusSent, gin.H{"target": target})
	case errors.Is(err, service.ErrUnknownTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": errUnknownTarget})
	case c.Request.Context().Err() != nil:
		h.logAndJSONError(c, http.StatusServiceUnavailable, errDeviceCanceled, "toggle_canceled", err, "target", target)
	default:
		if h.log != nil {
			h.log.Errorw("toggle_failed", "err", err, "target", target)
		}
		h.respondWithDashboard(c, http.StatusBadGateway, statusFailed, gin.H{"target": target, "error": errCommandFailed, "detail": err.Error()})
	}
}
