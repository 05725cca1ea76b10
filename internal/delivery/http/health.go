// Package http exposes the relay health endpoint
package http

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/router"
)

// RouterStatus reports the state of the router and its connections
type RouterStatus interface {
	State() router.State
	BotConnected() bool
	ReaderConnected() bool
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler serves GET /health
type HealthHandler struct {
	status RouterStatus
	logger zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(status RouterStatus, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		status: status,
		logger: logger.With().Str("component", "health_handler").Logger(),
	}
}

// Handle writes the health report. Anything short of a running router with
// both connections ready is reported with 503.
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	resp := h.check()

	code := fasthttp.StatusOK
	if resp.Status != HealthStatusHealthy {
		code = fasthttp.StatusServiceUnavailable
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health response")
		ctx.Error("internal error", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(code)
	ctx.SetBody(body)
}

func (h *HealthHandler) check() HealthResponse {
	state := h.status.State()
	running := state == router.StateRunning

	components := []ComponentHealth{
		{Name: "router", Healthy: running, Message: state.String()},
		connectionHealth("telegram_bot", h.status.BotConnected()),
		connectionHealth("telegram_reader", h.status.ReaderConnected()),
	}

	healthy := 0
	for _, c := range components {
		if c.Healthy {
			healthy++
		}
	}

	status := HealthStatusDegraded
	switch {
	case !running:
		status = HealthStatusUnhealthy
	case healthy == len(components):
		status = HealthStatusHealthy
	}

	return HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}
}

func connectionHealth(name string, connected bool) ComponentHealth {
	c := ComponentHealth{Name: name, Healthy: connected}
	if !connected {
		c.Message = "not connected"
	}
	return c
}
