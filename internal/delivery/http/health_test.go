package http

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/router"
)

type fakeStatus struct {
	state  router.State
	bot    bool
	reader bool
}

func (f fakeStatus) State() router.State   { return f.state }
func (f fakeStatus) BotConnected() bool    { return f.bot }
func (f fakeStatus) ReaderConnected() bool { return f.reader }

func serve(t *testing.T, status RouterStatus) (int, HealthResponse) {
	t.Helper()

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/health")

	NewHealthHandler(status, zerolog.Nop()).Handle(&ctx)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	return ctx.Response.StatusCode(), resp
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		status     fakeStatus
		wantCode   int
		wantStatus HealthStatus
	}{
		{
			name:       "running and connected",
			status:     fakeStatus{state: router.StateRunning, bot: true, reader: true},
			wantCode:   fasthttp.StatusOK,
			wantStatus: HealthStatusHealthy,
		},
		{
			name:       "reader dropped",
			status:     fakeStatus{state: router.StateRunning, bot: true},
			wantCode:   fasthttp.StatusServiceUnavailable,
			wantStatus: HealthStatusDegraded,
		},
		{
			name:       "starting",
			status:     fakeStatus{state: router.StateStarting, bot: true, reader: true},
			wantCode:   fasthttp.StatusServiceUnavailable,
			wantStatus: HealthStatusUnhealthy,
		},
		{
			name:       "stopped",
			status:     fakeStatus{state: router.StateStopped},
			wantCode:   fasthttp.StatusServiceUnavailable,
			wantStatus: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serve(t, tt.status)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Components, 3)
		})
	}
}

func TestHealthHandler_ComponentMessages(t *testing.T) {
	_, resp := serve(t, fakeStatus{state: router.StateRunning, bot: true})

	byName := map[string]ComponentHealth{}
	for _, c := range resp.Components {
		byName[c.Name] = c
	}

	assert.Equal(t, ComponentHealth{Name: "router", Healthy: true, Message: "running"}, byName["router"])
	assert.Equal(t, ComponentHealth{Name: "telegram_bot", Healthy: true}, byName["telegram_bot"])
	assert.Equal(t, ComponentHealth{Name: "telegram_reader", Healthy: false, Message: "not connected"}, byName["telegram_reader"])
}
