package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medcompanion/medcompanion-ai/internal/chat"
	"github.com/medcompanion/medcompanion-ai/internal/http/handlers"
	"github.com/medcompanion/medcompanion-ai/internal/webchat"
)

type stubLLM struct{ reply string }

func (s *stubLLM) Complete(_ context.Context, _ chat.LLMRequest) (chat.LLMResponse, error) {
	return chat.LLMResponse{Text: s.reply}, nil
}

func newTestRouter(cfg *Config) http.Handler {
	sessions := chat.NewSessionManager(&stubLLM{reply: "ok"}, chat.EngineConfig{}, nil, nil)
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.ChatHandler == nil {
		cfg.ChatHandler = handlers.NewChatHandler(sessions, "test", nil)
	}
	if cfg.WebChatHandler == nil {
		cfg.WebChatHandler = webchat.NewHandler(sessions, nil)
	}
	return New(cfg)
}

func TestRouterRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newTestRouter(&Config{
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/api/chat", `{"message":"What is Metformin used for?"}`, http.StatusOK},
		{http.MethodPost, "/api/medication-info", `{"medication_name":"Metformin"}`, http.StatusOK},
		{http.MethodPost, "/api/clear-history", `{}`, http.StatusOK},
		{http.MethodGet, "/api/stats", "", http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{http.MethodGet, "/api/chat", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouterRateLimit(t *testing.T) {
	r := newTestRouter(&Config{
		RateLimitRPS:   0.001,
		RateLimitBurst: 1,
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"what is aspirin"}`))
		req.Header.Set("X-Real-Ip", "203.0.113.9")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	// Health stays outside the limiter.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	r := newTestRouter(&Config{
		CORSAllowedOrigins: []string{"https://medcompanion.example"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://medcompanion.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://medcompanion.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
