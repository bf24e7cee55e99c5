package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medcompanion/medcompanion-ai/internal/http/handlers"
	httpmiddleware "github.com/medcompanion/medcompanion-ai/internal/http/middleware"
	"github.com/medcompanion/medcompanion-ai/internal/webchat"
	"github.com/medcompanion/medcompanion-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *handlers.ChatHandler
	StaticHandler      *handlers.StaticHandler
	WebChatHandler     *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimitRPS limits chat API requests per IP; zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.ChatHandler.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimitRPS > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		api.Post("/chat", cfg.ChatHandler.Chat)
		api.Post("/medication-info", cfg.ChatHandler.MedicationInfo)
		api.Post("/clear-history", cfg.ChatHandler.ClearHistory)
		api.Get("/stats", cfg.ChatHandler.Stats)
	})

	if cfg.WebChatHandler != nil {
		r.Get("/webchat/ws", cfg.WebChatHandler.HandleWebSocket)
	}

	// Static website assets
	if cfg.StaticHandler != nil {
		r.Get("/", cfg.StaticHandler.Index)
		for _, prefix := range []string{"css", "js", "images"} {
			r.Handle("/"+prefix+"/*", cfg.StaticHandler.Assets(prefix))
		}
	}

	return r
}
