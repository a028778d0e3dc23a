package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/ai-intake/internal/call"
	httpmiddleware "github.com/wolfman30/ai-intake/internal/http/middleware"
	"github.com/wolfman30/ai-intake/internal/web"
	"github.com/wolfman30/ai-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	CallHandler        *call.Handler
	WebHandler         *web.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
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

	r.Get("/health", healthCheck)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.WebHandler != nil {
		r.Get("/", cfg.WebHandler.Index)
		r.Get("/static/*", cfg.WebHandler.Assets)
	}

	if cfg.CallHandler != nil {
		r.Group(func(calls chi.Router) {
			if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
				calls.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			}
			calls.Post("/call", cfg.CallHandler.InitiateCall)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
