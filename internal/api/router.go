// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/truthlens/truthlens/internal/analysis"
	"github.com/truthlens/truthlens/internal/config"
	"github.com/truthlens/truthlens/internal/database"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, svc *analysis.Service, store database.Store) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(svc, store)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(AuditMiddleware(store))
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			// Analysis endpoints
			r.Post("/analyze/image", handler.AnalyzeImage)
			r.Post("/analyze/voice", handler.AnalyzeVoice)
			r.Post("/analyze/article", handler.AnalyzeArticle)

			// Awareness and assistance
			r.Post("/templates", handler.GenerateTemplate)
			r.Get("/trending", handler.Trending)
			r.Post("/assistant", handler.Assistant)

			// History
			r.Get("/history", handler.ListHistory)
			r.Get("/history/{id}", handler.GetHistory)
		})
	})

	// Serve a simple landing page if enabled
	if cfg.Server.EnableUI {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>TruthLens - Misinformation Analysis</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #2563eb; }
        code { background: #f1f5f9; padding: 2px 6px; border-radius: 4px; }
        .endpoint { margin: 10px 0; }
    </style>
</head>
<body>
    <h1>TruthLens API</h1>
    <p>Misinformation analysis API is running. Use the API endpoints below:</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><code>GET /api/v1/health</code> - Health check</div>
    <div class="endpoint"><code>POST /api/v1/analyze/image</code> - Image authenticity analysis</div>
    <div class="endpoint"><code>POST /api/v1/analyze/voice</code> - Voice authenticity analysis</div>
    <div class="endpoint"><code>POST /api/v1/analyze/article</code> - Article fact-check (text or url)</div>
    <div class="endpoint"><code>POST /api/v1/templates</code> - Awareness template for a topic</div>
    <div class="endpoint"><code>GET /api/v1/trending</code> - Trending misinformation feed</div>
    <div class="endpoint"><code>POST /api/v1/assistant</code> - Ask the assistant</div>
    <div class="endpoint"><code>GET /api/v1/history</code> - List past analyses</div>
    <div class="endpoint"><code>GET /api/v1/history/{id}</code> - Get one past analysis</div>
</body>
</html>`))
		})
	}

	return r
}
