// Package api tickwire REST API
//
// @title           tickwire REST API
// @version         1.0.0
// @description     This is the REST API for tickwire, a market-data record archive.
// @host            localhost:9300
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// shutdownTimeout bounds the drain of in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Router assembles the chi router for the server: CORS, logging, metrics
// exposition, the authenticated /api/v1 routes and the swagger docs.
func Router(server *Server) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(requestLogger(server.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(server.config.APIKey, server.metrics))

		m := server.metrics
		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))
		r.Get("/records", m.InstrumentHandler("GET", "/api/v1/records", server.handleRecords))
		r.Get("/instruments", m.InstrumentHandler("GET", "/api/v1/instruments", server.handleInstruments))
		r.Get("/jobs", m.InstrumentHandler("GET", "/api/v1/jobs", server.handleJobs))
		r.Get("/stats", m.InstrumentHandler("GET", "/api/v1/stats", server.handleStats))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", serveSwagger)

	return r
}

// StartServer runs the HTTP server until ctx is cancelled, then drains
// in-flight requests and returns.
func StartServer(ctx context.Context, store RecordStore, config ServerConfig, log zerolog.Logger) error {
	if SwaggerInfo != nil {
		SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)
	}

	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(store, config, metrics, log)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Bind, config.Port),
		Handler:           Router(server),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Background archive-gauge updater, stopped with the server.
	updaterCtx, stopUpdater := context.WithCancel(ctx)
	defer stopUpdater()
	go server.startMetricsUpdater(updaterCtx)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("api server listening")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func serveSwagger(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/swagger/" || path == "/swagger/index.html" {
		// Serve the Swagger UI HTML
		w.Header().Set("Content-Type", "text/html")
		html := `<!DOCTYPE html>
<html>
<head>
	 <title>tickwire API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`
		w.Write([]byte(html))
		return
	}

	if path == "/swagger/swagger.json" {
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
		return
	}

	http.NotFound(w, r)
}
