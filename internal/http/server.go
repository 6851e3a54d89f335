// Package http exposes the cashbook as a JSON API. Handlers are thin: they
// parse the request, call a service, and render the result; every rule lives
// below the service layer.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"caja/internal/middleware/ratelimit"
	"caja/internal/middleware/security"
	"caja/internal/middleware/trace"
	"caja/internal/services"
)

type Server struct {
	http.Server

	weeks      *services.WeekService
	deliveries *services.DeliveryService

	tracer   *trace.Middleware
	limiter  *ratelimit.Limiter
	headers  *security.HeadersMiddleware
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, weeks *services.WeekService, deliveries *services.DeliveryService) *Server {
	detector := security.NewDetector()

	s := &Server{
		weeks:      weeks,
		deliveries: deliveries,
		tracer:     trace.NewMiddleware(detector.ExtractClientIP),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		headers:    security.NewHeadersMiddleware(security.APIHeadersConfig()),
		detector:   detector,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/week", s.handleGetWeek)
	mux.HandleFunc("POST /api/week/{day}/{list}", s.handleAddTransaction)
	mux.HandleFunc("PUT /api/week/{day}/{list}/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/week/{day}/{list}/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("PUT /api/week/{day}/opening", s.handleSetOpening)
	mux.HandleFunc("POST /api/week/reset", s.handleResetWeek)

	mux.HandleFunc("GET /api/history", s.handleGetHistory)
	mux.HandleFunc("POST /api/history/{id}/restore", s.handleRestore)

	mux.HandleFunc("GET /api/deliveries/{zone}/{date}", s.handleGetDeliveryDay)
	mux.HandleFunc("PUT /api/deliveries/{zone}/{date}", s.handleSaveDeliveryDay)

	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      s.headers.Middleware(s.tracer.Middleware(s.withGuards(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// withGuards throttles mutating requests per client IP and flags suspicious
// traffic. Reads stay unthrottled so dashboards can poll freely.
func (s *Server) withGuards(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request",
				"client_ip", s.detector.ExtractClientIP(r),
				"method", r.Method, "path", r.URL.Path)
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			ip := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(ip) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", ip, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the listener and the middleware cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
