package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/observability"
	"github.com/couchcryptid/suntimes/internal/report"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 64 << 10

// ReportBuilder is the calculation surface the server exposes.
type ReportBuilder interface {
	Build(ctx context.Context, req report.Request) (report.Report, error)
	Cities() *cities.Table
}

// Server exposes the calculation API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	builder    ReportBuilder
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /calculate, /cities, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, builder ReportBuilder, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		builder: builder,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("POST /calculate", s.handleCalculatePost)
	mux.HandleFunc("GET /calculate", s.handleCalculateGet)
	mux.HandleFunc("GET /cities", s.handleCities)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer.Handler = s.instrument(mux)
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleCalculatePost(w http.ResponseWriter, r *http.Request) {
	var req report.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.metrics.Reports.WithLabelValues("http", "invalid").Inc()
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	s.calculate(w, r, req)
}

func (s *Server) handleCalculateGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.Request{
		City:     q.Get("city"),
		Name:     q.Get("name"),
		Date:     q.Get("date"),
		Range:    q.Get("range"),
		TimeZone: q.Get("tz"),
	}

	for _, p := range []struct {
		key string
		dst **float64
	}{
		{"lat", &req.Latitude},
		{"lon", &req.Longitude},
		{"zenith", &req.Zenith},
	} {
		v, ok, err := queryFloat(q.Get(p.key))
		if err != nil {
			s.metrics.Reports.WithLabelValues("http", "invalid").Inc()
			writeError(w, http.StatusBadRequest, "query parameter "+p.key+" must be a number")
			return
		}
		if ok {
			*p.dst = &v
		}
	}

	s.calculate(w, r, req)
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request, req report.Request) {
	rep, err := s.builder.Build(r.Context(), req)
	switch {
	case err == nil:
		s.metrics.Reports.WithLabelValues("http", "success").Inc()
		sharedobs.WriteJSON(w, http.StatusOK, rep)
	case report.IsInvalidInput(err):
		s.metrics.Reports.WithLabelValues("http", "invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.metrics.Reports.WithLabelValues("http", "error").Inc()
		s.logger.Error("calculation failed", "error", err, "request_id", w.Header().Get(requestIDHeader))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleCities(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.builder.Cities().All())
}

const requestIDHeader = "X-Request-ID"

// instrument tags each request with an ID and records its duration by route.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.logger.Debug("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func queryFloat(s string) (float64, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, errors.New("not a number")
	}
	return v, true, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
