// Package http exposes the upload, reporting, and operational endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-ingest-service/internal/config"
	"github.com/couchcryptid/weather-ingest-service/internal/domain"
	"github.com/couchcryptid/weather-ingest-service/internal/ingest"
)

// IngestService accepts one uploaded file and reports sink readiness.
type IngestService interface {
	Ingest(ctx context.Context, raw []byte, originalName string) (ingest.Result, error)
	CheckReadiness(ctx context.Context) error
}

// StatsSource serves the aggregate report over stored observations.
type StatsSource interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// Server exposes upload, stats, health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer     *http.Server
	ingest         IngestService
	stats          StatsSource
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewServer builds the router and HTTP server.
func NewServer(cfg *config.Config, svc IngestService, stats StatsSource, logger *slog.Logger) *Server {
	s := &Server{
		ingest:         svc,
		stats:          stats,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "weather-ingest-service",
		"endpoints": map[string]string{
			"upload":  "/upload",
			"stats":   "/stats",
			"health":  "/healthz",
			"ready":   "/readyz",
			"metrics": "/metrics",
		},
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "multipart field 'file' is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "read upload: "+err.Error())
		return
	}

	result, err := s.ingest.Ingest(r.Context(), raw, header.Filename)
	if err != nil {
		status, kind := classifyIngestError(err)
		s.logger.Error("upload failed", "file", header.Filename, "kind", kind, "error", err)
		writeError(w, status, kind, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "file processed",
		"filename":     result.Filename,
		"object_name":  result.ObjectKey,
		"records":      result.Records,
		"skipped_rows": result.SkippedRows,
		"date_range": map[string]string{
			"start": result.Start.UTC().Format(time.RFC3339),
			"end":   result.End.UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats query failed", "error", err)
		writeError(w, http.StatusBadGateway, "upsert_store_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_records": stats.TotalRecords,
		"date_range": map[string]any{
			"min": formatTimestamp(stats.MinTimestamp),
			"max": formatTimestamp(stats.MaxTimestamp),
		},
		"averages": map[string]any{
			"temperature_c": round2(stats.AvgTemperature),
			"humidity_pct":  round2(stats.AvgHumidity),
			"pressure_hpa":  round2(stats.AvgPressure),
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ingest.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// classifyIngestError maps pipeline error kinds onto HTTP status codes.
func classifyIngestError(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrEmptyInput):
		return http.StatusBadRequest, "empty_or_invalid_input"
	case errors.Is(err, ingest.ErrBlobStore):
		return http.StatusBadGateway, "blob_store_error"
	case errors.Is(err, ingest.ErrUpsertStore):
		return http.StatusBadGateway, "upsert_store_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func formatTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func round2(v *float64) any {
	if v == nil {
		return nil
	}
	return math.Round(*v*100) / 100
}

func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, map[string]string{"error": kind, "detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
