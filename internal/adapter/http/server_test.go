package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/weather-ingest-service/internal/adapter/http"
	"github.com/couchcryptid/weather-ingest-service/internal/config"
	"github.com/couchcryptid/weather-ingest-service/internal/domain"
	"github.com/couchcryptid/weather-ingest-service/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockIngestService struct {
	result   ingest.Result
	err      error
	readyErr error

	gotName string
	gotRaw  []byte
}

func (m *mockIngestService) Ingest(_ context.Context, raw []byte, originalName string) (ingest.Result, error) {
	m.gotName = originalName
	m.gotRaw = raw
	if m.err != nil {
		return ingest.Result{}, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) CheckReadiness(_ context.Context) error { return m.readyErr }

type mockStatsSource struct {
	stats domain.Stats
	err   error
}

func (m *mockStatsSource) Stats(_ context.Context) (domain.Stats, error) {
	return m.stats, m.err
}

func newTestServer(svc *mockIngestService, stats *mockStatsSource) *httpadapter.Server {
	cfg := &config.Config{HTTPAddr: ":0", MaxUploadBytes: 1 << 20}
	return httpadapter.NewServer(cfg, svc, stats, slog.Default())
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadHappyPath(t *testing.T) {
	svc := &mockIngestService{result: ingest.Result{
		Filename:    "station.CSV_20240501_123045.csv",
		ObjectKey:   "raw/station.CSV_20240501_123045.csv",
		Records:     24,
		SkippedRows: 1,
		Start:       time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2021, 1, 1, 23, 0, 0, 0, time.UTC),
	}}
	srv := newTestServer(svc, &mockStatsSource{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartUpload(t, "station.CSV", []byte("raw bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "station.CSV", svc.gotName)
	assert.Equal(t, []byte("raw bytes"), svc.gotRaw)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "station.CSV_20240501_123045.csv", body["filename"])
	assert.Equal(t, "raw/station.CSV_20240501_123045.csv", body["object_name"])
	assert.Equal(t, float64(24), body["records"])
	assert.Equal(t, float64(1), body["skipped_rows"])
	dateRange := body["date_range"].(map[string]any)
	assert.Equal(t, "2021-01-01T00:00:00Z", dateRange["start"])
	assert.Equal(t, "2021-01-01T23:00:00Z", dateRange["end"])
}

func TestUploadMissingFileField(t *testing.T) {
	srv := newTestServer(&mockIngestService{}, &mockStatsSource{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("not multipart"))
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"empty input", fmt.Errorf("%w: no rows", ingest.ErrEmptyInput), http.StatusBadRequest, "empty_or_invalid_input"},
		{"blob store down", fmt.Errorf("%w: put raw/x: timeout", ingest.ErrBlobStore), http.StatusBadGateway, "blob_store_error"},
		{"upsert store down", fmt.Errorf("%w: tx aborted", ingest.ErrUpsertStore), http.StatusBadGateway, "upsert_store_error"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&mockIngestService{err: tt.err}, &mockStatsSource{})

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, multipartUpload(t, "x.CSV", []byte("data")))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body["error"])
		})
	}
}

func TestStats(t *testing.T) {
	minTS := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	maxTS := time.Date(2021, 12, 31, 23, 0, 0, 0, time.UTC)
	avgTemp := 25.6789
	avgHum := 82.1111
	srv := newTestServer(&mockIngestService{}, &mockStatsSource{stats: domain.Stats{
		TotalRecords:   8760,
		MinTimestamp:   &minTS,
		MaxTimestamp:   &maxTS,
		AvgTemperature: &avgTemp,
		AvgHumidity:    &avgHum,
	}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(8760), body["total_records"])

	dateRange := body["date_range"].(map[string]any)
	assert.Equal(t, "2021-01-01T00:00:00Z", dateRange["min"])
	assert.Equal(t, "2021-12-31T23:00:00Z", dateRange["max"])

	averages := body["averages"].(map[string]any)
	assert.Equal(t, 25.68, averages["temperature_c"])
	assert.Equal(t, 82.11, averages["humidity_pct"])
	assert.Nil(t, averages["pressure_hpa"])
}

func TestStatsEmptyStore(t *testing.T) {
	srv := newTestServer(&mockIngestService{}, &mockStatsSource{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["total_records"])
	dateRange := body["date_range"].(map[string]any)
	assert.Nil(t, dateRange["min"])
	assert.Nil(t, dateRange["max"])
}

func TestStatsStoreError(t *testing.T) {
	srv := newTestServer(&mockIngestService{}, &mockStatsSource{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockIngestService{}, &mockStatsSource{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(&mockIngestService{}, &mockStatsSource{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newTestServer(&mockIngestService{readyErr: errors.New("store down")}, &mockStatsSource{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body["status"])
		assert.Equal(t, "store down", body["error"])
	})
}

func TestRootBanner(t *testing.T) {
	srv := newTestServer(&mockIngestService{}, &mockStatsSource{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "weather-ingest-service", body["service"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockIngestService{}, &mockStatsSource{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
