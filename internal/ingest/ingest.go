package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-ingest-service/internal/domain"
	"github.com/couchcryptid/weather-ingest-service/internal/observability"
)

// Error kinds surfaced to callers. Row-level parse failures are not errors;
// they appear as SkippedRows in the Result and in the rows_skipped metric.
var (
	// ErrEmptyInput means no valid records survived normalization; neither
	// sink was touched.
	ErrEmptyInput = errors.New("empty or invalid input")
	// ErrBlobStore means the raw-copy write failed; the batch was not upserted.
	ErrBlobStore = errors.New("blob store")
	// ErrUpsertStore means the batch upsert failed and was rolled back.
	ErrUpsertStore = errors.New("observation store")
)

// BlobStore persists the canonical serialization of one ingested file.
// Put overwrites idempotently on an identical key.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
}

// ObservationStore is the keyed relational sink. UpsertBatch applies the
// whole batch in one transaction: on a timestamp conflict all measurement
// columns are overwritten, and a mid-batch failure rolls everything back.
type ObservationStore interface {
	UpsertBatch(ctx context.Context, observations []domain.Observation) (int, error)
}

// Pinger is implemented by sink adapters that can verify connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Result summarizes one successful ingestion.
type Result struct {
	Filename    string
	ObjectKey   string
	Records     int
	SkippedRows int
	Start       time.Time
	End         time.Time
}

// Ingestor turns one uploaded station file into a blob-store object and an
// upserted observation batch. It holds no state between calls.
type Ingestor struct {
	blobs   BlobStore
	store   ObservationStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Ingestor with the given sinks and observability.
func New(blobs BlobStore, store ObservationStore, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	return &Ingestor{
		blobs:   blobs,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness pings every sink that supports it.
func (in *Ingestor) CheckReadiness(ctx context.Context) error {
	if p, ok := in.blobs.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("blob store not reachable: %w", err)
		}
	}
	if p, ok := in.store.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("observation store not reachable: %w", err)
		}
	}
	return nil
}

// Ingest normalizes raw file bytes and drives both sinks as one unit of work:
// the canonical CSV goes to the blob store first, then the batch is upserted.
// The two writes are not transactionally linked: an upsert failure leaves the
// blob in place. Re-ingesting the same file converges the store, so the
// window is not auto-reconciled.
func (in *Ingestor) Ingest(ctx context.Context, raw []byte, originalName string) (Result, error) {
	start := clock.Now()

	parsed, skipped, err := domain.ParseStationFile(bytes.NewReader(raw))
	if err != nil {
		in.metrics.IngestErrors.WithLabelValues("empty_input").Inc()
		return Result{}, fmt.Errorf("%w: %v", ErrEmptyInput, err)
	}
	if skipped > 0 {
		in.metrics.RowsSkipped.Add(float64(skipped))
		in.logger.Debug("rows dropped during normalization", "file", originalName, "rows", skipped)
	}

	observations := domain.DedupeSort(parsed)
	if len(observations) == 0 {
		in.metrics.IngestErrors.WithLabelValues("empty_input").Inc()
		return Result{}, fmt.Errorf("%w: %s has no valid data rows", ErrEmptyInput, originalName)
	}

	filename := derivedFilename(originalName, start)
	key := "raw/" + filename

	payload, err := domain.MarshalCSV(observations)
	if err != nil {
		return Result{}, fmt.Errorf("serialize canonical batch: %w", err)
	}
	if err := in.blobs.Put(ctx, key, payload); err != nil {
		in.metrics.IngestErrors.WithLabelValues("blob_store").Inc()
		return Result{}, fmt.Errorf("%w: put %s: %v", ErrBlobStore, key, err)
	}

	count, err := in.store.UpsertBatch(ctx, observations)
	if err != nil {
		in.metrics.IngestErrors.WithLabelValues("upsert_store").Inc()
		return Result{}, fmt.Errorf("%w: upsert batch of %d: %v", ErrUpsertStore, len(observations), err)
	}

	in.metrics.FilesIngested.Inc()
	in.metrics.RecordsUpserted.Add(float64(count))
	in.metrics.BatchRecords.Observe(float64(len(observations)))
	in.metrics.IngestDuration.Observe(clock.Since(start).Seconds())

	result := Result{
		Filename:    filename,
		ObjectKey:   key,
		Records:     len(observations),
		SkippedRows: skipped,
		Start:       observations[0].Timestamp,
		End:         observations[len(observations)-1].Timestamp,
	}
	in.logger.Info("file ingested",
		"file", originalName,
		"object", key,
		"records", result.Records,
		"skipped_rows", result.SkippedRows,
		"start", result.Start,
		"end", result.End,
	)
	return result, nil
}

// derivedFilename appends the second-precision ingestion timestamp so every
// upload of the same source file gets its own blob key. Two uploads of the
// same name within one second collide; that is accepted.
func derivedFilename(originalName string, ingestedAt time.Time) string {
	return fmt.Sprintf("%s_%s.csv", originalName, ingestedAt.UTC().Format("20060102_150405"))
}
