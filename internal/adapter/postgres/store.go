// Package postgres implements the observation upsert store on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/weather-ingest-service/internal/config"
	"github.com/couchcryptid/weather-ingest-service/internal/domain"
)

// Store persists observations keyed by their timestamp.
// It implements ingest.ObservationStore.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects a pgx pool using the configured DSN.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// NewWithPool wraps an existing pool, used by integration tests.
func NewWithPool(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS observations (
	id SERIAL PRIMARY KEY,
	observed_at TIMESTAMP UNIQUE NOT NULL,
	observed_date DATE,
	precipitation_mm DOUBLE PRECISION,
	pressure_hpa DOUBLE PRECISION,
	radiation_kjm2 DOUBLE PRECISION,
	temperature_c DOUBLE PRECISION,
	humidity_pct DOUBLE PRECISION,
	wind_direction_deg DOUBLE PRECISION,
	wind_speed_ms DOUBLE PRECISION,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema creates the observations table if it does not exist yet.
// Called once at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("ensure observations table: %w", err)
	}
	return nil
}

const upsertSQL = `
INSERT INTO observations (
	observed_at, observed_date, precipitation_mm, pressure_hpa, radiation_kjm2,
	temperature_c, humidity_pct, wind_direction_deg, wind_speed_ms
) VALUES ($1, $1::date, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (observed_at) DO UPDATE SET
	precipitation_mm = EXCLUDED.precipitation_mm,
	pressure_hpa = EXCLUDED.pressure_hpa,
	radiation_kjm2 = EXCLUDED.radiation_kjm2,
	temperature_c = EXCLUDED.temperature_c,
	humidity_pct = EXCLUDED.humidity_pct,
	wind_direction_deg = EXCLUDED.wind_direction_deg,
	wind_speed_ms = EXCLUDED.wind_speed_ms`

// UpsertBatch writes all observations in a single transaction. A conflicting
// timestamp overwrites the measurement columns but keeps the original row id
// and created_at, so re-ingesting a file converges rather than duplicating.
// Any statement failure rolls back the whole batch.
func (s *Store) UpsertBatch(ctx context.Context, observations []domain.Observation) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	batch := &pgx.Batch{}
	for _, o := range observations {
		batch.Queue(upsertSQL,
			o.Timestamp,
			o.Precipitation,
			o.Pressure,
			o.Radiation,
			o.Temperature,
			o.Humidity,
			o.WindDirection,
			o.WindSpeed,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range observations {
		if _, err := results.Exec(); err != nil {
			results.Close() //nolint:errcheck // already failing
			return 0, fmt.Errorf("upsert observation: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close upsert batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit upsert tx: %w", err)
	}

	s.logger.Debug("batch upserted", "records", len(observations))
	return len(observations), nil
}

const statsSQL = `
SELECT
	COUNT(*),
	MIN(observed_at),
	MAX(observed_at),
	AVG(temperature_c),
	AVG(humidity_pct),
	AVG(pressure_hpa)
FROM observations`

// Stats returns the aggregate report over all stored observations.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := s.pool.QueryRow(ctx, statsSQL).Scan(
		&stats.TotalRecords,
		&stats.MinTimestamp,
		&stats.MaxTimestamp,
		&stats.AvgTemperature,
		&stats.AvgHumidity,
		&stats.AvgPressure,
	)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("query observation stats: %w", err)
	}
	return stats, nil
}
