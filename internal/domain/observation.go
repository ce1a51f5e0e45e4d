package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// RawRow is one data line of a station file after header mapping: canonical
// field name to raw cell value. Cells for columns missing from the file are
// simply absent.
type RawRow map[string]string

// Observation is the canonical record for one station-hour. Measurement
// fields are nil when the source cell was blank, a missing-value sentinel, or
// unparseable.
type Observation struct {
	Timestamp     time.Time
	Precipitation *float64 // mm
	Pressure      *float64 // hPa
	Radiation     *float64 // kJ/m²
	Temperature   *float64 // °C
	Humidity      *float64 // %
	WindDirection *float64 // degrees
	WindSpeed     *float64 // m/s
}

// Stats summarizes the stored observation set. Pointer fields are nil when
// the store is empty or no rows carry the averaged measurement.
type Stats struct {
	TotalRecords   int64
	MinTimestamp   *time.Time
	MaxTimestamp   *time.Time
	AvgTemperature *float64
	AvgHumidity    *float64
	AvgPressure    *float64
}

// CanonicalColumns is the header of the canonical CSV serialization, in
// output order.
var CanonicalColumns = []string{
	"timestamp",
	"precipitation_mm",
	"pressure_hpa",
	"radiation_kjm2",
	"temperature_c",
	"humidity_pct",
	"wind_direction_deg",
	"wind_speed_ms",
}

// MarshalCSV serializes observations into the canonical form stored in the
// blob store: comma-separated, period decimals, RFC 3339 UTC timestamps,
// empty cells for absent measurements.
func MarshalCSV(observations []Observation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CanonicalColumns); err != nil {
		return nil, fmt.Errorf("write canonical header: %w", err)
	}
	for _, o := range observations {
		row := []string{
			o.Timestamp.UTC().Format(time.RFC3339),
			formatMeasurement(o.Precipitation),
			formatMeasurement(o.Pressure),
			formatMeasurement(o.Radiation),
			formatMeasurement(o.Temperature),
			formatMeasurement(o.Humidity),
			formatMeasurement(o.WindDirection),
			formatMeasurement(o.WindSpeed),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write canonical row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush canonical csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatMeasurement(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
