package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006/01/02"
	combinedLayout = "2006-01-02 1504"
	hourSuffix     = "UTC"
)

// NormalizeRow converts one mapped row into an Observation. It returns false
// when the combined timestamp cannot be constructed; measurement cells never
// cause a row to be dropped.
func NormalizeRow(row RawRow) (Observation, bool) {
	ts, ok := parseTimestamp(row[FieldDate], row[FieldHour])
	if !ok {
		return Observation{}, false
	}

	return Observation{
		Timestamp:     ts,
		Precipitation: ParseMeasurement(row[FieldPrecipitation]),
		Pressure:      ParseMeasurement(row[FieldPressure]),
		Radiation:     ParseMeasurement(row[FieldRadiation]),
		Temperature:   ParseMeasurement(row[FieldTemperature]),
		Humidity:      ParseMeasurement(row[FieldHumidity]),
		WindDirection: ParseMeasurement(row[FieldWindDirection]),
		WindSpeed:     ParseMeasurement(row[FieldWindSpeed]),
	}, true
}

// parseTimestamp combines a YYYY/MM/DD date with an HHMM hour string into a
// single UTC instant. The hour string carries a trailing unit suffix and
// variable digit width ("0 UTC", "100 UTC", "2300 UTC").
func parseTimestamp(date, hour string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false
	}

	h := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(hour), hourSuffix))
	if h == "" || len(h) > 4 {
		return time.Time{}, false
	}
	h = strings.Repeat("0", 4-len(h)) + h

	ts, err := time.Parse(combinedLayout, d.Format("2006-01-02")+" "+h)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ParseMeasurement parses a decimal-comma measurement cell. Blank cells, the
// source sentinels "NaN" and "N/A", and unparseable values all mean the
// measurement is absent.
func ParseMeasurement(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "NaN" || cell == "N/A" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}
