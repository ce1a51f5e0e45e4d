// Package domain models hourly surface observations from INMET automatic
// weather stations.
//
// # Data Source
//
// Observations come from the INMET (Instituto Nacional de Meteorologia) yearly
// station CSV exports, e.g. INMET_NE_PE_A301_RECIFE_01-01-2021_A_31-12-2021.CSV.
// Files are Latin-1 encoded, use ";" as the field separator and a decimal
// comma, and open with an 8-line station preamble (region, station code,
// coordinates, altitude, founding date) before the column header row.
//
// # Source Conventions
//
// Date column:
//
//	YYYY/MM/DD, e.g. "2021/01/01".
//
// Hour column:
//
//	24-hour HHMM with a trailing " UTC" suffix and variable digit width:
//	"0 UTC" → 0000, "100 UTC" → 0100, "2300 UTC" → 2300.
//	Values are zero-padded to four digits before parsing; minutes are
//	embedded in the HHMM value.
//
// Measurement columns:
//
//	Decimal comma ("26,4" = 26.4). Blank cells, whitespace-only cells, "NaN"
//	and "N/A" are sentinels for a missing measurement. A missing measurement
//	is an absent field, never zero.
//
// Rows whose date or hour cannot be parsed are dropped during normalization
// rather than failing the file; callers receive a count of dropped rows.
//
// # Canonical Schema
//
// One [Observation] per station-hour: precipitation (mm), station-level
// pressure (hPa), global radiation (kJ/m²), dry-bulb temperature (°C),
// relative humidity (%), wind direction (°) and wind speed (m/s), keyed by
// the combined UTC timestamp. Duplicate timestamps within a file collapse to
// the last occurrence in input order, and [DedupeSort] emits records in
// ascending timestamp order.
package domain
