package domain

import "strings"

// PreambleLines is the fixed number of station metadata lines preceding the
// column header in an INMET export. The count comes from the file format,
// not from sniffing the content.
const PreambleLines = 8

// Canonical field names used as RawRow keys.
const (
	FieldDate          = "date"
	FieldHour          = "hour"
	FieldPrecipitation = "precipitation"
	FieldPressure      = "pressure"
	FieldRadiation     = "radiation"
	FieldTemperature   = "temperature"
	FieldHumidity      = "humidity"
	FieldWindDirection = "wind_direction"
	FieldWindSpeed     = "wind_speed"
)

// headerSynonyms maps known source column headers to canonical field names.
// INMET headers drifted across export vintages (accents, casing of the
// radiation unit), so each field lists every spelling seen in the wild.
var headerSynonyms = map[string]string{
	"Data":      FieldDate,
	"DATA":      FieldDate,
	"Hora UTC":  FieldHour,
	"HORA UTC":  FieldHour,
	"PRECIPITAÇÃO TOTAL, HORÁRIO (mm)":                        FieldPrecipitation,
	"PRECIPITACAO TOTAL, HORARIO (mm)":                        FieldPrecipitation,
	"PRESSAO ATMOSFERICA AO NIVEL DA ESTACAO, HORARIA (mB)":   FieldPressure,
	"RADIACAO GLOBAL (Kj/m²)":                                 FieldRadiation,
	"RADIACAO GLOBAL (KJ/m²)":                                 FieldRadiation,
	"TEMPERATURA DO AR - BULBO SECO, HORARIA (°C)":            FieldTemperature,
	"UMIDADE RELATIVA DO AR, HORARIA (%)":                     FieldHumidity,
	"VENTO, DIREÇÃO HORARIA (gr) (° (gr))":                    FieldWindDirection,
	"VENTO, DIRECAO HORARIA (gr) (° (gr))":                    FieldWindDirection,
	"VENTO, VELOCIDADE HORARIA (m/s)":                         FieldWindSpeed,
}

// MapHeader resolves a source header row to canonical field names by column
// index. Unknown columns are absent from the result and their cells are
// dropped; known columns missing from the header simply never appear in the
// mapped rows.
func MapHeader(columns []string) map[int]string {
	mapping := make(map[int]string, len(columns))
	for i, col := range columns {
		if field, ok := headerSynonyms[strings.TrimSpace(col)]; ok {
			mapping[i] = field
		}
	}
	return mapping
}

// MapRow applies a header mapping to one data line's cells.
func MapRow(mapping map[int]string, cells []string) RawRow {
	row := make(RawRow, len(mapping))
	for i, field := range mapping {
		if i < len(cells) {
			row[field] = cells[i]
		}
	}
	return row
}
