package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCSV(t *testing.T) {
	observations := []Observation{
		{
			Timestamp:     time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			Precipitation: ptr(0),
			Pressure:      ptr(1013.2),
			Temperature:   ptr(26.4),
			Humidity:      ptr(87),
			WindDirection: ptr(120),
			WindSpeed:     ptr(2.3),
		},
		{
			Timestamp:   time.Date(2021, 1, 1, 1, 0, 0, 0, time.UTC),
			Temperature: ptr(26.1),
		},
	}

	out, err := MarshalCSV(observations)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(CanonicalColumns, ","), lines[0])
	assert.Equal(t, "2021-01-01T00:00:00Z,0,1013.2,,26.4,87,120,2.3", lines[1])
	assert.Equal(t, "2021-01-01T01:00:00Z,,,,26.1,,,", lines[2])

	// The canonical serialization never carries source locale artifacts.
	assert.NotContains(t, string(out), ";")
	assert.NotContains(t, lines[1], "1013,2")
}

func TestMarshalCSV_HeaderOnlyForEmptyInput(t *testing.T) {
	out, err := MarshalCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(CanonicalColumns, ",")+"\n", string(out))
}
