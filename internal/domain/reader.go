package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const fieldSeparator = ";"

// ParseStationFile decodes a Latin-1 station export, skips the fixed
// preamble, maps the header row, and normalizes every data line. Records are
// returned in input order with duplicates intact; the second return value
// counts rows dropped because their timestamp could not be constructed.
//
// A file truncated before the header row is an error. Bad data rows are not:
// they only increment the dropped count.
func ParseStationFile(r io.Reader) ([]Observation, int, error) {
	scanner := bufio.NewScanner(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	scanner.Split(bufio.ScanLines)

	for i := 0; i < PreambleLines; i++ {
		if !scanner.Scan() {
			return nil, 0, fmt.Errorf("input ended inside the %d-line station preamble", PreambleLines)
		}
	}
	if !scanner.Scan() {
		return nil, 0, fmt.Errorf("input has no column header row")
	}
	mapping := MapHeader(strings.Split(scanner.Text(), fieldSeparator))

	var (
		observations []Observation
		dropped      int
	)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		row := MapRow(mapping, strings.Split(line, fieldSeparator))
		o, ok := NormalizeRow(row)
		if !ok {
			dropped++
			continue
		}
		observations = append(observations, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan station file: %w", err)
	}

	return observations, dropped, nil
}
