package domain

import "sort"

// DedupeSort collapses observations sharing a timestamp and returns the
// result in ascending timestamp order. For duplicates, the last occurrence in
// input order wins; re-sending a corrected row later in a file therefore
// replaces the earlier one.
func DedupeSort(observations []Observation) []Observation {
	byTime := make(map[int64]Observation, len(observations))
	for _, o := range observations {
		byTime[o.Timestamp.Unix()] = o
	}

	out := make([]Observation, 0, len(byTime))
	for _, o := range byTime {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
