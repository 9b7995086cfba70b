// Package emissions derives CO2e values from stored activity entries.
// Derivation happens on read; computed values are never stored back.
package emissions

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCategory is returned for categories with no factor table.
	ErrUnsupportedCategory = errors.New("no emission factors for category")
	// ErrUnknownActivityType is returned instead of propagating a NaN when
	// an entry names an activity the factor table does not cover.
	ErrUnknownActivityType = errors.New("unknown activity type")
)

// Entry is one stored activity line: what was consumed and how much.
type Entry struct {
	ActivityType string  `json:"activityType"`
	Amount       float64 `json:"amount"`
}

// Result is an entry with its derived CO2e value appended.
type Result struct {
	ActivityType string  `json:"activityType"`
	Amount       float64 `json:"amount"`
	CO2e         float64 `json:"co2e"`
}

// Factor returns the emission factor for one activity type in a category.
func Factor(category, activityType string) (float64, error) {
	table, ok := factorTables[category]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCategory, category)
	}
	factor, ok := table[activityType]
	if !ok {
		return 0, fmt.Errorf("%w: %q in category %s", ErrUnknownActivityType, activityType, category)
	}
	return factor, nil
}

// Compute derives CO2e = amount × factor for every entry. The whole batch
// fails on the first unknown activity type; partial results are never
// returned.
func Compute(category string, entries []Entry) ([]Result, error) {
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		factor, err := Factor(category, e.ActivityType)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{
			ActivityType: e.ActivityType,
			Amount:       e.Amount,
			CO2e:         e.Amount * factor,
		})
	}
	return results, nil
}

// Total sums the CO2e of a result set.
func Total(results []Result) float64 {
	var total float64
	for _, r := range results {
		total += r.CO2e
	}
	return total
}

// DecodeEntries extracts activity entries from a stored category sub-object.
// The data-entry forms write either {"entries": [...]} or a bare array; an
// empty or absent sub-object decodes to no entries.
func DecodeEntries(raw []byte) ([]Entry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var wrapped struct {
		Entries []Entry `json:"entries"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Entries, nil
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("category data is not a list of activity entries: %w", err)
	}
	return entries, nil
}
