package pipeline

import (
	"fmt"

	"flightdelay/flights"
)

// CleanRecord rejects rows the training pipeline cannot use. Unlike serving
// validation, any non-empty operator passes: the historical corpus carries
// far more airlines than the five the API accepts, and the encoder maps them
// to the reference category.
func CleanRecord(r flights.Record) error {
	if r.Operator == "" {
		return fmt.Errorf("empty operator")
	}
	if r.Type != flights.International && r.Type != flights.National {
		return fmt.Errorf("invalid flight type %q", r.Type)
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("month %d out of range", r.Month)
	}
	return nil
}

// Clean filters a batch, returning the kept rows and the dropped count.
func Clean(records []flights.Record) ([]flights.Record, int) {
	kept := make([]flights.Record, 0, len(records))
	dropped := 0
	for _, r := range records {
		if CleanRecord(r) != nil {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}
