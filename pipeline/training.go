package pipeline

import (
	"fmt"

	"flightdelay/flights"
	"flightdelay/ml"
)

// TrainingSet is the encoded corpus handed to the trainer.
type TrainingSet struct {
	Features [][]float64
	Labels   []int

	// Rows whose departure timestamps did not parse; they carry label 0.
	UnparsedTimestamps int
}

// BuildTrainingSet encodes historical flights and derives their delay labels,
// preserving row order.
func BuildTrainingSet(records []flights.Record) (TrainingSet, error) {
	if len(records) == 0 {
		return TrainingSet{}, fmt.Errorf("%w: no training records", ml.ErrInvalidInput)
	}
	labels, unparsed := ml.GenerateLabels(records)
	return TrainingSet{
		Features:           ml.Encode(records),
		Labels:             labels,
		UnparsedTimestamps: unparsed,
	}, nil
}

// Split carves off the tail of the set for evaluation. The corpus is
// chronological, so a sequential split evaluates on the most recent flights.
func Split(set TrainingSet, testRatio float64) (train, test TrainingSet) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	cut := int(float64(len(set.Features)) * (1 - testRatio))
	train = TrainingSet{Features: set.Features[:cut], Labels: set.Labels[:cut]}
	test = TrainingSet{Features: set.Features[cut:], Labels: set.Labels[cut:]}
	return train, test
}
