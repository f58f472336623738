package ml

import (
	"errors"
	"testing"

	"flightdelay/flights"
)

func TestLogisticRegressionSeparable(t *testing.T) {
	// International flights delayed, national on time, heavily imbalanced so
	// the class weighting has to do real work.
	var features [][]float64
	var labels []int
	for i := 0; i < 180; i++ {
		features = append(features, EncodeRecord(flights.Record{
			Operator: flights.CarrierGrupoLATAM, Type: flights.National, Month: 3,
		}))
		labels = append(labels, 0)
	}
	for i := 0; i < 20; i++ {
		features = append(features, EncodeRecord(flights.Record{
			Operator: flights.CarrierGrupoLATAM, Type: flights.International, Month: 3,
		}))
		labels = append(labels, 1)
	}

	model := NewLogisticRegression()
	if err := model.Fit(features, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	held := EncodeRecord(flights.Record{Operator: flights.CarrierSkyAirline, Type: flights.International, Month: 8})
	label, prob, err := model.Predict(held)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 {
		t.Fatalf("expected delayed prediction, got %d (p=%f)", label, prob)
	}

	held = EncodeRecord(flights.Record{Operator: flights.CarrierSkyAirline, Type: flights.National, Month: 8})
	label, prob, err = model.Predict(held)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected on-time prediction, got %d (p=%f)", label, prob)
	}
}

func TestLogisticRegressionDeterministic(t *testing.T) {
	features := [][]float64{{1, 0}, {1, 0}, {0, 1}, {0, 1}, {1, 1}, {0, 0}}
	labels := []int{1, 1, 0, 0, 1, 0}

	a := NewLogisticRegression()
	b := NewLogisticRegression()
	if err := a.Fit(features, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Fit(features, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a.weights {
		if a.weights[i] != b.weights[i] {
			t.Fatalf("weights differ at %d: %v vs %v", i, a.weights, b.weights)
		}
	}
	if a.intercept != b.intercept {
		t.Fatalf("intercepts differ: %f vs %f", a.intercept, b.intercept)
	}
}

func TestLogisticRegressionInvalidInput(t *testing.T) {
	model := NewLogisticRegression()
	if err := model.Fit(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty set, got %v", err)
	}
	if err := model.Fit([][]float64{{1, 0}}, []int{0, 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for length mismatch, got %v", err)
	}
	if err := model.Fit([][]float64{{1, 0}, {1}}, []int{0, 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for ragged rows, got %v", err)
	}
	if err := model.Fit([][]float64{{1, 0}}, []int{2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-binary label, got %v", err)
	}
}

func TestLogisticRegressionSingleClass(t *testing.T) {
	// Degenerate but allowed: every sample weight is zero so the fit keeps
	// the zero parameters and predicts the majority (only) class threshold
	// side, which is 0.
	features := [][]float64{{1, 0}, {0, 1}, {1, 1}}
	labels := []int{0, 0, 0}

	model := NewLogisticRegression()
	if err := model.Fit(features, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, _, err := model.Predict([]float64{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected 0, got %d", label)
	}
}

func TestPredictUntrained(t *testing.T) {
	model := NewLogisticRegression()
	if _, _, err := model.Predict([]float64{1}); !errors.Is(err, ErrNotTrained) {
		t.Fatalf("expected ErrNotTrained, got %v", err)
	}
}
