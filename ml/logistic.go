package ml

import (
	"fmt"
	"math"
)

const (
	defaultMaxIter = 1000
	defaultTol     = 1e-6
	defaultL2      = 1.0
	learningRate   = 0.5
)

// LogisticRegression is a binary linear classifier fit on a weighted
// cross-entropy loss with L2 regularization. Class weights are derived from
// the label counts at fit time (inverse frequency), so the decision threshold
// of 0.5 already accounts for label imbalance.
type LogisticRegression struct {
	weights   []float64
	intercept float64
	classes   [2]int

	maxIter int
	tol     float64
	l2      float64
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		maxIter: defaultMaxIter,
		tol:     defaultTol,
		l2:      defaultL2,
	}
}

// Fit trains the classifier with full-batch gradient descent. The update
// schedule is fixed and the weights start at zero, so a given dataset always
// produces the same parameters.
func (m *LogisticRegression) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return fmt.Errorf("%w: empty training set", ErrInvalidInput)
	}
	if len(features) != len(labels) {
		return fmt.Errorf("%w: %d feature rows but %d labels", ErrInvalidInput, len(features), len(labels))
	}
	width := len(features[0])
	if width == 0 {
		return fmt.Errorf("%w: empty feature vectors", ErrInvalidInput)
	}
	for i, row := range features {
		if len(row) != width {
			return fmt.Errorf("%w: feature row %d has width %d, want %d", ErrInvalidInput, i, len(row), width)
		}
	}
	for i, y := range labels {
		if y != 0 && y != 1 {
			return fmt.Errorf("%w: label %d at row %d, want 0 or 1", ErrInvalidInput, y, i)
		}
	}

	n := float64(len(labels))
	var n0, n1 float64
	for _, y := range labels {
		if y == 1 {
			n1++
		} else {
			n0++
		}
	}
	// Inverse-frequency class weights: the minority class weighs closer to 1.
	// With a single-class training set one weight is zero, every gradient
	// vanishes and the fit degenerates to the all-majority classifier.
	classWeight := [2]float64{n1 / n, n0 / n}

	sampleWeights := make([]float64, len(labels))
	sumW := 0.0
	for i, y := range labels {
		sampleWeights[i] = classWeight[y]
		sumW += sampleWeights[i]
	}
	if sumW == 0 {
		sumW = 1
	}

	weights := make([]float64, width)
	intercept := 0.0
	grad := make([]float64, width)

	for iter := 0; iter < m.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradB := 0.0
		for i, row := range features {
			p := sigmoid(dot(weights, row) + intercept)
			g := (p - float64(labels[i])) * sampleWeights[i]
			for j, x := range row {
				grad[j] += g * x
			}
			gradB += g
		}

		maxStep := 0.0
		for j := range weights {
			step := learningRate * (grad[j] + m.l2*weights[j]) / sumW
			weights[j] -= step
			if s := math.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		stepB := learningRate * gradB / sumW
		intercept -= stepB
		if s := math.Abs(stepB); s > maxStep {
			maxStep = s
		}

		if maxStep < m.tol {
			break
		}
	}

	m.weights = weights
	m.intercept = intercept
	m.classes = [2]int{0, 1}
	return nil
}

// Predict classifies one encoded flight, returning the label and the
// modeled delay probability.
func (m *LogisticRegression) Predict(features []float64) (int, float64, error) {
	if !m.Trained() {
		return 0, 0, ErrNotTrained
	}
	if len(features) != len(m.weights) {
		return 0, 0, fmt.Errorf("%w: feature vector has width %d, want %d", ErrInvalidInput, len(features), len(m.weights))
	}
	p := sigmoid(dot(m.weights, features) + m.intercept)
	if p > 0.5 {
		return m.classes[1], p, nil
	}
	return m.classes[0], p, nil
}

// Trained reports whether Fit (or a successful load) has populated the model.
func (m *LogisticRegression) Trained() bool {
	return m != nil && m.weights != nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
