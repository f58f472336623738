package ml

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// artifact is the persisted form of a trained classifier: exactly the
// parameters needed to reproduce predictions bit for bit. The format is
// internal to this package; there is no cross-version guarantee beyond the
// version check below.
type artifact struct {
	Version   int
	Weights   []float64
	Intercept float64
	Classes   [2]int
}

const artifactVersion = 1

// EncodeModel writes the trained classifier to w as a gob blob.
func EncodeModel(m *LogisticRegression, w io.Writer) error {
	if !m.Trained() {
		return ErrNotTrained
	}
	a := artifact{
		Version:   artifactVersion,
		Weights:   m.weights,
		Intercept: m.intercept,
		Classes:   m.classes,
	}
	if err := gob.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// DecodeModel reads a classifier back from a blob produced by EncodeModel.
func DecodeModel(r io.Reader) (*LogisticRegression, error) {
	var a artifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported artifact version %d", ErrCorruptArtifact, a.Version)
	}
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("%w: artifact has no weights", ErrCorruptArtifact)
	}
	m := NewLogisticRegression()
	m.weights = a.Weights
	m.intercept = a.Intercept
	m.classes = a.Classes
	return m, nil
}

// DecodeModelBytes is DecodeModel over an in-memory blob, e.g. a registry
// download.
func DecodeModelBytes(data []byte) (*LogisticRegression, error) {
	return DecodeModel(bytes.NewReader(data))
}

// SaveModel persists the classifier to path, creating parent directories.
func SaveModel(m *LogisticRegression, path string) error {
	if !m.Trained() {
		return ErrNotTrained
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := EncodeModel(m, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// LoadModel reads a classifier from path.
func LoadModel(path string) (*LogisticRegression, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return DecodeModelBytes(payload)
}
