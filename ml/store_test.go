package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"flightdelay/flights"
)

func trainedTestModel(t *testing.T) *LogisticRegression {
	t.Helper()
	var features [][]float64
	var labels []int
	for month := 1; month <= 12; month++ {
		features = append(features, EncodeRecord(flights.Record{
			Operator: flights.CarrierGrupoLATAM, Type: flights.International, Month: month,
		}))
		labels = append(labels, 1)
		features = append(features, EncodeRecord(flights.Record{
			Operator: flights.CarrierCopaAir, Type: flights.National, Month: month,
		}))
		labels = append(labels, 0)
	}
	model := NewLogisticRegression()
	if err := model.Fit(features, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return model
}

func TestSaveLoadRoundTrip(t *testing.T) {
	model := trainedTestModel(t)
	path := filepath.Join(t.TempDir(), "models", "model.bin")
	if err := SaveModel(model, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inputs := []flights.Record{
		{Operator: flights.CarrierGrupoLATAM, Type: flights.International, Month: 7},
		{Operator: flights.CarrierSkyAirline, Type: flights.National, Month: 2},
		{Operator: flights.CarrierAerolineasArgentinas, Type: flights.International, Month: 12},
		{Operator: flights.CarrierLatinAmericanWings, Type: flights.National, Month: 10},
	}
	for _, r := range inputs {
		v := EncodeRecord(r)
		wantLabel, wantProb, err := model.Predict(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		gotLabel, gotProb, err := loaded.Predict(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotLabel != wantLabel || gotProb != wantProb {
			t.Fatalf("round-trip changed prediction for %+v: (%d,%v) vs (%d,%v)",
				r, wantLabel, wantProb, gotLabel, gotProb)
		}
	}
}

func TestSaveUntrained(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := SaveModel(NewLogisticRegression(), path); !errors.Is(err, ErrNotTrained) {
		t.Fatalf("expected ErrNotTrained, got %v", err)
	}
	if err := SaveModel(nil, path); !errors.Is(err, ErrNotTrained) {
		t.Fatalf("expected ErrNotTrained for nil model, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.bin"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := os.WriteFile(path, []byte("definitely not a model"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := LoadModel(path); !errors.Is(err, ErrCorruptArtifact) {
		t.Fatalf("expected ErrCorruptArtifact, got %v", err)
	}
}

func TestDecodeModelBytesCorrupt(t *testing.T) {
	if _, err := DecodeModelBytes([]byte{0x00, 0x01}); !errors.Is(err, ErrCorruptArtifact) {
		t.Fatalf("expected ErrCorruptArtifact, got %v", err)
	}
}
