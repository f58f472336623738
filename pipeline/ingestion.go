// Package pipeline loads the historical flights CSV and turns it into the
// training corpus.
package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"flightdelay/flights"
)

// Column names of the historical dataset. The file is Latin-1 encoded (it
// carries headers like AÑO), hence the charmap decode below.
const (
	colScheduled  = "Fecha-I"
	colActual     = "Fecha-O"
	colMonth      = "MES"
	colFlightType = "TIPOVUELO"
	colOperator   = "OPERA"
)

// IngestStats summarizes one CSV pass.
type IngestStats struct {
	Read    int `json:"read"`
	Kept    int `json:"kept"`
	Dropped int `json:"dropped"`
}

// FlightStorage receives cleaned batches; db.SaveFlights satisfies it.
type FlightStorage interface {
	SaveBatch(ctx context.Context, records []flights.Record) error
}

// Ingest streams the CSV at path into storage in batches of batchSize,
// dropping rows that fail cleaning.
func Ingest(ctx context.Context, path string, storage FlightStorage, batchSize int) (IngestStats, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	var stats IngestStats
	batch := make([]flights.Record, 0, batchSize)
	err := scanCSV(path, func(r flights.Record) error {
		stats.Read++
		if err := CleanRecord(r); err != nil {
			stats.Dropped++
			return nil
		}
		stats.Kept++
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := storage.SaveBatch(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	if len(batch) > 0 {
		if err := storage.SaveBatch(ctx, batch); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// ReadCSV loads and cleans the whole file into memory.
func ReadCSV(path string) ([]flights.Record, IngestStats, error) {
	var records []flights.Record
	var stats IngestStats
	err := scanCSV(path, func(r flights.Record) error {
		stats.Read++
		if err := CleanRecord(r); err != nil {
			stats.Dropped++
			return nil
		}
		stats.Kept++
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return records, stats, nil
}

func scanCSV(path string, visit func(flights.Record) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(transform.NewReader(file, charmap.ISO8859_1.NewDecoder()))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv row: %w", err)
		}
		if err := visit(recordFromRow(row, cols)); err != nil {
			return err
		}
	}
}

type columnIndex struct {
	scheduled, actual, month, flightType, operator int
}

func resolveColumns(header []string) (columnIndex, error) {
	lookup := make(map[string]int, len(header))
	for i, name := range header {
		lookup[strings.TrimSpace(name)] = i
	}
	cols := columnIndex{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{colScheduled, &cols.scheduled},
		{colActual, &cols.actual},
		{colMonth, &cols.month},
		{colFlightType, &cols.flightType},
		{colOperator, &cols.operator},
	} {
		idx, ok := lookup[want.name]
		if !ok {
			return cols, fmt.Errorf("csv missing column %q", want.name)
		}
		*want.dst = idx
	}
	return cols, nil
}

func recordFromRow(row []string, cols columnIndex) flights.Record {
	r := flights.Record{}
	if cols.operator < len(row) {
		r.Operator = strings.TrimSpace(row[cols.operator])
	}
	if cols.flightType < len(row) {
		r.Type = flights.FlightType(strings.TrimSpace(row[cols.flightType]))
	}
	if cols.month < len(row) {
		// A month that does not parse stays 0 and is dropped by cleaning.
		r.Month, _ = strconv.Atoi(strings.TrimSpace(row[cols.month]))
	}
	if cols.scheduled < len(row) {
		r.ScheduledDeparture = strings.TrimSpace(row[cols.scheduled])
	}
	if cols.actual < len(row) {
		r.ActualDeparture = strings.TrimSpace(row[cols.actual])
	}
	return r
}
