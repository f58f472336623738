package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"flightdelay/flights"
)

const testCSV = "Fecha-I,Vlo-I,Ori-I,Des-I,Emp-I,Fecha-O,Vlo-O,Ori-O,Des-O,Emp-O,DIA,MES,A\xd1O,DIANOM,TIPOVUELO,OPERA,SIGLAORI,SIGLADES\n" +
	"2017-07-01 10:00:00,226,SCEL,KMIA,AAL,2017-07-01 10:40:00,226,SCEL,KMIA,AAL,1,7,2017,Sabado,I,Grupo LATAM,Santiago,Miami\n" +
	"2017-12-05 08:00:00,101,SCEL,SCFA,SKU,2017-12-05 08:05:00,101,SCEL,SCFA,SKU,5,12,2017,Martes,N,Sky Airline,Santiago,Antofagasta\n" +
	"2017-03-10 09:00:00,55,SCEL,SCIE,LXP,2017-03-10 09:10:00,55,SCEL,SCIE,LXP,10,bad,2017,Viernes,N,Latin American Wings,Santiago,Concepcion\n" +
	"2017-03-11 09:00:00,56,SCEL,SCIE,LXP,2017-03-11 09:10:00,56,SCEL,SCIE,LXP,11,3,2017,Sabado,X,Latin American Wings,Santiago,Concepcion\n"

func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	// Latin-1 bytes on purpose; the reader must decode them.
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	records, stats, err := ReadCSV(writeTestCSV(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Read != 4 || stats.Kept != 2 || stats.Dropped != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Operator != flights.CarrierGrupoLATAM || records[0].Month != 7 || records[0].Type != flights.International {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].ScheduledDeparture != "2017-12-05 08:00:00" {
		t.Fatalf("scheduled departure not kept: %+v", records[1])
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("OPERA,MES\nGrupo LATAM,7\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := ReadCSV(path); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

type collectStorage struct {
	batches [][]flights.Record
}

func (c *collectStorage) SaveBatch(_ context.Context, records []flights.Record) error {
	batch := make([]flights.Record, len(records))
	copy(batch, records)
	c.batches = append(c.batches, batch)
	return nil
}

func TestIngestBatches(t *testing.T) {
	storage := &collectStorage{}
	stats, err := Ingest(context.Background(), writeTestCSV(t), storage, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Kept != 2 {
		t.Fatalf("expected 2 kept, got %d", stats.Kept)
	}
	if len(storage.batches) != 2 {
		t.Fatalf("expected 2 batches of size 1, got %d", len(storage.batches))
	}
}

func TestBuildTrainingSet(t *testing.T) {
	records := []flights.Record{
		{Operator: flights.CarrierGrupoLATAM, Type: flights.International, Month: 7,
			ScheduledDeparture: "2017-07-01 10:00:00", ActualDeparture: "2017-07-01 10:40:00"},
		{Operator: flights.CarrierSkyAirline, Type: flights.National, Month: 12,
			ScheduledDeparture: "2017-12-05 08:00:00", ActualDeparture: "2017-12-05 08:05:00"},
		{Operator: flights.CarrierSkyAirline, Type: flights.National, Month: 12,
			ScheduledDeparture: "garbage", ActualDeparture: "2017-12-05 08:05:00"},
	}
	set, err := BuildTrainingSet(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Features) != 3 || len(set.Labels) != 3 {
		t.Fatalf("unexpected set sizes: %d features, %d labels", len(set.Features), len(set.Labels))
	}
	if set.Labels[0] != 1 || set.Labels[1] != 0 || set.Labels[2] != 0 {
		t.Fatalf("unexpected labels: %v", set.Labels)
	}
	if set.UnparsedTimestamps != 1 {
		t.Fatalf("expected 1 unparsed row, got %d", set.UnparsedTimestamps)
	}

	if _, err := BuildTrainingSet(nil); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestSplit(t *testing.T) {
	set := TrainingSet{
		Features: [][]float64{{1}, {2}, {3}, {4}, {5}},
		Labels:   []int{1, 0, 1, 0, 1},
	}
	train, test := Split(set, 0.2)
	if len(train.Features) != 4 || len(test.Features) != 1 {
		t.Fatalf("unexpected split: %d/%d", len(train.Features), len(test.Features))
	}
	if test.Features[0][0] != 5 {
		t.Fatalf("expected tail split, got %v", test.Features)
	}
}
