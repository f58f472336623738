package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"flightdelay/flights"
)

var database *sql.DB

// InitDB initializes the SQLite database
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS flights (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        operator VARCHAR(60) NOT NULL,
        flight_type VARCHAR(1) NOT NULL,
        month INTEGER NOT NULL,
        scheduled_departure VARCHAR(19),
        actual_departure VARCHAR(19),
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        UNIQUE(operator, flight_type, scheduled_departure, actual_departure)
    );
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        operator VARCHAR(60) NOT NULL,
        flight_type VARCHAR(1) NOT NULL,
        month INTEGER NOT NULL,
        predicted_label INTEGER NOT NULL,
        timestamp DATETIME NOT NULL
    );
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_name VARCHAR(50),
        accuracy REAL,
        precision REAL,
        recall REAL,
        trained_at DATETIME,
        data_points INTEGER,
        delayed_points INTEGER,
        artifact_path TEXT
    );
    `

	_, err = database.Exec(query)
	return err
}

// Close closes the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// SaveFlights inserts a batch of historical flights inside one transaction.
// Duplicate rows are replaced, so re-ingesting a CSV is idempotent.
func SaveFlights(ctx context.Context, records []flights.Record) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
        INSERT OR REPLACE INTO flights (
            operator, flight_type, month, scheduled_departure, actual_departure
        ) VALUES (?, ?, ?, ?, ?)
    `)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Operator, string(r.Type), r.Month, r.ScheduledDeparture, r.ActualDeparture); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// FlightWriter adapts the package-level store to the pipeline's
// FlightStorage interface.
type FlightWriter struct{}

func (FlightWriter) SaveBatch(ctx context.Context, records []flights.Record) error {
	return SaveFlights(ctx, records)
}

// QueryFlights returns historical flights, newest first. limit <= 0 returns
// everything.
func QueryFlights(limit int) ([]flights.Record, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := database.Query(`
        SELECT operator, flight_type, month, scheduled_departure, actual_departure
        FROM flights
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []flights.Record
	for rows.Next() {
		var r flights.Record
		var ftype string
		if err := rows.Scan(&r.Operator, &ftype, &r.Month, &r.ScheduledDeparture, &r.ActualDeparture); err != nil {
			return nil, err
		}
		r.Type = flights.FlightType(ftype)
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountFlights returns the size of the stored training corpus.
func CountFlights() (int, error) {
	if database == nil {
		return 0, errors.New("database not initialized")
	}
	var count int
	err := database.QueryRow(`SELECT COUNT(*) FROM flights`).Scan(&count)
	return count, err
}

// SavePredictions logs served predictions for offline inspection.
func SavePredictions(records []flights.Record, predictions []int) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	if len(records) != len(predictions) {
		return errors.New("records/predictions length mismatch")
	}
	if len(records) == 0 {
		return nil
	}

	stmt, err := database.Prepare(`
        INSERT INTO predictions (operator, flight_type, month, predicted_label, timestamp)
        VALUES (?, ?, ?, ?, ?)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, r := range records {
		if _, err := stmt.Exec(r.Operator, string(r.Type), r.Month, predictions[i], now); err != nil {
			return err
		}
	}
	return nil
}

type TrainingRun struct {
	ModelName     string    `json:"model_name"`
	Accuracy      float64   `json:"accuracy"`
	Precision     float64   `json:"precision"`
	Recall        float64   `json:"recall"`
	TrainedAt     time.Time `json:"trained_at"`
	DataPoints    int       `json:"data_points"`
	DelayedPoints int       `json:"delayed_points"`
	ArtifactPath  string    `json:"artifact_path"`
}

// LogTrainingRun records the outcome of a training run.
func LogTrainingRun(run TrainingRun) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(`
        INSERT INTO training_log (
            model_name, accuracy, precision, recall, trained_at, data_points, delayed_points, artifact_path
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, run.ModelName, run.Accuracy, run.Precision, run.Recall, run.TrainedAt, run.DataPoints, run.DelayedPoints, run.ArtifactPath)
	return err
}

// LoadTrainingRuns returns past runs, newest first.
func LoadTrainingRuns() ([]TrainingRun, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	rows, err := database.Query(`
        SELECT model_name, accuracy, precision, recall, trained_at, data_points, delayed_points, artifact_path
        FROM training_log
        ORDER BY trained_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]TrainingRun, 0)
	for rows.Next() {
		var run TrainingRun
		if err := rows.Scan(&run.ModelName, &run.Accuracy, &run.Precision, &run.Recall,
			&run.TrainedAt, &run.DataPoints, &run.DelayedPoints, &run.ArtifactPath); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
