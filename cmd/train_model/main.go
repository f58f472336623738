package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"flightdelay/config"
	"flightdelay/db"
	"flightdelay/flights"
	"flightdelay/ml"
	"flightdelay/pipeline"
	"flightdelay/registry"
)

func main() {
	dataPath := flag.String("data", "", "historical flights CSV path")
	dbPath := flag.String("db", "", "optional sqlite path; when set, cleaned rows are persisted")
	modelPath := flag.String("model_path", "./models/model.bin", "model output path")
	testRatio := flag.Float64("test_ratio", 0.2, "held-out fraction for evaluation")
	upload := flag.Bool("upload", false, "upload the artifact to the model registry")
	configPath := flag.String("config", "config.yaml", "config file path (registry settings)")
	flag.Parse()

	if *dataPath == "" {
		log.Fatal("data is required")
	}

	var (
		records []flights.Record
		stats   pipeline.IngestStats
		err     error
	)
	if *dbPath != "" {
		// Stream the CSV into sqlite in batches, then train from the
		// stored corpus.
		if err := db.InitDB(*dbPath); err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		defer db.Close()
		stats, err = pipeline.Ingest(context.Background(), *dataPath, db.FlightWriter{}, 1000)
		if err != nil {
			log.Fatalf("failed to ingest data: %v", err)
		}
		records, err = db.QueryFlights(0)
		if err != nil {
			log.Fatalf("failed to read stored flights: %v", err)
		}
	} else {
		records, stats, err = pipeline.ReadCSV(*dataPath)
		if err != nil {
			log.Fatalf("failed to read data: %v", err)
		}
	}
	log.Printf("loaded %d rows (%d dropped by cleaning)", stats.Kept, stats.Dropped)

	set, err := pipeline.BuildTrainingSet(records)
	if err != nil {
		log.Fatalf("failed to build training set: %v", err)
	}
	if set.UnparsedTimestamps > 0 {
		log.Printf("warning: %d rows had unparseable departure timestamps and were labeled not delayed", set.UnparsedTimestamps)
	}

	delayed := 0
	for _, y := range set.Labels {
		delayed += y
	}
	log.Printf("class balance: %d delayed / %d total", delayed, len(set.Labels))
	if delayed == 0 || delayed == len(set.Labels) {
		log.Printf("warning: single-class training set, the fitted model is degenerate")
	}

	train, test := pipeline.Split(set, *testRatio)

	model := ml.NewLogisticRegression()
	if err := model.Fit(train.Features, train.Labels); err != nil {
		log.Fatalf("failed to train model: %v", err)
	}

	accuracy, precision, recall := evaluate(model, test.Features, test.Labels)
	log.Printf("accuracy=%.3f precision=%.3f recall=%.3f", accuracy, precision, recall)

	if err := ml.SaveModel(model, *modelPath); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}
	fmt.Printf("model saved to %s\n", *modelPath)

	if *dbPath != "" {
		run := db.TrainingRun{
			ModelName:     "flight-delay-model",
			Accuracy:      accuracy,
			Precision:     precision,
			Recall:        recall,
			TrainedAt:     time.Now().UTC(),
			DataPoints:    len(set.Labels),
			DelayedPoints: delayed,
			ArtifactPath:  *modelPath,
		}
		if err := db.LogTrainingRun(run); err != nil {
			log.Printf("failed to record training run: %v", err)
		}
	}

	if *upload {
		if err := uploadArtifact(*configPath, *modelPath); err != nil {
			log.Fatalf("failed to upload artifact: %v", err)
		}
	}
}

func evaluate(model *ml.LogisticRegression, testX [][]float64, testY []int) (accuracy, precision, recall float64) {
	if len(testX) == 0 {
		return 0, 0, 0
	}

	var correct, truePositive, predictedPositive, actualPositive int
	for i, features := range testX {
		label, _, err := model.Predict(features)
		if err != nil {
			continue
		}
		if label == testY[i] {
			correct++
		}
		if label == 1 {
			predictedPositive++
		}
		if testY[i] == 1 {
			actualPositive++
			if label == 1 {
				truePositive++
			}
		}
	}

	accuracy = float64(correct) / float64(len(testX))
	if predictedPositive > 0 {
		precision = float64(truePositive) / float64(predictedPositive)
	}
	if actualPositive > 0 {
		recall = float64(truePositive) / float64(actualPositive)
	}
	return accuracy, precision, recall
}

func uploadArtifact(configPath, modelPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	payload, err := os.ReadFile(modelPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reg, err := registry.New(ctx, registry.Config{
		Endpoint:  cfg.Registry.Endpoint,
		Region:    cfg.Registry.Region,
		Bucket:    cfg.Registry.Bucket,
		AccessKey: cfg.Registry.AccessKey,
		SecretKey: cfg.Registry.SecretKey,
		ModelName: cfg.Model.Name,
	})
	if err != nil {
		return err
	}
	key, err := reg.Upload(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Printf("artifact uploaded to s3://%s/%s\n", cfg.Registry.Bucket, key)
	return nil
}
