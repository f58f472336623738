package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"flightdelay/config"
	"flightdelay/db"
	qhttp "flightdelay/http"
	"flightdelay/logging"
	"flightdelay/ml"
	"flightdelay/monitoring"
	"flightdelay/registry"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		log.Fatalf("failed to init logging: %v", err)
	}
	defer logger.Sync()

	if err := db.InitDB(cfg.Database.Path); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database initialized", zap.String("path", cfg.Database.Path))

	svc := ml.NewService()
	loadModel(cfg, svc, logger)

	watcher, err := watchModel(cfg.Model.Path, svc, logger)
	if err != nil {
		logger.Warn("model hot reload disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("prediction service ready", zap.Bool("model_loaded", svc.Loaded()))

	stats := monitoring.NewStats()
	hub := monitoring.NewHub()
	go hub.Run(ctx)
	hub.StartBroadcast(ctx, stats, 5*time.Second)

	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Port = cfg.HTTP.Port
	serverConfig.Timeout = time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	serverConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	server := qhttp.NewServer(serverConfig, svc, stats, hub)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
}

// loadModel tries the registry first, then the local artifact path. Either
// failure leaves the service without a model: it serves default no-delay
// predictions rather than refusing traffic.
func loadModel(cfg *config.Config, svc *ml.Service, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Registry.Bucket != "" {
		reg, err := registry.New(ctx, registry.Config{
			Endpoint:  cfg.Registry.Endpoint,
			Region:    cfg.Registry.Region,
			Bucket:    cfg.Registry.Bucket,
			AccessKey: cfg.Registry.AccessKey,
			SecretKey: cfg.Registry.SecretKey,
			ModelName: cfg.Model.Name,
		})
		if err != nil {
			logger.Warn("registry unavailable", zap.Error(err))
		} else {
			payload, key, err := reg.DownloadLatest(ctx)
			if err != nil {
				logger.Warn("could not fetch model from registry", zap.Error(err))
			} else if model, err := ml.DecodeModelBytes(payload); err != nil {
				logger.Warn("registry artifact rejected", zap.String("key", key), zap.Error(err))
			} else {
				svc.SetModel(model, "s3://"+cfg.Registry.Bucket+"/"+key)
				logger.Info("model loaded from registry", zap.String("key", key))
				return
			}
		}
	}

	model, err := ml.LoadModel(cfg.Model.Path)
	if err != nil {
		logger.Warn("serving without a model, predictions default to no delay",
			zap.String("path", cfg.Model.Path), zap.Error(err))
		return
	}
	svc.SetModel(model, cfg.Model.Path)
	logger.Info("model loaded", zap.String("path", cfg.Model.Path))
}
