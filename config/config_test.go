package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("unexpected default port: %d", cfg.HTTP.Port)
	}
	if cfg.Model.Name != "flight-delay" {
		t.Fatalf("unexpected default model name: %s", cfg.Model.Name)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	payload := "http:\n  port: 9090\nregistry:\n  bucket: file-bucket\n"
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("S3_BUCKET", "env-bucket")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 7070 {
		t.Fatalf("env should override file: %d", cfg.HTTP.Port)
	}
	if cfg.Registry.Bucket != "env-bucket" {
		t.Fatalf("env should override file: %s", cfg.Registry.Bucket)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "./flights.db" {
		t.Fatalf("unexpected database path: %s", cfg.Database.Path)
	}
}
