// Package config loads the service configuration from a yaml file with
// environment-variable overrides, so deployments can configure the registry
// without shipping a config file.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	HTTP struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Model struct {
		// Local artifact path; watched for hot reload.
		Path string `yaml:"path"`
		Name string `yaml:"name"`
	} `yaml:"model"`
	Registry struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"registry"`
	Log struct {
		Level string `yaml:"level"`
		Path  string `yaml:"path"`
	} `yaml:"log"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = 8080
	cfg.HTTP.TimeoutSeconds = 30
	cfg.HTTP.AllowedOrigins = []string{"*"}
	cfg.Database.Path = "./flights.db"
	cfg.Model.Path = "./models/model.bin"
	cfg.Model.Name = "flight-delay"
	cfg.Registry.Region = "us-east-1"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads path (optional: a missing file leaves defaults), then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		file, err := os.Open(path)
		if err == nil {
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = port
		}
	}
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Database.Path, "DATABASE_PATH")
	setString(&cfg.Model.Path, "MODEL_PATH")
	setString(&cfg.Model.Name, "MODEL_NAME")
	setString(&cfg.Registry.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Registry.Region, "S3_REGION")
	setString(&cfg.Registry.Bucket, "S3_BUCKET")
	setString(&cfg.Registry.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Registry.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Path, "LOG_PATH")
}
