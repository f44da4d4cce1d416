// Package config loads service configuration from a YAML file, a .env file,
// and environment variables. Secrets (API keys, storage credentials) are
// never read from the YAML file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/filestore"
	"github.com/intellisql/intellisql/internal/llm"
	"github.com/intellisql/intellisql/internal/logger"
	"github.com/intellisql/intellisql/internal/query"
)

// Duration is a time.Duration that unmarshals from "30s"-style YAML strings.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Log       logger.Config    `yaml:"log"`
	LLM       llm.Config       `yaml:"llm"`
	Filestore filestore.Config `yaml:"filestore"`
	Query     QueryConfig      `yaml:"query"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// QueryConfig bounds query execution.
type QueryConfig struct {
	MaxRows int      `yaml:"max_rows"`
	Timeout Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(2 * time.Minute),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: logger.Config{
			Level:  "info",
			Format: "json",
		},
		Query: QueryConfig{
			MaxRows: query.DefaultMaxRows,
			Timeout: Duration(30 * time.Second),
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is empty, "config.yaml" is tried and silently skipped when absent),
// then environment variables. A .env file in the working directory is loaded
// first so env overrides work in development too.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // loads .env if present, silently ignores if not

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config file "+path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// no config file, defaults + env only
	default:
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file "+path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv layers environment variables over the file values. Secrets are
// env-only; the rest are optional overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	env := llm.ConfigFromEnv()
	if env.Provider != "" {
		cfg.LLM.Provider = env.Provider
	}
	if env.Model != "" {
		cfg.LLM.Model = env.Model
	}
	if env.BaseURL != "" {
		cfg.LLM.BaseURL = env.BaseURL
	}
	cfg.LLM.APIKey = env.APIKey

	if v := os.Getenv("FILESTORE_ENDPOINT"); v != "" {
		cfg.Filestore.Endpoint = v
	}
	if v := os.Getenv("FILESTORE_ACCESS_KEY"); v != "" {
		cfg.Filestore.AccessKey = v
	}
	if v := os.Getenv("FILESTORE_BUCKET"); v != "" {
		cfg.Filestore.Bucket = v
	}
	cfg.Filestore.SecretKey = os.Getenv("FILESTORE_SECRET_KEY")
}
