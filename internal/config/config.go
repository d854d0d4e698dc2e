// Package config loads calorix settings from an optional TOML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all calorix configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Photo   PhotoConfig   `toml:"photo"`
	Fasting FastingConfig `toml:"fasting"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the key-value backend.
// Driver is one of "postgres", "sqlite" or "memory".
type StoreConfig struct {
	Driver     string `toml:"driver"`
	DBURL      string `toml:"db_url,omitempty"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// PhotoConfig holds nutrient-estimation provider settings.
type PhotoConfig struct {
	OpenAIKey     string `toml:"openai_api_key,omitempty"`
	OpenAIBaseURL string `toml:"openai_base_url,omitempty"`
	Model         string `toml:"model"`
	// RekognitionGate runs AWS label detection before the estimator so images
	// without food are answered without a model call.
	RekognitionGate bool   `toml:"rekognition_gate"`
	AWSRegion       string `toml:"aws_region,omitempty"`
}

// FastingConfig tunes the background countdown.
type FastingConfig struct {
	TickSpec string `toml:"tick_spec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: "localhost:3000"},
		Store: StoreConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(DataDir(), "calorix.db"),
		},
		Photo: PhotoConfig{
			OpenAIBaseURL: "https://api.openai.com",
			Model:         "gpt-4o-mini",
		},
		Fasting: FastingConfig{TickSpec: "@every 1s"},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "calorix")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "calorix")
}

// DataDir returns the XDG-compliant data directory used for the SQLite file.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "calorix")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "calorix")
}

// ConfigPath returns the config file path. CALORIX_CONFIG overrides it.
func ConfigPath() string {
	if p := os.Getenv("CALORIX_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file (if any), then .env (if any), then applies
// environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "ADDR")
	setString(&cfg.Store.Driver, "STORE_DRIVER")
	setString(&cfg.Store.DBURL, "DB_URL")
	setString(&cfg.Store.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Photo.OpenAIKey, "OPENAI_API_KEY")
	setString(&cfg.Photo.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Photo.Model, "OPENAI_MODEL")
	setString(&cfg.Photo.AWSRegion, "AWS_REGION")
	setString(&cfg.Fasting.TickSpec, "FASTING_TICK_SPEC")

	if v := os.Getenv("REKOGNITION_GATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REKOGNITION_GATE %q: %w", v, err)
		}
		cfg.Photo.RekognitionGate = b
	}

	// DB_URL alone implies postgres, matching the old single-backend deploys.
	if os.Getenv("STORE_DRIVER") == "" && os.Getenv("DB_URL") != "" {
		cfg.Store.Driver = "postgres"
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(ConfigPath()), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
