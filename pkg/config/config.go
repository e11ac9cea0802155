package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"pfdb/pkg/ocr"
	"pfdb/pkg/parse"
)

// DefaultPath is read when no config file is named.
const DefaultPath = "pfdb.yaml"

// DevJWTSecret signs tokens when nothing else is configured. Never use it in production.
const DevJWTSecret = "dev-insecure-secret-change"

type Config struct {
	Parse    ParseConfig    `yaml:"parse"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Batch    BatchConfig    `yaml:"batch"`
	OCR      ocr.Layout     `yaml:"ocr"`
	Log      LogConfig      `yaml:"log"`
}

type ParseConfig struct {
	ToleratedInterWordSpaces int    `yaml:"toleratedInterWordSpaces"`
	ToleratedCorruptionSpan  int    `yaml:"toleratedCorruptionSpan"`
	CaseSensitive            bool   `yaml:"caseSensitive"`
	SignalMarker             string `yaml:"signalMarker"`
	Delimiters               string `yaml:"delimiters"`
}

type DatabaseConfig struct {
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"autoMigrate"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwtSecret"`
	// UploadDir receives screenshots posted to the capture endpoint.
	UploadDir string `yaml:"uploadDir"`
}

type BatchConfig struct {
	Workers  int           `yaml:"workers"`
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	p := parse.DefaultParams()
	return Config{
		Parse: ParseConfig{
			ToleratedInterWordSpaces: p.ToleratedInterWordSpaces,
			ToleratedCorruptionSpan:  p.ToleratedCorruptionSpan,
		},
		Database: DatabaseConfig{AutoMigrate: true},
		Server:   ServerConfig{Addr: ":8081", JWTSecret: DevJWTSecret, UploadDir: "uploads"},
		Batch:    BatchConfig{Workers: runtime.NumCPU(), Debounce: 500 * time.Millisecond},
		OCR:      ocr.DefaultLayout(),
		Log:      LogConfig{Level: "info"},
	}
}

// Load starts from Default, applies the YAML file at path if it exists and
// then the environment. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config yaml %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config yaml %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		switch strings.ToLower(v) {
		case "false", "0", "no":
			cfg.Database.AutoMigrate = false
		default:
			cfg.Database.AutoMigrate = true
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("PFDB_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		cfg.Server.UploadDir = v
	}
	if v := os.Getenv("PFDB_WORKERS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PFDB_WORKERS: %w", err)
		}
		cfg.Batch.Workers = n
	}
	if v := os.Getenv("PFDB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch workers must be >= 1, got %d", c.Batch.Workers)
	}
	if c.Batch.Debounce < 0 {
		return fmt.Errorf("batch debounce must be >= 0, got %s", c.Batch.Debounce)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return c.OCR.Validate()
}

// Params is the parser tuning described by the config.
func (c Config) Params() parse.Params {
	cmp := parse.IgnoreCase
	if c.Parse.CaseSensitive {
		cmp = parse.Ordinal
	}
	return parse.Params{
		ToleratedInterWordSpaces: c.Parse.ToleratedInterWordSpaces,
		ToleratedCorruptionSpan:  c.Parse.ToleratedCorruptionSpan,
		Comparison:               cmp,
		SignalMarker:             c.Parse.SignalMarker,
		Delimiters:               c.Parse.Delimiters,
	}
}

func (c Config) LogLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.Log.Level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}
