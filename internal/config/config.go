package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "SCRAPBOOK_CONFIG"

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Canvas   CanvasConfig   `yaml:"canvas"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Import   ImportConfig   `yaml:"import"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type StorageConfig struct {
	// Driver is one of sqlite, postgres, mysql, mongo.
	Driver string `yaml:"driver" default:"sqlite"`
	// DSN is the connection string. For sqlite an empty DSN means
	// <data_dir>/scrapbook.db.
	DSN     string `yaml:"dsn" default:""`
	DataDir string `yaml:"data_dir" default:""`
	// Database names the mongo database.
	Database string `yaml:"database" default:"scrapbook"`
}

type CanvasConfig struct {
	FlipDurationMS int     `yaml:"flip_duration_ms" default:"300"`
	DefaultTheme   string  `yaml:"default_theme" default:"vintage"`
	ViewportWidth  float64 `yaml:"viewport_width" default:"1280"`
}

type AutosaveConfig struct {
	Enabled  bool   `yaml:"enabled" default:"true"`
	Schedule string `yaml:"schedule" default:"@every 30s"`
}

type ImportConfig struct {
	// WatchDir, when set, is scanned for dropped *.json exports.
	WatchDir string `yaml:"watch_dir" default:""`
}

type ExportConfig struct {
	Title       string `yaml:"title" default:"My Digital Scrapbook"`
	PaperSize   string `yaml:"paper_size" default:"A4"`
	Orientation string `yaml:"orientation" default:"L"`
	Quality     string `yaml:"quality" default:"high"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type MCPConfig struct {
	// HTTPAddr, when set, makes the desktop app serve MCP over streamable
	// HTTP with destructive tools confirmed in the window.
	HTTPAddr string `yaml:"http_addr" default:""`
}

// Environment overrides, applied after the file. A .env file in the working
// directory is loaded into the environment by the entry points.
const (
	EnvStorageDriver = "SCRAPBOOK_STORAGE_DRIVER"
	EnvStorageDSN    = "SCRAPBOOK_STORAGE_DSN"
	EnvLogLevel      = "SCRAPBOOK_LOG_LEVEL"
	EnvMCPAddr       = "SCRAPBOOK_MCP_ADDR"
)

// FlipDuration returns the configured page flip transition length.
func (c CanvasConfig) FlipDuration() time.Duration {
	return time.Duration(c.FlipDurationMS) * time.Millisecond
}

// DefaultDataDir is ~/.local/share/scrapbook.
func DefaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "scrapbook")
}

// DefaultPath resolves the config file from the environment, falling back to
// scrapbook.yaml in the data directory.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(DefaultDataDir(), "scrapbook.yaml")
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config)

	if config.Storage.DataDir == "" {
		config.Storage.DataDir = DefaultDataDir()
	}
	if config.Storage.Driver == "sqlite" && config.Storage.DSN == "" {
		config.Storage.DSN = filepath.Join(config.Storage.DataDir, "scrapbook.db")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *Config) {
	for env, field := range map[string]*string{
		EnvStorageDriver: &config.Storage.Driver,
		EnvStorageDSN:    &config.Storage.DSN,
		EnvLogLevel:      &config.Logging.Level,
		EnvMCPAddr:       &config.MCP.HTTPAddr,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

var (
	validDrivers     = []string{"sqlite", "postgres", "mysql", "mongo"}
	validQualities   = []string{"high", "medium", "low"}
	validPaperSizes  = []string{"A3", "A4", "Letter"}
	validOrientation = []string{"P", "L"}
)

// Validate rejects values no component can honour.
func (c *Config) Validate() error {
	var errs []error
	if !oneOf(c.Storage.Driver, validDrivers) {
		errs = append(errs, fmt.Errorf("storage.driver %q: want one of %s", c.Storage.Driver, strings.Join(validDrivers, ", ")))
	}
	if c.Storage.Driver != "sqlite" && c.Storage.DSN == "" {
		errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
	}
	if c.Canvas.FlipDurationMS <= 0 {
		errs = append(errs, fmt.Errorf("canvas.flip_duration_ms must be positive, got %d", c.Canvas.FlipDurationMS))
	}
	if !oneOf(c.Export.Quality, validQualities) {
		errs = append(errs, fmt.Errorf("export.quality %q: want one of %s", c.Export.Quality, strings.Join(validQualities, ", ")))
	}
	if !oneOf(c.Export.PaperSize, validPaperSizes) {
		errs = append(errs, fmt.Errorf("export.paper_size %q: want one of %s", c.Export.PaperSize, strings.Join(validPaperSizes, ", ")))
	}
	if !oneOf(c.Export.Orientation, validOrientation) {
		errs = append(errs, fmt.Errorf("export.orientation %q: want P or L", c.Export.Orientation))
	}
	return errors.Join(errs...)
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
