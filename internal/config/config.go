package config

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/router"
)

const (
	// ConfigFileName is the base name of the configuration file. Load
	// tries it with each supported extension.
	ConfigFileName = "vroute"

	// DefaultListen is the default address of `vroute serve`.
	DefaultListen = "localhost:7070"

	// DefaultMaxHistory is the default number of memory history entries.
	DefaultMaxHistory = 1000

	// DefaultWSPath is the default websocket endpoint.
	DefaultWSPath = "/ws"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultPingInterval is the default websocket keepalive interval.
	DefaultPingInterval = "30s"

	// DefaultWriteTimeout is the default websocket write deadline.
	DefaultWriteTimeout = "10s"
)

// Extensions are the supported config file extensions, in lookup order.
var Extensions = []string{".json", ".toml", ".yaml", ".yml"}

// Mode selects how references are stored by the integration.
type Mode string

const (
	// ModePath stores plain paths.
	ModePath Mode = "path"

	// ModeHash renders hrefs as "#/path".
	ModeHash Mode = "hash"

	// ModeMemory keeps an in-process history stack.
	ModeMemory Mode = "memory"
)

// Config is the complete vroute configuration.
type Config struct {
	// Base is the router base path.
	Base string `json:"base,omitempty" toml:"base" yaml:"base,omitempty"`

	// Mode is the integration mode: path, hash or memory.
	Mode Mode `json:"mode,omitempty" toml:"mode" yaml:"mode,omitempty"`

	// MaxHistory caps memory history entries.
	MaxHistory int `json:"maxHistory,omitempty" toml:"max_history" yaml:"maxHistory,omitempty"`

	// Routes are declared on every router built from this config.
	Routes []router.RouteDef `json:"routes,omitempty" toml:"routes" yaml:"routes,omitempty"`

	// Server contains `vroute serve` settings.
	Server ServerConfig `json:"server,omitempty" toml:"server" yaml:"server,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics" yaml:"metrics,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty" toml:"log" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP and websocket settings.
type ServerConfig struct {
	// Listen is the address to bind.
	Listen string `json:"listen,omitempty" toml:"listen" yaml:"listen,omitempty"`

	// WSPath is the websocket endpoint path.
	WSPath string `json:"wsPath,omitempty" toml:"ws_path" yaml:"wsPath,omitempty"`

	// AllowedOrigins restricts websocket origins. Empty allows same-origin
	// requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" toml:"allowed_origins" yaml:"allowedOrigins,omitempty"`

	// PingInterval is the websocket keepalive interval (e.g. "30s").
	PingInterval string `json:"pingInterval,omitempty" toml:"ping_interval" yaml:"pingInterval,omitempty"`

	// WriteTimeout is the websocket write deadline (e.g. "10s").
	WriteTimeout string `json:"writeTimeout,omitempty" toml:"write_timeout" yaml:"writeTimeout,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics on Path.
	Enabled bool `json:"enabled,omitempty" toml:"enabled" yaml:"enabled,omitempty"`

	// Path is the metrics endpoint.
	Path string `json:"path,omitempty" toml:"path" yaml:"path,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" toml:"namespace" yaml:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" toml:"level" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" toml:"format" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Base:       "",
		Mode:       ModePath,
		MaxHistory: DefaultMaxHistory,
		Server: ServerConfig{
			Listen:       DefaultListen,
			WSPath:       DefaultWSPath,
			PingInterval: DefaultPingInterval,
			WriteTimeout: DefaultWriteTimeout,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: "vroute",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from dir, trying ConfigFileName with each
// of Extensions.
func Load(dir string) (*Config, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, ConfigFileName+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigRead).
		WithDetail("No " + ConfigFileName + ".{json,toml,yaml} found in " + dir).
		WithSuggestion("Create vroute.json or pass --config")
}

// LoadFile reads configuration from path. The format follows the
// extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigRead).
				WithInput(path).
				WithDetail("No config file at " + path)
		}
		return nil, errors.New(errors.CodeConfigRead).WithInput(path).Wrap(err)
	}

	cfg := New()
	if err := Decode(path, data, cfg); err != nil {
		return nil, err
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Decode unmarshals data into v using the format implied by path's
// extension.
func Decode(path string, data []byte, v any) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, v)
	case ".toml":
		_, err = toml.Decode(string(data), v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		return errors.New(errors.CodeConfigFormat).
			WithInput(path).
			WithDetail("Unsupported extension " + strconv.Quote(ext)).
			WithSuggestion("Use .json, .toml or .yaml")
	}
	if err != nil {
		return errors.New(errors.CodeConfigFormat).
			WithInput(path).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}
	return nil
}

// Encode marshals v in the format implied by path's extension.
func Encode(path string, v any) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.New(errors.CodeConfigFormat).Wrap(err)
		}
		return append(data, '\n'), nil
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, errors.New(errors.CodeConfigFormat).Wrap(err)
		}
		return buf.Bytes(), nil
	case ".yaml", ".yml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.New(errors.CodeConfigFormat).Wrap(err)
		}
		return data, nil
	default:
		return nil, errors.New(errors.CodeConfigFormat).
			WithInput(path).
			WithDetail("Unsupported extension " + strconv.Quote(ext))
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path in the format implied by its
// extension.
func (c *Config) SaveTo(path string) error {
	data, err := Encode(path, c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigRead).WithInput(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModePath
	}
	if c.MaxHistory == 0 {
		c.MaxHistory = DefaultMaxHistory
	}

	// Server
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.WSPath == "" {
		c.Server.WSPath = DefaultWSPath
	}
	if c.Server.PingInterval == "" {
		c.Server.PingInterval = DefaultPingInterval
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	// Metrics
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "vroute"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePath, ModeHash, ModeMemory:
	default:
		return invalid("mode", string(c.Mode), "Mode must be path, hash or memory")
	}
	if c.MaxHistory < 1 {
		return invalid("maxHistory", strconv.Itoa(c.MaxHistory), "MaxHistory must be at least 1")
	}
	if !strings.HasPrefix(c.Server.WSPath, "/") {
		return invalid("server.wsPath", c.Server.WSPath, "WSPath must start with /")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", c.Metrics.Path, "Metrics path must start with /")
	}
	for field, value := range map[string]string{
		"server.pingInterval": c.Server.PingInterval,
		"server.writeTimeout": c.Server.WriteTimeout,
	} {
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			return invalid(field, value, "Durations look like 30s or 1m")
		}
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return invalid("log.level", c.Log.Level, "Level must be debug, info, warn or error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format", c.Log.Format, "Format must be text or json")
	}
	if err := router.ValidateDefs(c.Base, c.Routes, router.Utils{}); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithInput("routes").
			WithDetail(err.Error()).
			Wrap(err)
	}
	return nil
}

func invalid(field, value, detail string) error {
	return errors.New(errors.CodeConfigInvalid).
		WithInput(field + "=" + value).
		WithDetail(detail)
}

// PingInterval returns Server.PingInterval as a duration.
func (c *Config) PingInterval() time.Duration {
	return duration(c.Server.PingInterval, DefaultPingInterval)
}

// WriteTimeout returns Server.WriteTimeout as a duration.
func (c *Config) WriteTimeout() time.Duration {
	return duration(c.Server.WriteTimeout, DefaultWriteTimeout)
}

func duration(value, fallback string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// Logger builds the logger described by Log.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, ext := range Extensions {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName+ext)); err == nil {
			return true
		}
	}
	return false
}
