package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/relaxui/relax/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "relax.yaml"

	// DefaultTitle is the demo application's default title.
	DefaultTitle = "Todo"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7070"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "relax"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "relax"

	// DefaultLogLevel and DefaultLogFormat configure the default logger.
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config represents the complete relax.yaml configuration.
type Config struct {
	// App configures the demo application.
	App AppConfig `yaml:"app"`

	// Log configures the structured logger.
	Log LogConfig `yaml:"log"`

	// Inspector configures the live inspector server.
	Inspector InspectorConfig `yaml:"inspector"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `yaml:"tracing"`

	// path stores where the config was loaded from.
	path string
}

// AppConfig holds the demo application's initial data.
type AppConfig struct {
	// Title is shown in the list heading.
	Title string `yaml:"title,omitempty"`

	// Items are the initial todo entries.
	Items []string `yaml:"items,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`
}

// InspectorConfig configures the inspector HTTP server.
type InspectorConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `yaml:"metrics"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace,omitempty"`

	// RuntimeMetrics adds the Go runtime and process collectors.
	RuntimeMetrics bool `yaml:"runtime_metrics,omitempty"`

	// MutationLimit caps the host mutation log. Zero uses the inspector's
	// default.
	MutationLimit int `yaml:"mutation_limit,omitempty"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	// Enabled turns on spans around mounts, patches and scheduler jobs.
	Enabled bool `yaml:"enabled"`

	// TracerName names the tracer obtained from the global provider.
	TracerName string `yaml:"tracer_name,omitempty"`
}

// New returns a Config with every default applied.
func New() *Config {
	c := &Config{
		Inspector: InspectorConfig{Metrics: true},
	}
	c.applyDefaults()
	return c
}

// Load reads relax.yaml from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("cannot read " + path).
			Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes and validates configuration data. Unknown fields are errors.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration as YAML.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.FromError(err, errors.CodeConfigInvalid)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.CodeConfigInvalid).WithDetail("cannot write " + path).Wrap(err)
	}
	c.path = path
	return nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyDefaults() {
	if c.App.Title == "" {
		c.App.Title = DefaultTitle
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Inspector.Namespace == "" {
		c.Inspector.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	if c.Inspector.MutationLimit < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("inspector.mutation_limit %d", c.Inspector.MutationLimit).
			WithSuggestion("Use a positive limit, or 0 for the default")
	}
	if strings.ContainsAny(c.Inspector.Namespace, " -.") {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("inspector.namespace %q", c.Inspector.Namespace).
			WithSuggestion("Use letters, digits and underscores")
	}
	return nil
}

// SlogLevel returns the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level %q", l.Level).
			WithSuggestion("Use debug, info, warn or error")
	}
	return level, nil
}

// NewLogger builds a text or JSON slog logger writing to w. Invalid settings
// fall back to the defaults.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
