package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/viper"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/codec"
)

const (
	// ConfigName is the base name of the configuration file. Any extension
	// viper understands is accepted (docroutes.yaml, docroutes.json, ...).
	ConfigName = "docroutes"

	// EnvPrefix prefixes environment overrides, e.g. DOCROUTES_SERVER_PORT.
	EnvPrefix = "DOCROUTES"

	// DefaultSource is where a Docusaurus build leaves its route table.
	DefaultSource = ".docusaurus/routes.js"

	// DefaultPort is the default API server port.
	DefaultPort = 3030

	// DefaultHost is the default API server host.
	DefaultHost = "localhost"

	// DefaultMaxSize bounds the size of a route table document.
	DefaultMaxSize = "32MiB"

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "docroutes"

	// DefaultTracerName is the OpenTelemetry instrumentation scope.
	DefaultTracerName = "github.com/vango-dev/docroutes"
)

// Config is the complete docroutes configuration.
type Config struct {
	// Source is the route table location: a path, file:// or s3:// URI.
	Source string `mapstructure:"source"`

	// Format forces a codec; "auto" infers it from the source name.
	Format string `mapstructure:"format"`

	// MaxSize is the largest accepted document, e.g. "32MiB".
	MaxSize string `mapstructure:"maxSize"`

	Server     ServerConfig   `mapstructure:"server"`
	Watch      WatchConfig    `mapstructure:"watch"`
	Match      MatchConfig    `mapstructure:"match"`
	Validation ValidateConfig `mapstructure:"validate"`
	Metrics    MetricsConfig  `mapstructure:"metrics"`
	Tracing    TracingConfig  `mapstructure:"tracing"`
	S3         S3Config       `mapstructure:"s3"`
	Log        LogConfig      `mapstructure:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Preview resolves every non-API path against the table.
	Preview bool `mapstructure:"preview"`

	// ShutdownTimeout is the grace period for in-flight requests.
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// WatchConfig controls live reloading.
type WatchConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Debounce coalesces bursts of file events.
	Debounce time.Duration `mapstructure:"debounce"`

	// Interval is the poll period for sources that cannot be watched.
	Interval time.Duration `mapstructure:"interval"`
}

// MatchConfig controls path matching.
type MatchConfig struct {
	Sensitive bool `mapstructure:"sensitive"`
}

// ValidateConfig relaxes validation.
type ValidateConfig struct {
	AllowMissingFallback bool `mapstructure:"allowMissingFallback"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	TracerName string `mapstructure:"tracerName"`
}

// S3Config configures the S3 client used for s3:// sources.
type S3Config struct {
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"usePathStyle"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// defaults lists every key with its default value. Keys must be known to
// viper for environment overrides to reach Unmarshal.
var defaults = map[string]any{
	"source":                        DefaultSource,
	"format":                        string(codec.FormatAuto),
	"maxSize":                       DefaultMaxSize,
	"server.host":                   DefaultHost,
	"server.port":                   DefaultPort,
	"server.preview":                false,
	"server.shutdownTimeout":        10 * time.Second,
	"watch.enabled":                 false,
	"watch.debounce":                250 * time.Millisecond,
	"watch.interval":                30 * time.Second,
	"match.sensitive":               false,
	"validate.allowMissingFallback": false,
	"metrics.enabled":               true,
	"metrics.namespace":             DefaultNamespace,
	"tracing.enabled":               false,
	"tracing.tracerName":            DefaultTracerName,
	"s3.region":                     "",
	"s3.endpoint":                   "",
	"s3.usePathStyle":               false,
	"log.level":                     "info",
	"log.format":                    "text",
}

// New creates a Config with default values.
func New() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration. An explicit path must exist; with an empty
// path the working directory and its parents are searched for a
// docroutes.* file, and defaults are used when none is found. Environment
// variables override both.
func Load(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.New("E101").Wrap(err)
		}
		root, err := FindProjectRoot(wd)
		if err != nil {
			return load(v)
		}
		path, _ = findIn(root)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("E101").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Create docroutes.yaml or drop --config to use defaults").
				Wrap(err)
		}
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			Wrap(err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	cfg, err := decode(v)
	if err != nil {
		return nil, errors.New("E102").WithDetail(err.Error()).Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()
	return cfg, nil
}

// Path returns the path where the config was loaded from, or "" when
// only defaults and the environment were used.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// SourcePath resolves a relative file source against the config
// directory. URIs are returned unchanged.
func (c *Config) SourcePath() string {
	src := c.Source
	if src == "" || src == "-" || strings.Contains(src, "://") || filepath.IsAbs(src) || c.configPath == "" {
		return src
	}
	return filepath.Join(c.Dir(), src)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("server.port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("E102").WithDetail("server.shutdownTimeout must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return errors.New("E102").WithDetail("watch.debounce must not be negative")
	}
	if c.Watch.Enabled && c.Watch.Interval <= 0 {
		return errors.New("E102").WithDetail("watch.interval must be positive when watching")
	}
	if _, err := codec.ParseFormat(c.Format); err != nil {
		return errors.New("E102").
			WithDetail(err.Error()).
			WithSuggestion("Use one of: " + strings.Join(formatNames(), ", "))
	}
	if _, err := c.MaxSizeBytes(); err != nil {
		return errors.New("E102").
			WithDetail(fmt.Sprintf("maxSize %q is not a size", c.MaxSize)).
			WithExample("maxSize: 32MiB")
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("E102").WithDetail(err.Error())
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E102").
			WithDetail(fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	return nil
}

func formatNames() []string {
	var names []string
	for _, f := range codec.Formats() {
		names = append(names, string(f))
	}
	return names
}

// MaxSizeBytes parses MaxSize with binary units ("32MiB", "512k").
func (c *Config) MaxSizeBytes() (int64, error) {
	if c.MaxSize == "" {
		return units.RAMInBytes(DefaultMaxSize)
	}
	return units.RAMInBytes(c.MaxSize)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// Exists reports whether dir holds a docroutes.* config file.
func Exists(dir string) bool {
	_, ok := findIn(dir)
	return ok
}

func findIn(dir string) (string, bool) {
	for _, ext := range viper.SupportedExts {
		path := filepath.Join(dir, ConfigName+"."+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// FindProjectRoot walks up from startDir to the directory holding a
// docroutes.* config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E101").
				WithDetail("No docroutes config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
