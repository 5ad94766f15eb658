package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dshills/pyreview/internal/review"
)

// EnvPrefix is prepended to every environment override, e.g.
// PYREVIEW_MAX_LINE_LENGTH or PYREVIEW_NAMING_FUNCTION.
const EnvPrefix = "PYREVIEW"

// Config represents the pyreview configuration.
type Config struct {
	Format            string       `mapstructure:"format" yaml:"format" json:"format"`
	FailOn            string       `mapstructure:"fail_on" yaml:"fail_on" json:"failOn"`
	MaxLineLength     int          `mapstructure:"max_line_length" yaml:"max_line_length" json:"maxLineLength"`
	MaxFunctionLength int          `mapstructure:"max_function_length" yaml:"max_function_length" json:"maxFunctionLength"`
	Naming            NamingConfig `mapstructure:"naming" yaml:"naming" json:"naming"`
	Jobs              int          `mapstructure:"jobs" yaml:"jobs" json:"jobs"`
	Cache             CacheConfig  `mapstructure:"cache" yaml:"cache" json:"cache"`
}

// NamingConfig holds identifier patterns.
type NamingConfig struct {
	Function string `mapstructure:"function" yaml:"function" json:"function"`
	Variable string `mapstructure:"variable" yaml:"variable" json:"variable"`
	Constant string `mapstructure:"constant" yaml:"constant" json:"constant"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Dir        string `mapstructure:"dir" yaml:"dir,omitempty" json:"dir,omitempty"`
	TTLSeconds int    `mapstructure:"ttl_seconds" yaml:"ttl_seconds" json:"ttlSeconds"`
}

// Fail-on policies.
const (
	FailOnNone           = "none"
	FailOnRequestChanges = "request_changes"
)

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:            "text",
		FailOn:            FailOnRequestChanges,
		MaxLineLength:     review.DefaultMaxLineLength,
		MaxFunctionLength: review.DefaultMaxFunctionLength,
		Naming: NamingConfig{
			Function: review.SnakeCasePattern,
			Variable: review.SnakeCasePattern,
			Constant: review.UpperCasePattern,
		},
		Jobs: runtime.NumCPU(),
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
	}
}

// ReviewOptions converts the config into reviewer options.
func (c Config) ReviewOptions() review.Options {
	opts := review.DefaultOptions()
	opts.MaxLineLength = c.MaxLineLength
	opts.MaxFunctionLength = c.MaxFunctionLength
	opts.Naming = review.NamingPatterns{
		Function: c.Naming.Function,
		Variable: c.Naming.Variable,
		Constant: c.Naming.Constant,
	}
	return opts
}

// ConfigDir returns the platform-appropriate config directory for pyreview.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pyreview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "pyreview"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "pyreview"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "pyreview"), nil
	default:
		return filepath.Join(home, ".config", "pyreview"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// newViper returns a viper instance seeded with defaults and env bindings.
func newViper() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetDefault("format", d.Format)
	v.SetDefault("fail_on", d.FailOn)
	v.SetDefault("max_line_length", d.MaxLineLength)
	v.SetDefault("max_function_length", d.MaxFunctionLength)
	v.SetDefault("naming.function", d.Naming.Function)
	v.SetDefault("naming.variable", d.Naming.Variable)
	v.SetDefault("naming.constant", d.Naming.Constant)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl_seconds", d.Cache.TTLSeconds)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readFile loads the config file into v if it exists.
func readFile(v *viper.Viper) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	v := newViper()
	if err := readFile(v); err != nil {
		return Config{}, err
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if !isKnownKey(key) {
			return Config{}, fmt.Errorf("unknown config key: %s", key)
		}
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile loads only the config file on top of defaults, ignoring the
// environment. Used by `config set` so env values are not persisted.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values the reviewer cannot use.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json", "markdown", "sarif":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}
	switch c.FailOn {
	case FailOnNone, FailOnRequestChanges:
	default:
		return fmt.Errorf("fail_on must be %q or %q, got %q", FailOnNone, FailOnRequestChanges, c.FailOn)
	}
	if c.MaxLineLength <= 0 {
		return fmt.Errorf("max_line_length must be positive, got %d", c.MaxLineLength)
	}
	if c.MaxFunctionLength <= 0 {
		return fmt.Errorf("max_function_length must be positive, got %d", c.MaxFunctionLength)
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	return nil
}

var knownKeys = []string{
	"format", "fail_on", "max_line_length", "max_function_length",
	"naming.function", "naming.variable", "naming.constant",
	"jobs", "cache.enabled", "cache.dir", "cache.ttl_seconds",
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Keys returns the settable config keys.
func Keys() []string {
	out := make([]string, len(knownKeys))
	copy(out, knownKeys)
	return out
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = value
	case "fail_on":
		cfg.FailOn = value
	case "max_line_length":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_line_length must be an integer: %w", err)
		}
		cfg.MaxLineLength = n
	case "max_function_length":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_function_length must be an integer: %w", err)
		}
		cfg.MaxFunctionLength = n
	case "naming.function":
		cfg.Naming.Function = value
	case "naming.variable":
		cfg.Naming.Variable = value
	case "naming.constant":
		cfg.Naming.Constant = value
	case "jobs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("jobs must be an integer: %w", err)
		}
		cfg.Jobs = n
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttl_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttl_seconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return cfg.Validate()
}
