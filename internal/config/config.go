// Package config loads localize settings from a config file, the environment
// and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/LegacyCodeHQ/localize/localize"
)

const (
	// FileName is the config file base name searched in the working directory.
	FileName = ".localize"
	// EnvPrefix prefixes environment overrides, e.g. LOCALIZE_MARKER.
	EnvPrefix = "LOCALIZE"
	// DotEnvFile is loaded from the working directory before reading the environment.
	DotEnvFile = ".env"
)

// Config keys.
const (
	KeyMarker      = "marker"
	KeyLayout      = "layout"
	KeyExternals   = "externals"
	KeyBuiltins    = "builtins"
	KeySourceMaps  = "source_maps"
	KeyConcurrency = "concurrency"
	KeyVerbose     = "verbose"
	KeyManifest    = "manifest"
)

// FlagConfig is the flag that selects an explicit config file.
const FlagConfig = "config"

// FlagKeys maps CLI flag names onto config keys.
var FlagKeys = map[string]string{
	"marker":      KeyMarker,
	"layout":      KeyLayout,
	"external":    KeyExternals,
	"builtin":     KeyBuiltins,
	"source-map":  KeySourceMaps,
	"concurrency": KeyConcurrency,
	"verbose":     KeyVerbose,
	"manifest":    KeyManifest,
}

// Config is the resolved configuration.
type Config struct {
	Marker      string   `mapstructure:"marker"`
	Layout      string   `mapstructure:"layout"`
	Externals   []string `mapstructure:"externals"`
	Builtins    []string `mapstructure:"builtins"`
	SourceMaps  bool     `mapstructure:"source_maps"`
	Concurrency int      `mapstructure:"concurrency"`
	Verbose     bool     `mapstructure:"verbose"`
	Manifest    bool     `mapstructure:"manifest"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Marker:    localize.DefaultMarker,
		Layout:    localize.LayoutResolved.String(),
		Externals: []string{},
		Builtins:  []string{},
		Manifest:  true,
	}
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an explicit config path. When empty, FileName with any
	// supported extension is looked up in Dir.
	ConfigFile string
	// Dir is the working directory. Defaults to the process working directory.
	Dir string
}

// New returns a viper instance with defaults and environment binding set up.
// Flags can be bound to it with BindFlags before calling Load.
func New() *viper.Viper {
	v := viper.New()

	defaults := Default()
	v.SetDefault(KeyMarker, defaults.Marker)
	v.SetDefault(KeyLayout, defaults.Layout)
	v.SetDefault(KeyExternals, defaults.Externals)
	v.SetDefault(KeyBuiltins, defaults.Builtins)
	v.SetDefault(KeySourceMaps, defaults.SourceMaps)
	v.SetDefault(KeyConcurrency, defaults.Concurrency)
	v.SetDefault(KeyVerbose, defaults.Verbose)
	v.SetDefault(KeyManifest, defaults.Manifest)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds command-line flags onto config keys. keys maps flag names to
// config keys; flags that are not defined on the set are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flagName, key := range keys {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", flagName, err)
		}
	}
	return nil
}

// FromFlags loads the configuration for a command: --config selects the file
// and every flag in FlagKeys overrides its key when set.
func FromFlags(flags *pflag.FlagSet) (*Config, error) {
	v := New()
	if err := BindFlags(v, flags, FlagKeys); err != nil {
		return nil, err
	}

	var opts LoadOptions
	if flag := flags.Lookup(FlagConfig); flag != nil {
		opts.ConfigFile = flag.Value.String()
	}
	return Load(v, opts)
}

// Load reads the .env file, the config file and the environment into a Config.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	if err := loadDotEnv(filepath.Join(dir, DotEnvFile)); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Externals = clean(cfg.Externals)
	cfg.Builtins = clean(cfg.Builtins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed as defaults.
func (c *Config) Validate() error {
	if c.Marker == "" || strings.ContainsAny(c.Marker, `/\`) {
		return fmt.Errorf("invalid marker %q: must be a single directory name", c.Marker)
	}
	if _, err := localize.ParseLayout(c.Layout); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency %d: must not be negative", c.Concurrency)
	}
	return nil
}

// LayoutValue returns the parsed layout. Call Validate first.
func (c *Config) LayoutValue() localize.Layout {
	layout, _ := localize.ParseLayout(c.Layout)
	return layout
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
