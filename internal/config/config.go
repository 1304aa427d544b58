// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable billie reads.
const EnvPrefix = "BILLIE"

// DefaultAxeSource is where axe-core is fetched from when the page does not bundle it.
const DefaultAxeSource = "https://cdn.jsdelivr.net/npm/axe-core@4.10.2/axe.min.js"

// Config represents the CLI configuration. Values come from, in increasing
// priority: defaults, a config file, BILLIE_* environment variables, and
// explicitly set flags.
type Config struct {
	AxeSource      string        `mapstructure:"axe_source" json:"axe_source" validate:"required"`
	Headless       bool          `mapstructure:"headless" json:"headless"`
	Timeout        time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0"`
	ViewportWidth  int           `mapstructure:"viewport_width" json:"viewport_width" validate:"gte=320"`
	ViewportHeight int           `mapstructure:"viewport_height" json:"viewport_height" validate:"gte=200"`
	RunOnly        []string      `mapstructure:"run_only" json:"run_only,omitempty" validate:"dive,required"`
	LogLevel       string        `mapstructure:"log_level" json:"log_level" validate:"oneof=debug info warn warning error"`
	Format         string        `mapstructure:"format" json:"format" validate:"oneof=text json yaml"`
	FailOn         string        `mapstructure:"fail_on" json:"fail_on,omitempty" validate:"omitempty,oneof=minor moderate serious critical"`
	Concurrency    int           `mapstructure:"concurrency" json:"concurrency" validate:"gte=1,lte=32"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		AxeSource:      DefaultAxeSource,
		Headless:       true,
		Timeout:        30 * time.Second,
		ViewportWidth:  1280,
		ViewportHeight: 800,
		LogLevel:       "info",
		Format:         "text",
		Concurrency:    4,
	}
}

// Load builds the configuration. path names an explicit config file; when
// empty, BILLIE_CONFIG is consulted and then billie.{yaml,json} is searched
// for in the working directory and the user config directory. A missing
// file is only an error when it was named explicitly. Flags whose names
// match a key (dashes for underscores) override every other source when set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	configureConfigFile(v, path)
	if err := readConfigFile(v, path != ""); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var decoded Config
	if err := v.Unmarshal(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	// A key present but empty in the file (format: "", timeout: 0) means default.
	cfg := decoded.MergeWithDefaults(Default())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("axe_source", d.AxeSource)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("viewport_width", d.ViewportWidth)
	v.SetDefault("viewport_height", d.ViewportHeight)
	v.SetDefault("run_only", []string{})
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("format", d.Format)
	v.SetDefault("fail_on", d.FailOn)
	v.SetDefault("concurrency", d.Concurrency)
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("billie")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "billie"))
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	known := make(map[string]bool)
	for _, key := range v.AllKeys() {
		known[key] = true
	}
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !known[key] || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.AxeSource == "" {
		result.AxeSource = defaults.AxeSource
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.FailOn == "" {
		result.FailOn = defaults.FailOn
	}
	if len(result.RunOnly) == 0 {
		result.RunOnly = defaults.RunOnly
	}

	// Numeric fields: use default if zero
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.ViewportWidth == 0 {
		result.ViewportWidth = defaults.ViewportWidth
	}
	if result.ViewportHeight == 0 {
		result.ViewportHeight = defaults.ViewportHeight
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}
