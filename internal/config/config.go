// Package config loads formpost settings with viper from, in rising order
// of precedence: defaults, $FORMPOST_HOME/config.yaml (or --config),
// FORMPOST_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/formpost/internal/credentials"
	"github.com/idilsaglam/formpost/internal/ui"
)

// EnvPrefix prefixes every environment variable viper reads.
const EnvPrefix = "FORMPOST"

// Config is the effective configuration after all sources are merged.
type Config struct {
	Endpoint      string        `mapstructure:"endpoint" yaml:"endpoint"`
	Theme         string        `mapstructure:"theme" yaml:"theme"`
	ToastDuration time.Duration `mapstructure:"toast_duration" yaml:"toast_duration"`
	Log           LogConfig     `mapstructure:"log" yaml:"log"`
}

// LogConfig controls where logs go and how verbose they are.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Options says where to look besides the defaults.
type Options struct {
	// File is an explicit config file; it must exist when set.
	File string
	// Flags are bound by name: theme, endpoint, log-file, log-level.
	Flags *pflag.FlagSet
}

var flagKeys = map[string]string{
	"theme":     "theme",
	"endpoint":  "endpoint",
	"log-file":  "log.file",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "")
	v.SetDefault("theme", ui.NameDark)
	v.SetDefault("toast_duration", 4*time.Second)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load resolves the effective configuration and validates it.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		home, err := credentials.HomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(home)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated and ranged values.
func (c *Config) Validate() error {
	if _, err := ui.ThemeByName(c.Theme); err != nil {
		return fmt.Errorf("config theme: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config log.level: %w", err)
	}
	if c.ToastDuration <= 0 {
		return fmt.Errorf("config toast_duration must be positive, got %s", c.ToastDuration)
	}
	return nil
}

// StartTheme is the theme the form opens with.
func (c *Config) StartTheme() ui.Theme {
	t, err := ui.ThemeByName(c.Theme)
	if err != nil {
		return ui.DarkTheme()
	}
	return t
}

// YAML renders the effective configuration.
func (c *Config) YAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(b), nil
}
