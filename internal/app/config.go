package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/rbwchain/internal/adapters/out/secretfile"
	"github.com/bnema/rbwchain/internal/adapters/out/secrets"
	"github.com/bnema/rbwchain/pkg/duration"
)

// Config holds the application configuration.
type Config struct {
	Tool struct {
		Name    string   `mapstructure:"name"`
		Args    []string `mapstructure:"args"`
		Timeout string   `mapstructure:"timeout"` // e.g. "30s", "0" for none
	} `mapstructure:"tool"`

	TempFile struct {
		Dir     string `mapstructure:"dir"`
		Pattern string `mapstructure:"pattern"`
	} `mapstructure:"tempfile"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`

	Debug bool `mapstructure:"debug"`
}

// ToolTimeout parses Tool.Timeout. Zero means no deadline.
func (c Config) ToolTimeout() (time.Duration, error) {
	d, err := duration.Parse(c.Tool.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid tool.timeout: %w", err)
	}
	return d, nil
}

// initConfig loads configuration from defaults, the optional config file and
// RBWCHAIN_* environment variables.
func initConfig(configPath string) (Config, error) {
	v := viper.New()
	if err := loadConfig(v, configPath); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.TempFile.Dir == "" {
		cfg.TempFile.Dir = DefaultTempDir()
	}
	if _, err := cfg.ToolTimeout(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadConfig(v *viper.Viper, configPath string) error {
	v.SetDefault("tool.name", secrets.DefaultTool)
	v.SetDefault("tool.args", secrets.DefaultArgs)
	v.SetDefault("tool.timeout", "0")
	v.SetDefault("tempfile.dir", "") // defaults to $XDG_RUNTIME_DIR or the system temp dir
	v.SetDefault("tempfile.pattern", secretfile.DefaultPattern)
	v.SetDefault("logging.level", "error")
	v.SetDefault("logging.format", "text")
	v.SetDefault("debug", false)

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("RBWCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}
