// Package app provides the application initialization and wiring.
package app

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultTempDir returns where secret files go when tempfile.dir is unset.
// $XDG_RUNTIME_DIR is preferred: it is per-user, mode 0700 and usually
// memory-backed.
func DefaultTempDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" && filepath.IsAbs(dir) {
		return dir
	}
	return os.TempDir()
}

// ConfigureViper sets up viper with standard config file search paths.
// Config file: config.{toml,yaml,json}
// Search paths (in order): $XDG_CONFIG_HOME/rbwchain, ~/.config/rbwchain
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.SetConfigName("config")
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		v.AddConfigPath(filepath.Join(dir, "rbwchain"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "rbwchain"))
	}
}
