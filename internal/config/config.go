package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration options for the application
type Config struct {
	// Workspace root that patch paths are resolved against
	CWD string `mapstructure:"cwd"`

	// Patch application
	MaxFuzz int  `mapstructure:"max_fuzz"` // 0 disables the limit
	Confirm bool `mapstructure:"confirm"`  // Ask before applying

	// Logging configuration
	Debug   bool   `mapstructure:"debug"`    // Enable debug logging
	Verbose bool   `mapstructure:"verbose"`  // Log to stderr
	LogFile string `mapstructure:"log_file"` // Path to log file
}

const (
	// Default configuration values
	DefaultMaxFuzz    = 0
	DefaultConfigDir  = ".codex"
	DefaultConfigName = "apply_patch"
	EnvPrefix         = "APPLY_PATCH"
)

// Load loads configuration from the config file and environment variables
func Load() (*Config, error) {
	config := &Config{
		MaxFuzz: DefaultMaxFuzz,
		CWD:     getWorkingDirectory(),
	}

	v := viper.New()
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(getConfigDir())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about
	for key, value := range map[string]interface{}{
		"cwd":      config.CWD,
		"max_fuzz": config.MaxFuzz,
		"confirm":  false,
		"debug":    false,
		"verbose":  false,
		"log_file": "",
	} {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.MaxFuzz < 0 {
		return nil, fmt.Errorf("max_fuzz must not be negative, got %d", config.MaxFuzz)
	}

	return config, nil
}

// ConfigFile returns the path Load reads the config file from.
func ConfigFile() string {
	return filepath.Join(getConfigDir(), DefaultConfigName+".yaml")
}

// getConfigDir returns the path to the config directory
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, DefaultConfigDir)
}

// getWorkingDirectory returns the current working directory
func getWorkingDirectory() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
