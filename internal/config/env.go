package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Env holds WINHIDE_* environment overrides.
type Env struct {
	ConfigPath  string `envconfig:"CONFIG"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	Socket      string `envconfig:"SOCKET"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// LoadEnv reads the environment overrides.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("winhide", &env); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// ResolvePath returns the config file path, honoring WINHIDE_CONFIG.
func (e Env) ResolvePath() (string, error) {
	if e.ConfigPath != "" {
		return e.ConfigPath, nil
	}
	return DefaultConfigPath()
}
