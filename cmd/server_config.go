package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Port           int
	DefaultQuantum int
	BodyLimit      int // bytes
	MaxProcesses   int
	MaxSteps       int   // events returned by the step endpoint
	MaxTicks       int64 // simulated ticks any one request may cost
}

// LoadServerConfig reads server settings from an optional YAML file and from
// CPUSIM_* environment variables. Environment values win over the file.
func LoadServerConfig(path string) (*ServerConfig, error) {
	v := viper.New()
	v.SetDefault("port", 9095)
	v.SetDefault("default_quantum", fallbackQuantum)
	v.SetDefault("body_limit", 1<<20)
	v.SetDefault("max_processes", 1000)
	v.SetDefault("max_steps", 10000)
	v.SetDefault("max_ticks", 1_000_000)
	v.SetEnvPrefix("CPUSIM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading server config %s: %w", path, err)
		}
	}

	cfg := &ServerConfig{
		Port:           v.GetInt("port"),
		DefaultQuantum: v.GetInt("default_quantum"),
		BodyLimit:      v.GetInt("body_limit"),
		MaxProcesses:   v.GetInt("max_processes"),
		MaxSteps:       v.GetInt("max_steps"),
		MaxTicks:       v.GetInt64("max_ticks"),
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port must be in [1, 65535], got %d", cfg.Port)
	}
	if cfg.DefaultQuantum < 1 {
		return nil, fmt.Errorf("default_quantum must be >= 1, got %d", cfg.DefaultQuantum)
	}
	if cfg.BodyLimit < 1 {
		return nil, fmt.Errorf("body_limit must be positive, got %d", cfg.BodyLimit)
	}
	if cfg.MaxProcesses < 1 {
		return nil, fmt.Errorf("max_processes must be positive, got %d", cfg.MaxProcesses)
	}
	if cfg.MaxSteps < 1 {
		return nil, fmt.Errorf("max_steps must be positive, got %d", cfg.MaxSteps)
	}
	if cfg.MaxTicks < 1 {
		return nil, fmt.Errorf("max_ticks must be positive, got %d", cfg.MaxTicks)
	}
	return cfg, nil
}
