package config

import (
	"time"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
)

type Config struct {
	Server   config.ServerConfig   `yaml:"server"`
	Database config.DatabaseConfig `yaml:"database"`
	Logger   config.LoggerConfig   `yaml:"logger"`
	JWT      config.JWTConfig      `yaml:"jwt"`
	Metrics  config.MetricsConfig  `yaml:"metrics"`
}

// Load reads defaults, then path, then .env, then the environment
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   config.DefaultServer("8085", ""),
		Database: config.DefaultDatabase("notice"),
		Logger:   config.LoggerConfig{Level: "info"},
		Metrics: config.MetricsConfig{
			Namespace:       "notice_service",
			CollectInterval: 30 * time.Second,
		},
	}

	if err := config.LoadFile(path, cfg); err != nil {
		return nil, err
	}
	config.LoadDotEnv()

	cfg.Server.ApplyEnv()
	cfg.Database.ApplyEnv()
	cfg.Logger.ApplyEnv()
	cfg.JWT.ApplyEnv()
	return cfg, nil
}
