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

	// BusinessAPI resolves business names on credit entries
	BusinessAPI config.APIConfig `yaml:"business_api"`
}

// Load reads defaults, then path, then .env, then the environment
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   config.DefaultServer("8082", ""),
		Database: config.DefaultDatabase("partner"),
		Logger:   config.LoggerConfig{Level: "info"},
		Metrics: config.MetricsConfig{
			Namespace:       "partner_service",
			CollectInterval: 30 * time.Second,
		},
		BusinessAPI: config.APIConfig{BaseURL: "http://localhost:8084", Timeout: 5 * time.Second},
	}

	if err := config.LoadFile(path, cfg); err != nil {
		return nil, err
	}
	config.LoadDotEnv()

	cfg.Server.ApplyEnv()
	cfg.Database.ApplyEnv()
	cfg.Logger.ApplyEnv()
	cfg.JWT.ApplyEnv()
	cfg.BusinessAPI.ApplyEnv("BUSINESS_API_URL")

	if err := cfg.BusinessAPI.Validate("business api"); err != nil {
		return nil, err
	}
	return cfg, nil
}
