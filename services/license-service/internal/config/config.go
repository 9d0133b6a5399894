package config

import (
	"time"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
)

type Config struct {
	Server      config.ServerConfig   `yaml:"server"`
	Database    config.DatabaseConfig `yaml:"database"`
	Logger      config.LoggerConfig   `yaml:"logger"`
	JWT         config.JWTConfig      `yaml:"jwt"`
	Metrics     config.MetricsConfig  `yaml:"metrics"`
	ProductAPI  config.APIConfig      `yaml:"product_api"`
	BusinessAPI config.APIConfig      `yaml:"business_api"`
	Expiry      ExpiryConfig          `yaml:"expiry"`
}

// ExpiryConfig schedules the sweep that marks lapsed licenses expired
type ExpiryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Load reads defaults, then path, then .env, then the environment
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   config.DefaultServer("8081", ""),
		Database: config.DefaultDatabase("license"),
		Logger:   config.LoggerConfig{Level: "info"},
		Metrics: config.MetricsConfig{
			Namespace:       "license_service",
			CollectInterval: 30 * time.Second,
		},
		ProductAPI:  config.APIConfig{BaseURL: "http://localhost:8083", Timeout: 5 * time.Second},
		BusinessAPI: config.APIConfig{BaseURL: "http://localhost:8084", Timeout: 5 * time.Second},
		Expiry: ExpiryConfig{
			Enabled:  true,
			Schedule: "@daily",
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
	cfg.ProductAPI.ApplyEnv("PRODUCT_API_URL")
	cfg.BusinessAPI.ApplyEnv("BUSINESS_API_URL")
	config.Bool("LICENSE_EXPIRY_ENABLED", &cfg.Expiry.Enabled)
	config.String("LICENSE_EXPIRY_SCHEDULE", &cfg.Expiry.Schedule)

	if err := cfg.ProductAPI.Validate("product api"); err != nil {
		return nil, err
	}
	if err := cfg.BusinessAPI.Validate("business api"); err != nil {
		return nil, err
	}
	return cfg, nil
}
