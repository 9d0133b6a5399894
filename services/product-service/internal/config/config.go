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
	S3       config.S3Config       `yaml:"s3"`
}

// StorageEnabled reports whether ISO downloads can be presigned
func (c *Config) StorageEnabled() bool {
	return c.S3.Bucket != ""
}

// Load reads defaults, then path, then .env, then the environment
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   config.DefaultServer("8083", ""),
		Database: config.DefaultDatabase("product"),
		Logger:   config.LoggerConfig{Level: "info"},
		Metrics: config.MetricsConfig{
			Namespace:       "product_service",
			CollectInterval: 30 * time.Second,
		},
		S3: config.S3Config{Region: "ap-northeast-2"},
	}

	if err := config.LoadFile(path, cfg); err != nil {
		return nil, err
	}
	config.LoadDotEnv()

	cfg.Server.ApplyEnv()
	cfg.Database.ApplyEnv()
	cfg.Logger.ApplyEnv()
	cfg.JWT.ApplyEnv()
	cfg.S3.ApplyEnv()
	return cfg, nil
}
