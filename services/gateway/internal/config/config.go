package config

import (
	"fmt"
	"time"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
)

type Config struct {
	Server    config.ServerConfig   `yaml:"server"`
	Logger    config.LoggerConfig   `yaml:"logger"`
	JWT       config.JWTConfig      `yaml:"jwt"`
	Metrics   config.MetricsConfig  `yaml:"metrics"`
	Redis     config.RedisConfig    `yaml:"redis"`
	Keycloak  config.KeycloakConfig `yaml:"keycloak"`
	Services  ServicesConfig        `yaml:"services"`
	RateLimit RateLimitConfig       `yaml:"rate_limit"`
	Users     UsersConfig           `yaml:"users"`
	// VendorName is shown as the company of vendor accounts
	VendorName string `yaml:"vendor_name"`
}

type ServicesConfig struct {
	License  config.APIConfig `yaml:"license"`
	Partner  config.APIConfig `yaml:"partner"`
	Product  config.APIConfig `yaml:"product"`
	Business config.APIConfig `yaml:"business"`
	Notice   config.APIConfig `yaml:"notice"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	MaxIdle           time.Duration `yaml:"max_idle"`
}

type UsersConfig struct {
	// LookupConcurrency bounds the per-user role and company lookups of a user list
	LookupConcurrency int `yaml:"lookup_concurrency"`
}

// Load reads defaults, then path, then .env, then the environment
func Load(path string) (*Config, error) {
	timeout := 10 * time.Second
	cfg := &Config{
		Server:  config.DefaultServer("8080", "/api"),
		Logger:  config.LoggerConfig{Level: "info"},
		Metrics: config.MetricsConfig{Namespace: "gateway", CollectInterval: 30 * time.Second},
		Keycloak: config.KeycloakConfig{
			Timeout: timeout,
		},
		Services: ServicesConfig{
			License:  config.APIConfig{BaseURL: "http://localhost:8081", Timeout: timeout},
			Partner:  config.APIConfig{BaseURL: "http://localhost:8082", Timeout: timeout},
			Product:  config.APIConfig{BaseURL: "http://localhost:8083", Timeout: timeout},
			Business: config.APIConfig{BaseURL: "http://localhost:8084", Timeout: timeout},
			Notice:   config.APIConfig{BaseURL: "http://localhost:8085", Timeout: timeout},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			CleanupInterval:   time.Minute,
			MaxIdle:           5 * time.Minute,
		},
		Users:      UsersConfig{LookupConcurrency: 8},
		VendorName: "ABLECLOUD",
	}

	if err := config.LoadFile(path, cfg); err != nil {
		return nil, err
	}
	config.LoadDotEnv()

	cfg.Server.ApplyEnv()
	cfg.Logger.ApplyEnv()
	cfg.JWT.ApplyEnv()
	cfg.Redis.ApplyEnv()
	cfg.Keycloak.ApplyEnv()
	cfg.Services.License.ApplyEnv("LICENSE_API_URL")
	cfg.Services.Partner.ApplyEnv("PARTNER_API_URL")
	cfg.Services.Product.ApplyEnv("PRODUCT_API_URL")
	cfg.Services.Business.ApplyEnv("BUSINESS_API_URL")
	cfg.Services.Notice.ApplyEnv("NOTICE_API_URL")
	config.String("VENDOR_NAME", &cfg.VendorName)
	config.Int("RATE_LIMIT_BURST", &cfg.RateLimit.Burst)
	config.Int("USER_LOOKUP_CONCURRENCY", &cfg.Users.LookupConcurrency)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the upstream and identity provider endpoints
func (c *Config) Validate() error {
	for name, api := range map[string]config.APIConfig{
		"license service":  c.Services.License,
		"partner service":  c.Services.Partner,
		"product service":  c.Services.Product,
		"business service": c.Services.Business,
		"notice service":   c.Services.Notice,
		"keycloak":         {BaseURL: c.Keycloak.BaseURL},
	} {
		if err := api.Validate(name); err != nil {
			return err
		}
	}
	if c.Keycloak.Realm == "" || c.Keycloak.ClientID == "" {
		return fmt.Errorf("keycloak realm and client id are required")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.Users.LookupConcurrency <= 0 {
		c.Users.LookupConcurrency = 1
	}
	return nil
}
