// Package config holds the configuration sections shared by every service and
// the loader steps they run: defaults, YAML file, .env file, environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// GetDSN returns the postgres DSN, preferring an explicit URL
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// JWTConfig selects how bearer tokens are verified.
// PublicKey (PEM, RS256) is the identity provider realm key; Secret (HS256) is for local setups.
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	PublicKey string `yaml:"public_key"`
	Issuer    string `yaml:"issuer"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether a redis endpoint is configured
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Addr != ""
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// APIConfig points at a sibling HTTP service
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type KeycloakConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Realm        string        `yaml:"realm"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	Scope        string        `yaml:"scope"`
	Timeout      time.Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Namespace       string        `yaml:"namespace"`
	CollectInterval time.Duration `yaml:"collect_interval"`
}

// DefaultServer returns the server section defaults for a service
func DefaultServer(port, basePath string) ServerConfig {
	return ServerConfig{
		Port:            port,
		Mode:            "debug",
		BasePath:        basePath,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// DefaultDatabase returns the database section defaults
func DefaultDatabase(dbName string) DatabaseConfig {
	return DatabaseConfig{
		Host:            "localhost",
		Port:            "5432",
		User:            "postgres",
		DBName:          dbName,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		AutoMigrate:     true,
	}
}

// LoadFile unmarshals a YAML file into out. A missing file is not an error.
func LoadFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads .env into the process environment without overriding existing variables
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

func (s *ServerConfig) ApplyEnv() {
	String("PORT", &s.Port)
	String("GIN_MODE", &s.Mode)
	String("SERVER_BASE_PATH", &s.BasePath)
	Duration("SERVER_SHUTDOWN_TIMEOUT", &s.ShutdownTimeout)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		s.AllowedOrigins = splitList(origins)
	}
}

func (d *DatabaseConfig) ApplyEnv() {
	String("DATABASE_URL", &d.URL)
	String("DB_HOST", &d.Host)
	String("DB_PORT", &d.Port)
	String("DB_USER", &d.User)
	String("DB_PASSWORD", &d.Password)
	String("DB_NAME", &d.DBName)
	String("DB_SSLMODE", &d.SSLMode)
	Int("DB_MAX_OPEN_CONNS", &d.MaxOpenConns)
	Int("DB_MAX_IDLE_CONNS", &d.MaxIdleConns)
	Bool("DB_AUTO_MIGRATE", &d.AutoMigrate)
}

func (l *LoggerConfig) ApplyEnv() {
	String("LOG_LEVEL", &l.Level)
}

func (j *JWTConfig) ApplyEnv() {
	String("JWT_SECRET", &j.Secret)
	String("JWT_PUBLIC_KEY", &j.PublicKey)
	String("JWT_ISSUER", &j.Issuer)
}

func (r *RedisConfig) ApplyEnv() {
	String("REDIS_URL", &r.URL)
	String("REDIS_ADDR", &r.Addr)
	String("REDIS_PASSWORD", &r.Password)
	Int("REDIS_DB", &r.DB)
}

func (s *S3Config) ApplyEnv() {
	String("S3_BUCKET", &s.Bucket)
	String("S3_REGION", &s.Region)
	String("S3_ENDPOINT", &s.Endpoint)
	String("S3_ACCESS_KEY", &s.AccessKey)
	String("S3_SECRET_KEY", &s.SecretKey)
}

func (k *KeycloakConfig) ApplyEnv() {
	String("KEYCLOAK_API_URL", &k.BaseURL)
	String("KEYCLOAK_REALM", &k.Realm)
	String("CLIENT_ID", &k.ClientID)
	String("CLIENT_SECRET", &k.ClientSecret)
	String("SCOPE", &k.Scope)
}

// ApplyEnv overrides the base URL from the given variable
func (a *APIConfig) ApplyEnv(key string) {
	String(key, &a.BaseURL)
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")
}

// Validate checks that the base URL is absolute
func (a APIConfig) Validate(name string) error {
	if a.BaseURL == "" {
		return fmt.Errorf("%s base url is required", name)
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s base url is invalid: %q", name, a.BaseURL)
	}
	return nil
}

// String overrides dst when key is set
func String(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Int overrides dst when key is set to an integer
func Int(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Bool overrides dst when key is set to a boolean
func Bool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Duration overrides dst when key is set to a duration
func Duration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
