package config

import (
	"fmt"
	"strings"
	"time"

	"sealgate/features"

	"github.com/spf13/viper"
)

// Config holds application configuration for the Sealgate gateway
type Config struct {
	// Service identification
	Service ServiceConfig `mapstructure:"service"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Backend API configuration
	Backend BackendConfig `mapstructure:"backend"`

	// Credential store configuration
	CredStore CredStoreConfig `mapstructure:"credstore"`

	// Envelope validation configuration
	Envelope EnvelopeConfig `mapstructure:"envelope"`

	// Security configuration
	Security SecurityConfig `mapstructure:"security"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Observability configuration
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServiceConfig identifies the service
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // dev, staging, production
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	GracefulStop time.Duration `mapstructure:"graceful_stop"`
}

// BackendConfig holds connection details for the SealShare backend API
type BackendConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LoginURL string        `mapstructure:"login_url"` // external login page opened by the openLogin action
	MailHost string        `mapstructure:"mail_host"` // host pattern for the attach-file tab relay
}

// CredStoreConfig selects and configures the credential store backend
type CredStoreConfig struct {
	Type     string              `mapstructure:"type"` // memory, file, redis, postgres
	File     FileStoreConfig     `mapstructure:"file"`
	Redis    RedisStoreConfig    `mapstructure:"redis"`
	Postgres PostgresStoreConfig `mapstructure:"postgres"`
}

// FileStoreConfig holds file-backed credential store settings
type FileStoreConfig struct {
	Path string `mapstructure:"path"`
}

// RedisStoreConfig holds Redis-specific settings
type RedisStoreConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// PostgresStoreConfig holds PostgreSQL connection settings
type PostgresStoreConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// EnvelopeConfig holds .seal validation settings
type EnvelopeConfig struct {
	Suffix       string `mapstructure:"suffix"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"`
	OpenPolicy   string `mapstructure:"open_policy"` // optional rego source gating the open action
}

// SecurityConfig holds security-related settings
type SecurityConfig struct {
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	RateLimiting   RateLimitConfig `mapstructure:"rate_limiting"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requests_per_min"`
	Burst          int  `mapstructure:"burst"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// ObservabilityConfig holds metrics and tracing settings
type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// MetricsConfig holds metrics export settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"` // Prometheus endpoint
	Path    string `mapstructure:"path"`
}

// TracingConfig holds distributed tracing settings
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Provider    string `mapstructure:"provider"` // otlp
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. Config file
// 3. Default values (lowest priority)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("sealgate")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/sealgate/")
		v.AddConfigPath("$HOME/.sealgate")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SEALGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	applyFeatureFlags(&cfg)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Service defaults
	v.SetDefault("service.name", "sealgate")
	v.SetDefault("service.version", "1.0.0")
	v.SetDefault("service.environment", "development")

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8777)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.graceful_stop", "30s")

	// Backend defaults
	v.SetDefault("backend.base_url", "https://api.sealshare.app")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.login_url", "https://sealshare.app/login")
	v.SetDefault("backend.mail_host", "mail.google.com")

	// Credential store defaults
	v.SetDefault("credstore.type", "file")
	v.SetDefault("credstore.file.path", "$HOME/.sealgate/credentials.json")
	v.SetDefault("credstore.redis.address", "localhost:6379")
	v.SetDefault("credstore.redis.db", 0)
	v.SetDefault("credstore.redis.key", "sealgate:credential")
	v.SetDefault("credstore.postgres.host", "localhost")
	v.SetDefault("credstore.postgres.port", 5432)
	v.SetDefault("credstore.postgres.database", "sealgate")
	v.SetDefault("credstore.postgres.user", "sealgate")
	v.SetDefault("credstore.postgres.sslmode", "disable")

	// Envelope defaults
	v.SetDefault("envelope.suffix", ".seal")
	v.SetDefault("envelope.max_size_bytes", 10*1024*1024)
	v.SetDefault("envelope.open_policy", "")

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{
		"https://sealshare.app",
		"http://localhost:3000",
	})
	v.SetDefault("security.rate_limiting.enabled", true)
	v.SetDefault("security.rate_limiting.requests_per_min", 100)
	v.SetDefault("security.rate_limiting.burst", 50)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Observability defaults
	v.SetDefault("observability.metrics.enabled", false)
	v.SetDefault("observability.metrics.address", ":9090")
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("observability.tracing.enabled", false)
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}

	switch cfg.CredStore.Type {
	case "memory":
	case "file":
		if cfg.CredStore.File.Path == "" {
			return fmt.Errorf("credstore.file.path is required when credstore.type is file")
		}
	case "redis":
		if cfg.CredStore.Redis.Address == "" {
			return fmt.Errorf("credstore.redis.address is required when credstore.type is redis")
		}
	case "postgres":
		if cfg.CredStore.Postgres.Host == "" || cfg.CredStore.Postgres.Database == "" {
			return fmt.Errorf("credstore.postgres.host and credstore.postgres.database are required when credstore.type is postgres")
		}
	default:
		return fmt.Errorf("credstore.type must be one of memory, file, redis, postgres")
	}

	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("security.allowed_origins must not be empty")
	}
	for _, origin := range cfg.Security.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("security.allowed_origins entry %q must be a full origin with scheme", origin)
		}
	}

	if cfg.Envelope.Suffix == "" || !strings.HasPrefix(cfg.Envelope.Suffix, ".") {
		return fmt.Errorf("envelope.suffix must be a file extension starting with a dot")
	}
	if cfg.Envelope.MaxSizeBytes <= 0 {
		return fmt.Errorf("envelope.max_size_bytes must be positive")
	}

	return nil
}

// GetPostgresURL constructs a database connection URL from the config
func (c *Config) GetPostgresURL() string {
	p := c.CredStore.Postgres
	if p.Host == "" {
		return ""
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Database,
		p.SSLMode,
	)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Service.Environment == "development" || c.Service.Environment == "dev"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Service.Environment == "production" || c.Service.Environment == "prod"
}

// MaskSensitive returns a copy of the config with sensitive values masked
func (c *Config) MaskSensitive() *Config {
	masked := *c
	masked.CredStore.Redis.Password = "***"
	masked.CredStore.Postgres.Password = "***"
	return &masked
}

// applyFeatureFlags applies build-time feature flags to override configuration
func applyFeatureFlags(cfg *Config) {
	if !features.ShouldEnableMetrics() {
		cfg.Observability.Metrics.Enabled = false
	}

	if !features.ShouldEnableObservability() {
		cfg.Observability.Tracing.Enabled = false
		cfg.Observability.Metrics.Enabled = false
	}

	if features.ShouldUseShortTimeouts() {
		cfg.Server.ReadTimeout = 5 * time.Second
		cfg.Server.WriteTimeout = 5 * time.Second
		cfg.Server.IdleTimeout = 30 * time.Second
		cfg.Server.GracefulStop = 5 * time.Second
		cfg.Backend.Timeout = 3 * time.Second
	}

	if features.ShouldEnableRateLimiting() {
		cfg.Security.RateLimiting.Enabled = true
	}
}
