package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rentlens/internal/policy"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	CORS      CORSConfig
	Queue     QueueConfig
	Auth      AuthConfig
	Extractor ExtractorConfig
	Policy    PolicyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// AuthConfig holds API authentication settings. Requests to protected routes
// must present one of the configured keys.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// ExtractorProviderConfig holds settings for a single LLM extractor provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds LLM listing extractor settings with fallback support.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary extractor provider config, or nil if
// not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// PolicyConfig holds validation policy overrides. Zero-valued fields never
// reach the validators: Load fills every field with the standard defaults
// before applying env overrides.
type PolicyConfig struct {
	ConfidenceWarn  float64 `mapstructure:"confidence_warn"`
	ConfidenceError float64 `mapstructure:"confidence_error"`
	MinPrice        int     `mapstructure:"min_price"`
	PriceBaseMax    int     `mapstructure:"price_base_max"`
	PricePerBedMax  int     `mapstructure:"price_per_bed_max"`
	PriceCapMax     int     `mapstructure:"price_cap_max"`
	PriceUnknownMax int     `mapstructure:"price_unknown_max"`
	BedroomsMin     int     `mapstructure:"bedrooms_min"`
	BedroomsMax     int     `mapstructure:"bedrooms_max"`
	BathroomsMin    float64 `mapstructure:"bathrooms_min"`
	BathroomsMax    float64 `mapstructure:"bathrooms_max"`
}

// ToPolicy converts the configured values into the immutable policy bundle
// passed to the validators.
func (p *PolicyConfig) ToPolicy() policy.Policy {
	return policy.Policy{
		Confidence: policy.ConfidenceThresholds{Warn: p.ConfidenceWarn, Error: p.ConfidenceError},
		Price: policy.PricePolicy{
			MinPrice:   p.MinPrice,
			BaseMax:    p.PriceBaseMax,
			PerBedMax:  p.PricePerBedMax,
			CapMax:     p.PriceCapMax,
			UnknownMax: p.PriceUnknownMax,
		},
		Bedrooms:  policy.BedroomsRange{Min: p.BedroomsMin, Max: p.BedroomsMax},
		Bathrooms: policy.BathroomsRange{Min: p.BathroomsMin, Max: p.BathroomsMax},
	}
}

// Load reads configuration from environment variables with the RENTLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "rentlens")
	v.SetDefault("db.password", "rentlens_secret")
	v.SetDefault("db.name", "rentlens_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 5)

	// Auth defaults (empty = auth disabled, development only)
	v.SetDefault("auth.api_keys", "")

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "openai")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "")
	v.SetDefault("extractor.primary.max_retries", 2)
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.max_retries", 2)
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Policy defaults mirror policy.Default()
	def := policy.Default()
	v.SetDefault("policy.confidence_warn", def.Confidence.Warn)
	v.SetDefault("policy.confidence_error", def.Confidence.Error)
	v.SetDefault("policy.min_price", def.Price.MinPrice)
	v.SetDefault("policy.price_base_max", def.Price.BaseMax)
	v.SetDefault("policy.price_per_bed_max", def.Price.PerBedMax)
	v.SetDefault("policy.price_cap_max", def.Price.CapMax)
	v.SetDefault("policy.price_unknown_max", def.Price.UnknownMax)
	v.SetDefault("policy.bedrooms_min", def.Bedrooms.Min)
	v.SetDefault("policy.bedrooms_max", def.Bedrooms.Max)
	v.SetDefault("policy.bathrooms_min", def.Bathrooms.Min)
	v.SetDefault("policy.bathrooms_max", def.Bathrooms.Max)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "RENTLENS_SERVER_PORT",
		"server.read_timeout":               "RENTLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "RENTLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":                "RENTLENS_SERVER_ENVIRONMENT",
		"db.host":                           "RENTLENS_DB_HOST",
		"db.port":                           "RENTLENS_DB_PORT",
		"db.user":                           "RENTLENS_DB_USER",
		"db.password":                       "RENTLENS_DB_PASSWORD",
		"db.name":                           "RENTLENS_DB_NAME",
		"db.sslmode":                        "RENTLENS_DB_SSLMODE",
		"db.max_open":                       "RENTLENS_DB_MAX_OPEN",
		"db.max_idle":                       "RENTLENS_DB_MAX_IDLE",
		"log.level":                         "RENTLENS_LOG_LEVEL",
		"log.format":                        "RENTLENS_LOG_FORMAT",
		"cors.allowed_origins":              "RENTLENS_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":          "RENTLENS_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                 "RENTLENS_QUEUE_MAX_RETRIES",
		"queue.concurrency":                 "RENTLENS_QUEUE_CONCURRENCY",
		"auth.api_keys":                     "RENTLENS_AUTH_API_KEYS",
		"extractor.primary.provider":        "RENTLENS_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "RENTLENS_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "RENTLENS_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.max_retries":     "RENTLENS_EXTRACTOR_PRIMARY_MAX_RETRIES",
		"extractor.primary.timeout_secs":    "RENTLENS_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "RENTLENS_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "RENTLENS_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "RENTLENS_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.max_retries":   "RENTLENS_EXTRACTOR_SECONDARY_MAX_RETRIES",
		"extractor.secondary.timeout_secs":  "RENTLENS_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"policy.confidence_warn":            "RENTLENS_POLICY_CONFIDENCE_WARN",
		"policy.confidence_error":           "RENTLENS_POLICY_CONFIDENCE_ERROR",
		"policy.min_price":                  "RENTLENS_POLICY_MIN_PRICE",
		"policy.price_base_max":             "RENTLENS_POLICY_PRICE_BASE_MAX",
		"policy.price_per_bed_max":          "RENTLENS_POLICY_PRICE_PER_BED_MAX",
		"policy.price_cap_max":              "RENTLENS_POLICY_PRICE_CAP_MAX",
		"policy.price_unknown_max":          "RENTLENS_POLICY_PRICE_UNKNOWN_MAX",
		"policy.bedrooms_min":               "RENTLENS_POLICY_BEDROOMS_MIN",
		"policy.bedrooms_max":               "RENTLENS_POLICY_BEDROOMS_MAX",
		"policy.bathrooms_min":              "RENTLENS_POLICY_BATHROOMS_MIN",
		"policy.bathrooms_max":              "RENTLENS_POLICY_BATHROOMS_MAX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RENTLENS_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RENTLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Auth = AuthConfig{
		APIKeys: splitCSV(v.GetString("auth.api_keys")),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			MaxRetries:   v.GetInt("extractor.primary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			MaxRetries:   v.GetInt("extractor.secondary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
	}
	cfg.Policy = PolicyConfig{
		ConfidenceWarn:  v.GetFloat64("policy.confidence_warn"),
		ConfidenceError: v.GetFloat64("policy.confidence_error"),
		MinPrice:        v.GetInt("policy.min_price"),
		PriceBaseMax:    v.GetInt("policy.price_base_max"),
		PricePerBedMax:  v.GetInt("policy.price_per_bed_max"),
		PriceCapMax:     v.GetInt("policy.price_cap_max"),
		PriceUnknownMax: v.GetInt("policy.price_unknown_max"),
		BedroomsMin:     v.GetInt("policy.bedrooms_min"),
		BedroomsMax:     v.GetInt("policy.bedrooms_max"),
		BathroomsMin:    v.GetFloat64("policy.bathrooms_min"),
		BathroomsMax:    v.GetFloat64("policy.bathrooms_max"),
	}

	if cfg.Policy.ConfidenceError > cfg.Policy.ConfidenceWarn {
		return nil, fmt.Errorf("invalid policy config: confidence_error (%v) must not exceed confidence_warn (%v)",
			cfg.Policy.ConfidenceError, cfg.Policy.ConfidenceWarn)
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
