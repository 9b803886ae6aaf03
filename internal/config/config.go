// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Service names accepted by LoadConfig.
const (
	ServiceUser     = "user"
	ServicePost     = "post"
	ServiceComment  = "comment"
	ServiceTrending = "trending"
	ServiceGateway  = "gateway"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Service string `mapstructure:"-"`

	Env            string `mapstructure:"APP_ENV"`
	Port           string `mapstructure:"PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	// Stores read by the trending service.
	UserDBName    string `mapstructure:"USER_DB_NAME"`
	PostDBName    string `mapstructure:"POST_DB_NAME"`
	CommentDBName string `mapstructure:"COMMENT_DB_NAME"`

	UserServiceBase    string        `mapstructure:"USER_SERVICE_BASE"`
	PostServiceBase    string        `mapstructure:"POST_SERVICE_BASE"`
	CommentServiceBase string        `mapstructure:"COMMENT_SERVICE_BASE"`
	ServiceTimeout     time.Duration `mapstructure:"SERVICE_TIMEOUT"`
	HealthTimeout      time.Duration `mapstructure:"HEALTH_TIMEOUT"`

	JWTSecret                string `mapstructure:"JWT_SECRET"`
	JWTAlgorithm             string `mapstructure:"JWT_ALGORITHM"`
	JWTIssuer                string `mapstructure:"JWT_ISSUER"`
	AccessTokenExpireMinutes int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`

	RedisURL         string        `mapstructure:"REDIS_URL"`
	TrendingCacheTTL time.Duration `mapstructure:"TRENDING_CACHE_TTL"`
	LoginRateLimit   int           `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindow  time.Duration `mapstructure:"LOGIN_RATE_WINDOW"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

var defaultPorts = map[string]string{
	ServiceUser:     "8000",
	ServicePost:     "8001",
	ServiceComment:  "8002",
	ServiceTrending: "8003",
	ServiceGateway:  "8080",
}

var defaultDBNames = map[string]string{
	ServiceUser:    "users",
	ServicePost:    "posts",
	ServiceComment: "comments",
}

// LoadConfig loads configuration for the named service from file and
// environment variables.
func LoadConfig(service string) (*Config, error) {
	if _, ok := defaultPorts[service]; !ok {
		return nil, fmt.Errorf("unknown service %q", service)
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.%s.yml: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults(service)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Service = service
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(service string) {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", defaultPorts[service])
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", defaultDBNames[service])
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("USER_DB_NAME", defaultDBNames[ServiceUser])
	viper.SetDefault("POST_DB_NAME", defaultDBNames[ServicePost])
	viper.SetDefault("COMMENT_DB_NAME", defaultDBNames[ServiceComment])

	viper.SetDefault("USER_SERVICE_BASE", "http://user-service:8000")
	viper.SetDefault("POST_SERVICE_BASE", "http://post-service:8001")
	viper.SetDefault("COMMENT_SERVICE_BASE", "http://comment-service:8002")
	viper.SetDefault("SERVICE_TIMEOUT", 5*time.Second)
	viper.SetDefault("HEALTH_TIMEOUT", 2*time.Second)

	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ALGORITHM", "HS256")
	viper.SetDefault("JWT_ISSUER", "agora-gateway")
	viper.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15)

	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("TRENDING_CACHE_TTL", 15*time.Second)
	viper.SetDefault("LOGIN_RATE_LIMIT", 10)
	viper.SetDefault("LOGIN_RATE_WINDOW", time.Minute)

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// RateLimited reports whether request limits are enforced. Development and
// test runs skip them.
func (c *Config) RateLimited() bool {
	switch c.Env {
	case "", "development", "test":
		return false
	}
	return true
}

// AccessTokenTTL is the lifetime of gateway-issued access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.ServiceTimeout <= 0 {
		return errors.New("SERVICE_TIMEOUT must be positive")
	}
	if c.HealthTimeout <= 0 {
		return errors.New("HEALTH_TIMEOUT must be positive")
	}
	if c.TrendingCacheTTL < 0 {
		return errors.New("TRENDING_CACHE_TTL must not be negative")
	}

	if c.Service == ServiceGateway {
		if err := c.validateToken(); err != nil {
			return err
		}
	}

	if c.IsProduction() {
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable SSL in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}

func (c *Config) validateToken() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	method := jwt.GetSigningMethod(c.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return fmt.Errorf("JWT_ALGORITHM %q is not a supported HMAC algorithm", c.JWTAlgorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}
	return nil
}
