// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultSessionSecret = "spicepop-dev-secret-change-in-production"

type Config struct {
	Environment string `env:"NODE_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Seed        SeedConfig
	AWS         AWSConfig
	Payment     PaymentConfig
	Checkout    CheckoutConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	BaseURL   string `env:"FRONTEND_URL" envDefault:"http://localhost:5000"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./dist/public"`
}

type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"5000"`
	Host           string        `env:"HOST" envDefault:"0.0.0.0"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout    time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
}

type DatabaseConfig struct {
	URL          string        `env:"DATABASE_URL"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`
	LogLevel     string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
}

type JWTConfig struct {
	SecretKey string        `env:"SESSION_SECRET" envDefault:"spicepop-dev-secret-change-in-production"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type RedisConfig struct {
	URL    string `env:"REDIS_URL"`
	Prefix string `env:"REDIS_PREFIX" envDefault:"spicepop:"`
}

type CacheConfig struct {
	TTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	LoadTimeout time.Duration `env:"CACHE_LOAD_TIMEOUT" envDefault:"10s"`
}

type RateLimitConfig struct {
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	ReadMax  int           `env:"RATE_LIMIT_READ_MAX" envDefault:"1000"`
	WriteMax int           `env:"RATE_LIMIT_WRITE_MAX" envDefault:"100"`
	AuthMax  int           `env:"RATE_LIMIT_AUTH_MAX" envDefault:"10"`
}

type SeedConfig struct {
	Enabled       bool          `env:"SEED_ON_START" envDefault:"true"`
	StepDelay     time.Duration `env:"SEED_STEP_DELAY" envDefault:"500ms"`
	AdminUsername string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"spicepop-admin"`
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@spicepop.local"`
}

type AWSConfig struct {
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket        string `env:"AWS_S3_BUCKET" envDefault:"spicepop-assets"`
	CloudFrontURL   string `env:"AWS_CLOUDFRONT_URL"`
	UploadsDir      string `env:"UPLOADS_DIR" envDefault:"./uploads"`
}

type PaymentConfig struct {
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency        string `env:"PAYMENT_CURRENCY" envDefault:"inr"`
}

type CheckoutConfig struct {
	WhatsAppNumber string `env:"WHATSAPP_NUMBER"`
	CurrencySymbol string `env:"CURRENCY_SYMBOL" envDefault:"₹"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Environment != "test" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.SecretKey == defaultSessionSecret && c.IsProduction() {
		return fmt.Errorf("SESSION_SECRET must be changed in production")
	}

	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
