package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	Session  SessionConfig  `env:",prefix=SESSION_"`
	Auth     AuthConfig     `env:",prefix=AUTH_"`
	SMTP     SMTPConfig     `env:",prefix=SMTP_"`
	OAuth    OAuthConfig    `env:",prefix=OAUTH_"`
	Billing  BillingConfig  `env:",prefix=BILLING_"`
	Insights InsightsConfig `env:",prefix=INSIGHTS_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	BaseURL      string   `env:"BASE_URL,default=http://localhost:8080"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host           string `env:"HOST,default=localhost"`
	Port           string `env:"PORT,default=5432"`
	User           string `env:"USER,default=zairix"`
	Password       string `env:"PASSWORD,default=zairix_password"`
	DBName         string `env:"DB,default=zairix_db"`
	SSLMode        string `env:"SSLMODE,default=disable"`
	MigrationsPath string `env:"MIGRATIONS_PATH,default=migrations"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type SessionConfig struct {
	Secret string   `env:"SECRET,required"`
	TTL    Duration `env:"TTL,default=30d"`
}

// AuthConfig covers the emailed single-use token flows. TokenPepper is
// deliberately optional at boot: the magic-link and reset endpoints
// answer 503 not_configured when it is absent instead of degrading to
// unpeppered hashes.
type AuthConfig struct {
	TokenPepper      string   `env:"TOKEN_PEPPER,default="`
	MagicLinkTTL     Duration `env:"MAGIC_LINK_TTL,default=15m"`
	PasswordResetTTL Duration `env:"PASSWORD_RESET_TTL,default=30m"`
}

type SMTPConfig struct {
	Host     string `env:"HOST,default="`
	Port     int    `env:"PORT,default=587"`
	User     string `env:"USER,default="`
	Password string `env:"PASSWORD,default="`
	From     string `env:"FROM,default=no-reply@signalforge.app"`
}

// Configured reports whether a mail transport is set up.
func (s SMTPConfig) Configured() bool {
	return s.Host != ""
}

type OAuthConfig struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,default="`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,default="`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL,default="`
}

// Configured reports whether the Google code flow can run.
func (o OAuthConfig) Configured() bool {
	return o.GoogleClientID != "" && o.GoogleClientSecret != "" && o.GoogleRedirectURL != ""
}

type BillingConfig struct {
	WebhookSecret string `env:"WEBHOOK_SECRET,default="`
}

type InsightsConfig struct {
	ProviderURL string   `env:"PROVIDER_URL,default="`
	APIKey      string   `env:"API_KEY,default="`
	Timeout     Duration `env:"TIMEOUT,default=30s"`
}

type SecurityConfig struct {
	BCryptCost        int      `env:"BCRYPT_COST,default=12"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// URL returns the PostgreSQL connection URL used by the migrator
func (p PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(p.User), url.QueryEscape(p.Password), p.Host, p.Port, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// A short signing secret would silently issue forgeable cookies,
	// so misconfiguration fails the boot instead.
	if len(config.Session.Secret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
