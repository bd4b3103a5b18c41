package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type S3Config struct {
	Endpoint        string `env:"ENDPOINT"`
	AccessKey       string `env:"ACCESS_KEY"`
	SecretKey       string `env:"SECRET_KEY"`
	Bucket          string `env:"BUCKET" envDefault:"pictures"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
	MaxPictureBytes int64  `env:"MAX_PICTURE_BYTES" envDefault:"5242880"`
}

func (c S3Config) Enabled() bool { return c.Endpoint != "" }

type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"user_events"`
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// Config is built once at start-up and handed to constructors; nothing reads
// the environment after that.
type Config struct {
	Port     string `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	CORSOrigins  []string `env:"CORS_ORIGIN" envSeparator:","`
	CookieSecure bool     `env:"COOKIE_SECURE" envDefault:"true"`
	CSRFEnabled  bool     `env:"CSRF_ENABLED" envDefault:"false"`
	BcryptCost   int      `env:"BCRYPT_COST" envDefault:"10"`
	BodyLimit    string   `env:"BODY_LIMIT" envDefault:"8M"`

	S3    S3Config    `envPrefix:"S3_"`
	Kafka KafkaConfig `envPrefix:"KAFKA_"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return Parse(nil)
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil, and validates it.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of postgres, sqlite, mongo", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.AccessTokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
	}
	if c.AccessTokenSecret != "" && c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		errs = append(errs, errors.New("token expiries must be positive"))
	} else if c.AccessTokenExpiry >= c.RefreshTokenExpiry {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRY must be shorter than REFRESH_TOKEN_EXPIRY"))
	}
	if c.S3.Enabled() && c.S3.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required when S3_ENDPOINT is set"))
	}

	return errors.Join(errs...)
}
