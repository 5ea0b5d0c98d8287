package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrMisconfigured = errors.New("config invalid")

// Config is built once at startup and passed down explicitly.
type Config struct {
	EnvState  string
	LogLevel  string         `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFile   string         `env:"LOG_FILE"`
	LogFormat string         `env:"LOG_FORMAT" envDefault:"text"`
	HTTP      HTTPConfig     `envPrefix:"HTTP_"`
	Auth      AuthConfig     `envPrefix:"AUTH_"`
	Postgres  PostgresConfig
}

type HTTPConfig struct {
	Addr           string   `env:"ADDR" envDefault:":8000"`
	PublicBaseURL  string   `env:"PUBLIC_BASE_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

type AuthConfig struct {
	SecretKey  string        `env:"SECRET_KEY"`
	AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"30m"`
	ConfirmTTL time.Duration `env:"CONFIRM_TTL" envDefault:"1440m"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"PGHOST" envDefault:"localhost"`
	Port        string `env:"PGPORT" envDefault:"5432"`
	User        string `env:"PGUSER"`
	Password    string `env:"PGPASSWORD"`
	Database    string `env:"PGDATABASE"`
	SSLMode     string `env:"PGSSLMODE" envDefault:"disable"`
}

const (
	EnvDev  = "dev"
	EnvProd = "prod"
	EnvTest = "test"
)

var envPrefixes = map[string]string{
	EnvDev:  "DEV_",
	EnvProd: "PROD_",
	EnvTest: "TEST_",
}

// Load reads an optional .env file and then the environment. ENV_STATE picks
// the prefix every other variable is read with, e.g. DEV_AUTH_SECRET_KEY.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// existing process variables win over the file
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	state := strings.ToLower(strings.TrimSpace(os.Getenv("ENV_STATE")))
	prefix, ok := envPrefixes[state]
	if !ok {
		return Config{}, fmt.Errorf("%w: invalid ENV_STATE %q", ErrMisconfigured, state)
	}

	cfg := Config{EnvState: state}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.SecretKey == "" {
		if c.EnvState == EnvProd {
			return fmt.Errorf("%w: AUTH_SECRET_KEY is required", ErrMisconfigured)
		}
		c.Auth.SecretKey = "dev-secret-key"
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.ConfirmTTL <= 0 {
		return fmt.Errorf("%w: token TTLs must be positive", ErrMisconfigured)
	}
	if c.HTTP.PublicBaseURL == "" && c.EnvState == EnvProd {
		return fmt.Errorf("%w: HTTP_PUBLIC_BASE_URL is required", ErrMisconfigured)
	}
	if c.HTTP.PublicBaseURL != "" {
		u, err := url.ParseRequestURI(c.HTTP.PublicBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: invalid HTTP_PUBLIC_BASE_URL", ErrMisconfigured)
		}
		c.HTTP.PublicBaseURL = strings.TrimRight(c.HTTP.PublicBaseURL, "/")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise builds one from the PG* parts.
func (p PostgresConfig) DSN() (string, error) {
	if p.DatabaseURL != "" {
		return p.DatabaseURL, nil
	}
	if p.User == "" || p.Database == "" {
		return "", fmt.Errorf("%w: missing DATABASE_URL or PGUSER/PGDATABASE", ErrMisconfigured)
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   p.Database,
	}
	if p.Password == "" {
		u.User = url.User(p.User)
	} else {
		u.User = url.UserPassword(p.User, p.Password)
	}
	q := u.Query()
	q.Set("sslmode", p.SSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
