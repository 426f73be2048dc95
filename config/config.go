// Package config reads the settings of the thought board binaries from the
// environment. A .env file in the working directory is loaded first; values
// already present in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalid is returned by the Validate methods.
var ErrInvalid = errors.New("invalid config")

// Store names accepted by API.Store.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Log selects the log level and output format.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Client configures access to the thoughts API.
type Client struct {
	APIURL string `env:"THOUGHTBOARD_API_URL" envDefault:"https://api.klimentsi.live"`
}

// Validate checks that APIURL is an absolute http(s) URL.
func (c Client) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%w: THOUGHTBOARD_API_URL: %v", ErrInvalid, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: THOUGHTBOARD_API_URL must be an absolute http(s) URL, got %q", ErrInvalid, c.APIURL)
	}
	return nil
}

// Web configures the front-end server.
type Web struct {
	Addr   string `env:"WEB_ADDR" envDefault:"localhost:8080"`
	Client Client
	Log    Log
}

// API configures the thoughts API server.
type API struct {
	Addr           string   `env:"API_ADDR" envDefault:"localhost:8000"`
	Store          string   `env:"STORE" envDefault:"postgres"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"https://klimentsi.live,https://api.klimentsi.live,http://localhost,http://localhost:8080"`
	DB             Postgres `envPrefix:"DB_"`
	Redis          Redis    `envPrefix:"REDIS_"`
	Log            Log
}

// Validate checks the settings needed by the selected store.
func (c API) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DB.Password == "" {
			return fmt.Errorf("%w: DB_PASSWORD is required for the postgres store", ErrInvalid)
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for the redis store", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalid, c.Store)
	}
	return nil
}

// Postgres holds the connection settings of the PostgreSQL store.
type Postgres struct {
	User     string `env:"USER" envDefault:"leopalladium"`
	Password string `env:"PASSWORD"`
	Host     string `env:"HOST" envDefault:"db"`
	Port     string `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"thoughts_db"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	// EchoSQL logs every query.
	EchoSQL bool `env:"ECHO_SQL"`
}

// DSN returns the connection string.
func (p Postgres) DSN() string {
	u := p.url()
	return u.String()
}

// String returns the connection string with the password replaced by
// "xxxxx".
func (p Postgres) String() string {
	u := p.url()
	return u.Redacted()
}

func (p Postgres) url() url.URL {
	return url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
}

// Redis holds the connection settings of the Redis store.
type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
}

// Load fills target from the environment after loading an optional .env
// file.
func Load(target any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
