// Package config loads the portal configuration from dotenv files and the
// environment.
package config

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/octabyte/bm-session/authclient"
	dbredis "github.com/octabyte/bm-session/db/redis"
	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/otel"
	"github.com/octabyte/bm-session/queue"
	"github.com/octabyte/bm-session/utils/logger"
)

const sessionFileName = "session.json"

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"bm-session" validate:"required"`
	Env         string `env:"APP_ENV" envDefault:"development" validate:"oneof=development production test"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error fatal panic"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`

	Auth   AuthConfig   `envPrefix:"AUTH_API_"`
	Store  StoreConfig  `envPrefix:"SESSION_STORE_"`
	Events EventsConfig `envPrefix:"SESSION_EVENTS_"`
	Otel   OtelConfig   `envPrefix:"OTEL_"`
}

type AuthConfig struct {
	URL string `env:"URL" envDefault:"http://localhost:3001" validate:"required,url"`
	// Timeout of zero keeps the transport default.
	Timeout time.Duration `env:"TIMEOUT" validate:"gte=0"`
}

type StoreConfig struct {
	Driver  string `env:"DRIVER" envDefault:"file" validate:"oneof=file redis memory"`
	Path    string `env:"PATH" envDefault:".bm-session"`
	Profile string `env:"PROFILE" envDefault:"default" validate:"required,excludesall=/"`

	RedisAddr     string `env:"REDIS_ADDR" validate:"required_if=Driver redis"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" validate:"gte=0"`
}

// EventsConfig enables the session event publisher when URI is set.
type EventsConfig struct {
	URI        string `env:"URI" validate:"omitempty,url"`
	Exchange   string `env:"EXCHANGE" envDefault:"bm.session" validate:"required_with=URI"`
	RoutingKey string `env:"ROUTING_KEY" envDefault:"session.events" validate:"required_with=URI"`
}

type OtelConfig struct {
	Enabled    bool    `env:"ENABLED"`
	Endpoint   string  `env:"ENDPOINT" envDefault:"localhost:4318" validate:"required_if=Enabled true"`
	SampleRate float64 `env:"SAMPLE_RATE" envDefault:"1" validate:"gte=0,lte=1"`
}

// Load reads the named dotenv files, or ./.env if present when none are named,
// then parses and validates the environment. Variables already set in the
// environment win over dotenv values.
func Load(paths ...string) (*Config, error) {
	if len(paths) > 0 {
		if err := godotenv.Load(paths...); err != nil {
			return nil, errors.Join(ErrLoadingEnvFile, err)
		}
	} else {
		// .env is optional
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	if c.Store.Driver == enums.StoreDriverRedis {
		redisCfg := c.Redis()
		if err := redisCfg.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return nil
}

func (c *Config) Logger() *logger.Config {
	return &logger.Config{Level: c.LogLevel, Env: c.Env, ServiceName: c.ServiceName}
}

func (c *Config) AuthClient() authclient.Config {
	return authclient.Config{BaseURL: c.Auth.URL, ServiceName: c.ServiceName, Timeout: c.Auth.Timeout}
}

func (c *Config) Telemetry() otel.OtelConfig {
	return otel.OtelConfig{
		Enabled:     c.Otel.Enabled,
		Endpoint:    c.Otel.Endpoint,
		ServiceName: c.ServiceName,
		Environment: c.Env,
		SampleRate:  c.Otel.SampleRate,
	}
}

// SessionFile is the document the file store writes for the configured profile.
func (c *Config) SessionFile() string {
	return filepath.Join(c.Store.Path, c.Store.Profile, sessionFileName)
}

func (c *Config) Redis() dbredis.Config {
	return dbredis.Config{Addr: c.Store.RedisAddr, Password: c.Store.RedisPassword, DB: c.Store.RedisDB}
}

func (c *Config) EventsEnabled() bool {
	return c.Events.URI != ""
}

func (c *Config) EventsConnection() queue.ConnectionConfig {
	return queue.ConnectionConfig{
		URI:      c.Events.URI,
		Exchange: queue.ExchangeConfig{Name: c.Events.Exchange, Kind: queue.ExchangeTopic, Durable: true},
	}
}

func (c *Config) EventsPublish() queue.PublishConfig {
	return queue.PublishConfig{
		Exchange:     c.Events.Exchange,
		RoutingKey:   c.Events.RoutingKey,
		DeliveryMode: 2,
	}
}
