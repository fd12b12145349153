package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Rating        RatingConfig        `yaml:"rating"`
	Import        ImportConfig        `yaml:"import"`
	Season        SeasonConfig        `yaml:"season"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL runs the event bus in process.
type NATSConfig struct {
	URL              string        `yaml:"url"`
	QueueGroupPrefix string        `yaml:"queue_group_prefix"`
	SubscribersCount int           `yaml:"subscribers_count"`
	AckWaitTimeout   time.Duration `yaml:"ack_wait_timeout"`
}

// HTTPConfig holds the read API configuration. An empty address disables it.
type HTTPConfig struct {
	Address           string        `yaml:"address"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	ServiceName string `yaml:"service_name"`
}

// RatingConfig seeds the persisted rating settings the first time the bot
// starts. Once settings are stored these values are ignored.
type RatingConfig struct {
	DefaultSystem     string                   `yaml:"default_system"`
	Elo               ratingdomain.EloParams   `yaml:"elo"`
	Skill             ratingdomain.SkillParams `yaml:"skill"`
	AutoCreatePlayers bool                     `yaml:"auto_create_players"`
}

// ImportConfig sizes the background tournament import queue.
type ImportConfig struct {
	Workers int `yaml:"workers"`
}

// SeasonConfig holds season options.
type SeasonConfig struct {
	// Timezone interprets natural-language and date-only start dates.
	Timezone string `yaml:"timezone"`
}

// ErrMissingDSN is returned when no database is configured.
var ErrMissingDSN = errors.New("DATABASE_URL environment variable not set")

// Defaults returns the configuration used for anything left unset.
func Defaults() Config {
	defaults := ratingdomain.DefaultSettings()
	return Config{
		NATS: NATSConfig{
			QueueGroupPrefix: "powerrank",
			SubscribersCount: 4,
			AckWaitTimeout:   30 * time.Second,
		},
		HTTP: HTTPConfig{
			Address:           ":8080",
			RequestsPerSecond: 10,
			Burst:             20,
			RequestTimeout:    15 * time.Second,
		},
		Observability: ObservabilityConfig{
			Environment: "production",
			LogLevel:    "info",
			ServiceName: "powerrank-bot",
		},
		Rating: RatingConfig{
			DefaultSystem: string(defaults.ActiveSystem),
			Elo:           defaults.Elo,
			Skill:         defaults.Skill,
		},
		Import: ImportConfig{Workers: 2},
		Season: SeasonConfig{Timezone: "UTC"},
	}
}

// LoadConfig loads the configuration from a YAML file, falling back to the
// environment alone when the file does not exist. Environment variables
// always win over the file.
func LoadConfig(filename string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DATABASE_URL", &cfg.Postgres.DSN)
	setString("NATS_URL", &cfg.NATS.URL)
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setString("ENV", &cfg.Observability.Environment)
	setString("LOG_LEVEL", &cfg.Observability.LogLevel)
	setString("RATING_DEFAULT_SYSTEM", &cfg.Rating.DefaultSystem)
	setString("SEASON_TIMEZONE", &cfg.Season.Timezone)

	if v := os.Getenv("AUTO_CREATE_PLAYERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTO_CREATE_PLAYERS value: %w", err)
		}
		cfg.Rating.AutoCreatePlayers = b
	}
	if v := os.Getenv("IMPORT_QUEUE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid IMPORT_QUEUE_WORKERS value: %w", err)
		}
		cfg.Import.Workers = n
	}
	if v := os.Getenv("HTTP_REQUESTS_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_REQUESTS_PER_SECOND value: %w", err)
		}
		cfg.HTTP.RequestsPerSecond = f
	}
	return nil
}

// Validate checks the settings that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return ErrMissingDSN
	}
	if _, err := c.RatingSettings(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// RatingSettings converts the rating section into validated defaults.
func (c *Config) RatingSettings() (ratingdomain.Settings, error) {
	system, err := ratingdomain.ParseSystemID(c.Rating.DefaultSystem)
	if err != nil {
		return ratingdomain.Settings{}, fmt.Errorf("invalid rating config: %w", err)
	}
	settings := ratingdomain.Settings{
		ActiveSystem: system,
		Elo:          c.Rating.Elo,
		Skill:        c.Rating.Skill,
	}
	if err := settings.Validate(); err != nil {
		return ratingdomain.Settings{}, fmt.Errorf("invalid rating config: %w", err)
	}
	return settings, nil
}

// Location resolves the season timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Season.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Season.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid season timezone %q: %w", c.Season.Timezone, err)
	}
	return loc, nil
}

// ToObsConfig maps the observability section.
func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: appCfg.Observability.ServiceName,
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
	}
}
