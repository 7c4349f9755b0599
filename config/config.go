package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Lobby         LobbyConfig         `yaml:"lobby"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// LobbyConfig tunes the queue sweeper, command limits and caches.
type LobbyConfig struct {
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	SweepInitialDelay time.Duration `yaml:"sweep_initial_delay"`
	CommandInterval   time.Duration `yaml:"command_interval"`
	CooldownIdleTTL   time.Duration `yaml:"cooldown_idle_ttl"`
	DBTimeout         time.Duration `yaml:"db_timeout"`
	// CaptainSeed seeds random captain selection. Zero seeds from the clock.
	CaptainSeed int64 `yaml:"captain_seed"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // json|text
}

// Defaults used when neither the file nor the environment sets a value.
const (
	DefaultSweepInterval     = 5 * time.Minute
	DefaultSweepInitialDelay = 60 * time.Second
	DefaultCommandInterval   = 5 * time.Second
	DefaultCooldownIdleTTL   = time.Hour
	DefaultDBTimeout         = 10 * time.Second
	DefaultMetricsAddress    = ":8080"
	DefaultServiceName       = "elo"
)

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides. A missing file falls back to the environment alone.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	cfg.setDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("SERVICE_NAME"); v != "" {
		cfg.Observability.ServiceName = v
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"SWEEP_INTERVAL", &cfg.Lobby.SweepInterval},
		{"SWEEP_INITIAL_DELAY", &cfg.Lobby.SweepInitialDelay},
		{"COMMAND_INTERVAL", &cfg.Lobby.CommandInterval},
		{"COOLDOWN_IDLE_TTL", &cfg.Lobby.CooldownIdleTTL},
		{"DB_TIMEOUT", &cfg.Lobby.DBTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", d.env, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("CAPTAIN_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CAPTAIN_SEED value: %w", err)
		}
		cfg.Lobby.CaptainSeed = seed
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Lobby.SweepInterval == 0 {
		c.Lobby.SweepInterval = DefaultSweepInterval
	}
	if c.Lobby.SweepInitialDelay == 0 {
		c.Lobby.SweepInitialDelay = DefaultSweepInitialDelay
	}
	if c.Lobby.CommandInterval == 0 {
		c.Lobby.CommandInterval = DefaultCommandInterval
	}
	if c.Lobby.CooldownIdleTTL == 0 {
		c.Lobby.CooldownIdleTTL = DefaultCooldownIdleTTL
	}
	if c.Lobby.DBTimeout == 0 {
		c.Lobby.DBTimeout = DefaultDBTimeout
	}
	if c.Observability.MetricsAddress == "" {
		c.Observability.MetricsAddress = DefaultMetricsAddress
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = DefaultServiceName
	}
}
