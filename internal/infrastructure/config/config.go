package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all SDK and tooling configuration.
type Config struct {
	Provider  ProviderConfig
	Handshake HandshakeConfig
	Session   SessionConfig
	Logging   LogConfig
	Sim       SimConfig
}

// ProviderConfig identifies this partner to the TaskGate host.
type ProviderConfig struct {
	ID         string `envconfig:"PROVIDER_ID"`
	HostScheme string `envconfig:"HOST_SCHEME" default:"taskgate"`
}

// HandshakeConfig holds readiness handshake configuration.
type HandshakeConfig struct {
	WaitTimeoutMs int `envconfig:"WAIT_TIMEOUT_MS" default:"3000"`
}

// SessionConfig holds task session configuration.
type SessionConfig struct {
	TTLMs     int    `envconfig:"SESSION_TTL_MS" default:"30000"`
	StatePath string `envconfig:"STATE_PATH"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// SimConfig holds host simulator configuration.
type SimConfig struct {
	Port              string `envconfig:"SIM_PORT" default:"8787"`
	Host              string `envconfig:"SIM_HOST" default:"0.0.0.0"`
	ScenarioFile      string `envconfig:"SIM_SCENARIOS" default:"scenarios.toml"`
	PartnerBaseURL    string `envconfig:"SIM_PARTNER_BASE" default:"https://partner.example/taskgate/start"`
	RequestsPerSecond int    `envconfig:"SIM_RATE_LIMIT_RPS" default:"50"`
	Burst             int    `envconfig:"SIM_RATE_LIMIT_BURST" default:"100"`
}

// WaitTimeout returns the handshake timeout as a duration.
func (c HandshakeConfig) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutMs) * time.Millisecond
}

// TTL returns the session staleness threshold as a duration.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMs) * time.Millisecond
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("TASKGATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			HostScheme: "taskgate",
		},
		Handshake: HandshakeConfig{
			WaitTimeoutMs: 3000,
		},
		Session: SessionConfig{
			TTLMs: 30000,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Sim: SimConfig{
			Port:              "8787",
			Host:              "0.0.0.0",
			ScenarioFile:      "scenarios.toml",
			PartnerBaseURL:    "https://partner.example/taskgate/start",
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}
