package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Tracker kinds for the cooldown state backend.
const (
	TrackerMemory = "memory"
	TrackerRedis  = "redis"
)

// Config defines tankwatch service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Alerting AlertingConfig `yaml:"alerting"`
	SMS      SMSConfig      `yaml:"sms"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

type HTTPConfig struct {
	Port string `yaml:"port" env:"TANKWATCH_HTTP_PORT"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"TANKWATCH_POSTGRES_DSN"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"TANKWATCH_REDIS_ADDR"`
	Password string `yaml:"password" env:"TANKWATCH_REDIS_PASSWORD"`
}

type AlertingConfig struct {
	// LowThreshold is the level percentage below which a reading is critical.
	LowThreshold float64 `yaml:"low_threshold" env:"TANKWATCH_LOW_THRESHOLD"`
	// CooldownSeconds is the minimum spacing between two alerts per device.
	CooldownSeconds int `yaml:"cooldown_seconds" env:"TANKWATCH_COOLDOWN_SECONDS"`
	// Tracker selects cooldown state backend: "memory" (single process) or "redis".
	Tracker string `yaml:"tracker" env:"TANKWATCH_COOLDOWN_TRACKER"`
	// CountryCode is prepended to device numbers that lack an international prefix.
	CountryCode string `yaml:"country_code" env:"TANKWATCH_SMS_COUNTRY_CODE"`
}

type SMSConfig struct {
	Enabled  bool   `yaml:"enabled" env:"TANKWATCH_SMS_ENABLED"`
	Region   string `yaml:"region" env:"TANKWATCH_SMS_REGION"`
	SenderID string `yaml:"sender_id" env:"TANKWATCH_SMS_SENDER_ID"`
}

type MQTTConfig struct {
	// BrokerURL enables the MQTT ingest bridge when non-empty.
	BrokerURL string `yaml:"broker_url" env:"TANKWATCH_MQTT_BROKER_URL"`
	Topic     string `yaml:"topic" env:"TANKWATCH_MQTT_TOPIC"`
	ClientID  string `yaml:"client_id" env:"TANKWATCH_MQTT_CLIENT_ID"`
	Username  string `yaml:"username" env:"TANKWATCH_MQTT_USERNAME"`
	Password  string `yaml:"password" env:"TANKWATCH_MQTT_PASSWORD"`
}

// Load configuration with defaults, YAML file and env overrides.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "8080"},
		Alerting: AlertingConfig{
			LowThreshold:    30,
			CooldownSeconds: 300,
			Tracker:         TrackerMemory,
			CountryCode:     "+91",
		},
		SMS: SMSConfig{Region: "ap-south-1"},
		MQTT: MQTTConfig{
			Topic:    "tank/+/reading",
			ClientID: "tankwatch-ingest",
		},
	}

	if err := hydrate(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	switch cfg.Alerting.Tracker {
	case TrackerMemory:
	case TrackerRedis:
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			return nil, errors.New("config: redis addr required for redis cooldown tracker")
		}
	default:
		return nil, fmt.Errorf("config: unknown cooldown tracker %q", cfg.Alerting.Tracker)
	}
	if cfg.Alerting.CooldownSeconds <= 0 {
		return nil, errors.New("config: cooldown_seconds must be positive")
	}
	return cfg, nil
}

// CooldownWindow returns the configured cooldown as a duration.
func (c *Config) CooldownWindow() time.Duration {
	return time.Duration(c.Alerting.CooldownSeconds) * time.Second
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
