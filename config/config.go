package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root of the toolkit configuration.
type Config struct {
	App     AppConf     `yaml:"app"`
	Client  ClientConf  `yaml:"client"`
	Token   TokenConf   `yaml:"token"`
	Logging LoggingConf `yaml:"logging"`
}

// AppConf holds the Bitable app credentials and base identity.
type AppConf struct {
	AppID     string `yaml:"app_id" env:"BITABLE_APP_ID" validate:"required"`
	AppSecret string `yaml:"app_secret" env:"BITABLE_APP_SECRET" validate:"required"`
	AppToken  string `yaml:"app_token" env:"BITABLE_APP_TOKEN" validate:"required"`
}

// ClientConf tunes the HTTP transport.
type ClientConf struct {
	BaseURL string `yaml:"base_url" env:"BITABLE_BASE_URL"`
	Timeout string `yaml:"timeout" env:"BITABLE_HTTP_TIMEOUT" envDefault:"30s"`
}

// TokenConf selects the token store backend.
type TokenConf struct {
	Store         string `yaml:"store" env:"BITABLE_TOKEN_STORE" envDefault:"memory" validate:"oneof=memory redis"`
	RedisAddr     string `yaml:"redis_addr" env:"BITABLE_REDIS_ADDR" validate:"required_if=Store redis"`
	RedisPassword string `yaml:"redis_password" env:"BITABLE_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"BITABLE_REDIS_DB"`
}

// LoggingConf mirrors the zerolog setup switches.
type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"BITABLE_LOG_ENABLED"`
	Level   string `yaml:"level" env:"BITABLE_LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
	Format  string `yaml:"format" env:"BITABLE_LOG_FORMAT" validate:"omitempty,oneof=json console"`
}

// GetTimeout parses the client timeout, falling back to 30s on a bad value.
func (c ClientConf) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Load reads a YAML file, applies the environment overlay and validates the
// result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: cannot parse %s: %w", path, err)
	}
	return finish(&cfg)
}

// FromEnv builds a configuration from environment variables alone.
func FromEnv() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural rules of a configuration.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				msgs = append(msgs, fmt.Sprintf("field %s failed rule %s", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("config: invalid configuration:\n- %s", strings.Join(msgs, "\n- "))
		}
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}
