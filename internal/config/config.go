package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "BANK_"
	configFileEnv = envPrefix + "CONFIG_FILE"

	// HS256 keys shorter than the hash output are rejected.
	minJWTSecretLength = 32
)

type Config struct {
	PostgresAddress      string `koanf:"postgres_address"`
	PostgresPort         string `koanf:"postgres_port"`
	PostgresDB           string `koanf:"postgres_db"`
	PostgresUsername     string `koanf:"postgres_username"`
	PostgresPassword     string `koanf:"postgres_password"`
	PostgresMaxOpenConns int    `koanf:"postgres_max_open_conns"`

	HTTPPort string `koanf:"http_port"`
	LogLevel string `koanf:"log_level"`

	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	OperatorWorkers   int `koanf:"operator_workers"`
	OperatorQueueSize int `koanf:"operator_queue_size"`

	AutoMigrate              bool `koanf:"auto_migrate"`
	MaxAccountNumberAttempts int  `koanf:"max_account_number_attempts"`
}

// In all cases the default behavior should be for the docker compose setup.
var defaults = map[string]interface{}{
	"postgres_address":        "localhost",
	"postgres_port":           "5433",
	"postgres_db":             "postgres",
	"postgres_username":       "postgres",
	"postgres_password":       "testpassword",
	"postgres_max_open_conns": 20,

	"http_port": "9446",
	"log_level": "info",

	"token_ttl": "24h",

	"operator_workers":    4,
	"operator_queue_size": 1000,

	"auto_migrate":                false,
	"max_account_number_attempts": 5,
}

// ProcessEnvironmentVariables layers defaults, an optional YAML file named
// by BANK_CONFIG_FILE, and BANK_* environment variables, in that order.
// BANK_POSTGRES_ADDRESS sets postgres_address, and so on.
func ProcessEnvironmentVariables() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config.defaults: %w", err)
	}

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config.file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config.env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config.unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("jwt_secret must be set and at least %d bytes", minJWTSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.OperatorWorkers < 1 {
		errs = append(errs, errors.New("operator_workers must be at least 1"))
	}
	if c.OperatorQueueSize < 1 {
		errs = append(errs, errors.New("operator_queue_size must be at least 1"))
	}
	if c.MaxAccountNumberAttempts < 1 {
		errs = append(errs, errors.New("max_account_number_attempts must be at least 1"))
	}
	return errors.Join(errs...)
}

// PostgresURL is the lib/pq connection string for the configured database.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresAddress, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
