package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env       string
	DB        db
	Server    server
	Session   session
	RateLimit rateLimit
	AdminPin  string
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	ShutdownTimeout time.Duration
}

type session struct {
	TTL time.Duration `env:"SESSION_TTL_HOURS"`
}

type rateLimit struct {
	RPS   float64 `env:"RATE_LIMIT_RPS"`
	Burst int     `env:"RATE_LIMIT_BURST"`
}

// MustLoad читает конфигурацию и паникует при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":8080")
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("session_ttl_hours", 24*30)
	v.SetDefault("rate_limit_rps", 20)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("shutdown_timeout_seconds", 10)
	v.SetDefault("admin_pin", "1234")

	config := Config{
		Env: v.GetString("app_env"),
		DB: db{
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: server{
			RunAddress:      v.GetString("run_address"),
			ShutdownTimeout: time.Duration(v.GetInt("shutdown_timeout_seconds")) * time.Second,
		},
		Session: session{
			TTL: time.Duration(v.GetInt("session_ttl_hours")) * time.Hour,
		},
		RateLimit: rateLimit{
			RPS:   v.GetFloat64("rate_limit_rps"),
			Burst: v.GetInt("rate_limit_burst"),
		},
		AdminPin: v.GetString("admin_pin"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}
	if c.DB.DatabaseURI == "" {
		return errors.New("DATABASE_URI is required")
	}
	if c.Server.RunAddress == "" {
		return errors.New("RUN_ADDRESS is required")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
