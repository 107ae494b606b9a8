package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultEnv           = "local"
	defaultConfigDir     = ".paintpro"
)

type Config struct {
	Env            string        `mapstructure:"app_env"`
	ServerAddress  string        `mapstructure:"server_address"`
	EnableTLS      bool          `mapstructure:"enable_tls"`
	ConfigDir      string        `mapstructure:"config_dir"`
	DataPath       string        `mapstructure:"data_path"`
	LogPath        string        `mapstructure:"log_path"`
	SyncInterval   time.Duration `mapstructure:"sync_interval_seconds"`
	ProbeInterval  time.Duration `mapstructure:"probe_interval_seconds"`
	Debounce       time.Duration `mapstructure:"debounce_ms"`
	RequestTimeout time.Duration `mapstructure:"request_timeout_seconds"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay_ms"`
	MaxOpAttempts  int           `mapstructure:"max_op_attempts"`
}

// Load читает .env (если есть), переменные окружения и значения viper
func Load() (*Config, error) {
	// .env ищем рядом с местом запуска, затем уровнем выше
	for _, envPath := range []string{".env", "../.env"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
			}
			break
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("ENABLE_TLS", false)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 30)
	viper.SetDefault("PROBE_INTERVAL_SECONDS", 10)
	viper.SetDefault("DEBOUNCE_MS", 2000)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 10)
	viper.SetDefault("RETRY_ATTEMPTS", 3)
	viper.SetDefault("RETRY_BASE_DELAY_MS", 1000)
	viper.SetDefault("MAX_OP_ATTEMPTS", 5)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "paintpro.db")
	}
	logPath := viper.GetString("LOG_PATH")
	if logPath == "" {
		logPath = filepath.Join(configDir, "paintpro.log")
	}

	config := &Config{
		Env:            viper.GetString("APP_ENV"),
		ServerAddress:  viper.GetString("SERVER_ADDRESS"),
		EnableTLS:      viper.GetBool("ENABLE_TLS"),
		ConfigDir:      configDir,
		DataPath:       dataPath,
		LogPath:        logPath,
		SyncInterval:   time.Duration(viper.GetInt("SYNC_INTERVAL_SECONDS")) * time.Second,
		ProbeInterval:  time.Duration(viper.GetInt("PROBE_INTERVAL_SECONDS")) * time.Second,
		Debounce:       time.Duration(viper.GetInt("DEBOUNCE_MS")) * time.Millisecond,
		RequestTimeout: time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		RetryAttempts:  viper.GetInt("RETRY_ATTEMPTS"),
		RetryBaseDelay: time.Duration(viper.GetInt("RETRY_BASE_DELAY_MS")) * time.Millisecond,
		MaxOpAttempts:  viper.GetInt("MAX_OP_ATTEMPTS"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.SyncInterval <= 0 || c.ProbeInterval <= 0 {
		return fmt.Errorf("интервалы синхронизации должны быть положительными")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds должен быть положительным")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts должен быть не меньше 1")
	}
	if c.MaxOpAttempts < 1 {
		return fmt.Errorf("max_op_attempts должен быть не меньше 1")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
