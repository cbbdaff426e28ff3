package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mbernardes19/torre-matheus/pkg/validate"
)

// Config contains runtime settings for the server and CLI
type Config struct {
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	Host     string `yaml:"host" validate:"required"` // default 0.0.0.0
	Port     string `yaml:"port" validate:"required,numeric"`

	Torre struct {
		BaseURL string        `yaml:"base_url" validate:"required,url"`
		Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
		Locale  string        `yaml:"locale" validate:"required"`
	} `yaml:"torre"`

	Search struct {
		Debounce   time.Duration `yaml:"debounce" validate:"gte=0"`
		SessionTTL time.Duration `yaml:"session_ttl" validate:"gt=0"`
	} `yaml:"search"`

	// Redis is optional; sessions stay in memory without it
	Redis struct {
		URL string `yaml:"url" validate:"omitempty,url"`
	} `yaml:"redis"`

	Sheets struct {
		CredentialsPath string `yaml:"credentials_path" validate:"omitempty,file"`
	} `yaml:"sheets"`
}

// Default returns the settings used when nothing overrides them
func Default() Config {
	var cfg Config
	cfg.LogLevel = "info"
	cfg.Host = "0.0.0.0"
	cfg.Port = "8080"
	cfg.Torre.BaseURL = "https://search.torre.co"
	cfg.Torre.Timeout = 30 * time.Second
	cfg.Torre.Locale = "en"
	cfg.Search.Debounce = 300 * time.Millisecond
	cfg.Search.SessionTTL = 30 * time.Minute
	return cfg
}

// Load populates config from defaults, then the YAML file named by CONFIG_FILE, then environment variables
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("LOG_LEVEL", &cfg.LogLevel)
	setString("HOST", &cfg.Host)
	setString("PORT", &cfg.Port)
	setString("TORRE_BASE_URL", &cfg.Torre.BaseURL)
	setString("TORRE_LOCALE", &cfg.Torre.Locale)
	setString("REDIS_URL", &cfg.Redis.URL)
	setString("GOOGLE_SHEETS_CREDENTIALS_PATH", &cfg.Sheets.CredentialsPath)

	if err := setMillis("TORRE_TIMEOUT_MS", &cfg.Torre.Timeout); err != nil {
		return err
	}
	if err := setMillis("SEARCH_DEBOUNCE_MS", &cfg.Search.Debounce); err != nil {
		return err
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.Search.SessionTTL = d
	}

	return nil
}

func setMillis(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer number of milliseconds: %w", key, err)
	}
	*dst = time.Duration(ms) * time.Millisecond
	return nil
}
