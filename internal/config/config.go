package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for PillGuard
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Services ServicesConfig `mapstructure:"services"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// StorageConfig holds database settings
type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
	BadgerPath string `mapstructure:"badger_path"`
}

// MonitorConfig holds the due-dose monitor settings
type MonitorConfig struct {
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	WindowSeconds   int    `mapstructure:"window_seconds"`
	RefillCron      string `mapstructure:"refill_cron"`
}

// NotifyConfig holds notification channel settings
type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig holds Telegram bot settings
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// ServicesConfig holds external service settings
type ServicesConfig struct {
	RxTermsURL        string          `mapstructure:"rxterms_url"`
	OpenFDAURL        string          `mapstructure:"openfda_url"`
	CacheTTL          int             `mapstructure:"cache_ttl"` // hours
	RequestsPerMinute int             `mapstructure:"requests_per_minute"`
	Assistant         AssistantConfig `mapstructure:"assistant"`
}

// AssistantConfig holds the AI assistant settings
type AssistantConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"`
}

// Load loads configuration from file, env, and defaults
func Load(configPath, dataDir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if dataDir == "" {
		dataDir = getDefaultDataDir()
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	v.Set("storage.data_dir", dataDir)
	v.Set("storage.sqlite_path", filepath.Join(dataDir, "pillguard.db"))
	v.Set("storage.badger_path", filepath.Join(dataDir, "badger"))

	if configPath == "" {
		configPath = filepath.Join(dataDir, "pillguard.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Environment variables (PILLGUARD_SERVER_PORT, PILLGUARD_NOTIFY_TELEGRAM_BOT_TOKEN, etc.)
	v.SetEnvPrefix("PILLGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8750)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	// Monitor defaults: poll twice a minute, treat anything due within the
	// last poll as "due now", sweep refills at 9am local.
	v.SetDefault("monitor.interval_seconds", 30)
	v.SetDefault("monitor.window_seconds", 45)
	v.SetDefault("monitor.refill_cron", "0 9 * * *")

	// External service defaults
	v.SetDefault("services.rxterms_url", "https://clinicaltables.nlm.nih.gov/api/rxterms/v3/search")
	v.SetDefault("services.openfda_url", "https://api.fda.gov/drug/label.json")
	v.SetDefault("services.cache_ttl", 24)
	v.SetDefault("services.requests_per_minute", 60)
	v.SetDefault("services.assistant.model", "gpt-4o-mini")
	v.SetDefault("services.assistant.timeout", 60)
}

func getDefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pillguard")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}

	return filepath.Join(home, ".local", "share", "pillguard")
}

// loadEnvOverrides loads specific env vars that Viper doesn't handle well nested
func loadEnvOverrides(cfg *Config) {
	getEnv := func(key, fallback string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return fallback
	}

	cfg.Services.Assistant.APIKey = getEnv("PILLGUARD_ASSISTANT_API_KEY", cfg.Services.Assistant.APIKey)
	cfg.Services.Assistant.BaseURL = getEnv("PILLGUARD_ASSISTANT_BASE_URL", cfg.Services.Assistant.BaseURL)
	cfg.Services.Assistant.Model = getEnv("PILLGUARD_ASSISTANT_MODEL", cfg.Services.Assistant.Model)

	cfg.Notify.Telegram.BotToken = getEnv("PILLGUARD_TELEGRAM_BOT_TOKEN", cfg.Notify.Telegram.BotToken)
	if chatID := os.Getenv("PILLGUARD_TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			cfg.Notify.Telegram.ChatID = id
			cfg.Notify.Telegram.Enabled = true
		}
	}

	cfg.Server.Address = getEnv("PILLGUARD_SERVER_ADDRESS", cfg.Server.Address)
	if port := os.Getenv("PILLGUARD_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	cfg.Storage.DataDir = getEnv("PILLGUARD_STORAGE_DATA_DIR", cfg.Storage.DataDir)
}

func validate(cfg *Config) error {
	if cfg.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor.interval_seconds must be positive")
	}
	if cfg.Monitor.WindowSeconds <= 0 {
		return fmt.Errorf("monitor.window_seconds must be positive")
	}
	if cfg.Notify.Telegram.Enabled && cfg.Notify.Telegram.BotToken == "" {
		return fmt.Errorf("notify.telegram.bot_token is required when telegram is enabled")
	}
	return nil
}
