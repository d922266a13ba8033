package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// Backend selects the extraction/structuring strategy for the whole process.
type Backend string

const (
	BackendYandex Backend = "yandex" // rules-based OCR + keyword heuristics
	BackendVision Backend = "vision" // vision API + keyword heuristics
	BackendAI     Backend = "ai"     // AI vision returning the structured note
)

// FileConfig represents configuration loaded from YAML. Secrets are never
// read from the file; they come from the environment only.
type FileConfig struct {
	LogLevel   string  `yaml:"logLevel"`
	HealthPort string  `yaml:"healthPort"`
	Backend    Backend `yaml:"backend"`

	DatabaseURL string `yaml:"databaseURL"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"-"`

	// RateLimitPerMinute caps pipeline submissions per user. Zero disables
	// the limit; a positive value requires redisAddr.
	RateLimitPerMinute int `yaml:"rateLimitPerMinute"`

	StorageEndpoint      string `yaml:"storageEndpoint"`
	StorageBucket        string `yaml:"storageBucket"`
	StoragePublicBaseURL string `yaml:"storagePublicBaseURL"`
	StorageUseSSL        bool   `yaml:"storageUseSSL"`
	StorageAccessKey     string `yaml:"-"`
	StorageSecretKey     string `yaml:"-"`

	TelegramToken string `yaml:"-"`

	YandexFolderID string `yaml:"yandexFolderId"`
	YandexIAMToken string `yaml:"-"`

	VisionAPIKey string `yaml:"-"`

	AIBaseURL string `yaml:"aiBaseURL"`
	AIModel   string `yaml:"aiModel"`
	AIAPIKey  string `yaml:"-"`
}

// Load reads config from path (defaults to config.yaml) and applies
// environment overrides.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HEALTH_PORT"); v != "" {
		cfg.HealthPort = v
	}
	if v := os.Getenv("NOTES_BACKEND"); v != "" {
		cfg.Backend = Backend(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.StorageEndpoint = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.StorageBucket = v
	}
	if v := os.Getenv("STORAGE_PUBLIC_BASE_URL"); v != "" {
		cfg.StoragePublicBaseURL = v
	}
	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		if useSSL, err := strconv.ParseBool(v); err == nil {
			cfg.StorageUseSSL = useSSL
		}
	}
	if v := os.Getenv("YANDEX_FOLDER_ID"); v != "" {
		cfg.YandexFolderID = v
	}
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.AIBaseURL = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.AIModel = v
	}
	// Secrets, environment only
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.StorageAccessKey = os.Getenv("STORAGE_ACCESS_KEY")
	cfg.StorageSecretKey = os.Getenv("STORAGE_SECRET_KEY")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.YandexIAMToken = os.Getenv("YANDEX_IAM_TOKEN")
	cfg.VisionAPIKey = os.Getenv("VISION_API_KEY")
	cfg.AIAPIKey = os.Getenv("AI_API_KEY")

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.TelegramToken == "" {
		return errors.New("config: TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if cfg.StorageEndpoint == "" || cfg.StorageBucket == "" {
		return errors.New("config: storageEndpoint and storageBucket are required")
	}
	if cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" {
		return errors.New("config: STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}
	if cfg.RateLimitPerMinute > 0 && cfg.RedisAddr == "" {
		return errors.New("config: rateLimitPerMinute requires redisAddr")
	}
	switch cfg.Backend {
	case BackendYandex:
		if cfg.YandexIAMToken == "" || cfg.YandexFolderID == "" {
			return errors.New("config: yandex backend requires YANDEX_IAM_TOKEN and yandexFolderId")
		}
	case BackendVision:
		if cfg.VisionAPIKey == "" {
			return errors.New("config: vision backend requires VISION_API_KEY")
		}
	case BackendAI:
		if cfg.AIBaseURL == "" || cfg.AIModel == "" {
			return errors.New("config: ai backend requires aiBaseURL and aiModel")
		}
	default:
		return fmt.Errorf("config: backend must be one of yandex, vision, ai (got %q)", cfg.Backend)
	}
	return nil
}
