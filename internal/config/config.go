package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all server configuration, populated from the environment.
type Config struct {
	Port      string        `env:"HEARTH_PORT" envDefault:"8080"`
	DBPath    string        `env:"HEARTH_DB_PATH" envDefault:"hearth.db"`
	LogLevel  string        `env:"HEARTH_LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"HEARTH_LOG_FORMAT" envDefault:"text"`
	JWTSecret string        `env:"HEARTH_JWT_SECRET"`
	TokenTTL  time.Duration `env:"HEARTH_TOKEN_TTL" envDefault:"30m"`

	AI     AIConfig
	Push   PushConfig
	Backup BackupConfig
}

// AIConfig configures the LLM client. An empty APIKey disables AI calls;
// the prioritize and insights endpoints then serve their fallbacks.
type AIConfig struct {
	APIKey  string `env:"HEARTH_AI_API_KEY"`
	BaseURL string `env:"HEARTH_AI_BASE_URL"`
	Model   string `env:"HEARTH_AI_MODEL" envDefault:"gpt-4o-mini"`
}

// PushConfig holds VAPID keys for web push. Both empty disables push.
type PushConfig struct {
	VAPIDPublicKey  string `env:"HEARTH_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"HEARTH_VAPID_PRIVATE_KEY"`
}

// BackupConfig configures encrypted S3 backups. An empty bucket disables them.
type BackupConfig struct {
	S3Endpoint    string `env:"HEARTH_S3_ENDPOINT"`
	S3Bucket      string `env:"HEARTH_S3_BUCKET"`
	S3Region      string `env:"HEARTH_S3_REGION" envDefault:"us-east-1"`
	S3AccessKey   string `env:"HEARTH_S3_ACCESS_KEY"`
	S3SecretKey   string `env:"HEARTH_S3_SECRET_KEY"`
	ScheduleHour  int    `env:"HEARTH_BACKUP_HOUR" envDefault:"3"`
	RetentionDays int    `env:"HEARTH_BACKUP_RETENTION_DAYS" envDefault:"30"`
}

// Load reads a .env file if one exists, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
