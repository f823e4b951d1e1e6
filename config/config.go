package config

import (
	"context"
	"fmt"
	"os"

	awspkg "github.com/kithly/kithly-backend/pkg/aws"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	PublicBaseURL       string
	JWTSecret           string
	PostgresUser        string
	PostgresPassword    string
	PostgresDB          string
	PostgresHost        string
	PostgresPort        string
	PostgresSSLMode     string
	PostgresTimeZone    string
	RedisAddr           string
	RedisPassword       string
	IdempotencyTTLHours int
	SNSTopicArn         string
	SMSQueueURL         string
	S3Bucket            string
}

func LoadConfig() (*Config, error) {
	// .env is optional; system env wins in deployed environments
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		PublicBaseURL:       getEnv("PUBLIC_BASE_URL", "https://kithly.app"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		PostgresUser:        os.Getenv("POSTGRES_USER"),
		PostgresPassword:    os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:          os.Getenv("POSTGRES_DB"),
		PostgresHost:        getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:        getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:    getEnv("POSTGRES_TIMEZONE", "Africa/Lusaka"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		IdempotencyTTLHours: getEnvInt("IDEMPOTENCY_TTL_HOURS", 24),
		SNSTopicArn:         os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		SMSQueueURL:         os.Getenv("SMS_QUEUE_URL"),
		S3Bucket:            os.Getenv("S3_BUCKET"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)

			if creds, err := sm.GetJSONSecret(context.Background(), "kithly/DB_CREDENTIALS"); err == nil {
				if v := creds["POSTGRES_USER"]; v != "" {
					cfg.PostgresUser = v
				}
				if v := creds["POSTGRES_PASSWORD"]; v != "" {
					cfg.PostgresPassword = v
				}
				if v := creds["POSTGRES_DB"]; v != "" {
					cfg.PostgresDB = v
				}
				if v := creds["POSTGRES_HOST"]; v != "" {
					cfg.PostgresHost = v
				}
			}
			if secret, err := sm.GetSecret(context.Background(), "kithly/JWT_SECRET"); err == nil && secret != "" {
				cfg.JWTSecret = secret
			}
		}
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
