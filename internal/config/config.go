package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBRetries  int

	AutoMigrate     bool
	MigrateHRTables bool

	RedisAddr   string
	KafkaBroker string
	JWTSecret   string

	RBACPolicyPath string

	BatchConcurrency   int
	OutboxPollInterval time.Duration
	NotifyViaKafka     bool
	NotifyQueueSize    int

	PayslipStorageDir    string
	PayslipPublicBaseURL string

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	return Config{
		Port:                 getEnv("PORT", "3000"),
		Environment:          getEnv("APP_ENV", "development"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBName:               getEnv("DB_NAME", "payroll"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		DBRetries:            getEnvInt("DB_RETRIES", 5),
		AutoMigrate:          getEnvBool("AUTO_MIGRATE", true),
		MigrateHRTables:      getEnvBool("MIGRATE_HR_TABLES", false),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		KafkaBroker:          getEnv("KAFKA_BROKER", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		RBACPolicyPath:       getEnv("RBAC_POLICY_PATH", ""),
		BatchConcurrency:     getEnvInt("BATCH_CONCURRENCY", 1),
		OutboxPollInterval:   getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		NotifyViaKafka:       getEnvBool("NOTIFY_VIA_KAFKA", true),
		NotifyQueueSize:      getEnvInt("NOTIFY_QUEUE_SIZE", 256),
		PayslipStorageDir:    getEnv("PAYSLIP_STORAGE_DIR", "storage/payslips"),
		PayslipPublicBaseURL: getEnv("PAYSLIP_PUBLIC_BASE_URL", "/files/payslips"),
		RateLimitRPS:         getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBHost) == "" || strings.TrimSpace(c.DBName) == "" {
		return fmt.Errorf("DB_HOST and DB_NAME are required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
