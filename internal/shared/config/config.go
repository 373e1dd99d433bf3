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

	DBHost       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBPort       string
	DBSSLMode    string
	DBMaxRetries int

	RedisAddr   string
	KafkaBroker string
	JWTSecret   string

	PayslipStorageDir    string
	PayslipPublicBaseURL string
	PayrollCron          string
	OutboxPollInterval   time.Duration
	AttendanceTimezone   string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("APP_ENV", "development"),

		DBHost:       getEnv("DB_HOST", "localhost"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "emplystack"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		DBMaxRetries: getEnvInt("DB_MAX_RETRIES", 5),

		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		PayslipStorageDir:    getEnv("PAYSLIP_STORAGE_DIR", "./storage/payslips"),
		PayslipPublicBaseURL: getEnv("PAYSLIP_PUBLIC_BASE_URL", "/files/payslips"),
		PayrollCron:          getEnv("PAYROLL_CRON", "0 2 1 * *"),
		OutboxPollInterval:   getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		AttendanceTimezone:   getEnv("ATTENDANCE_TZ", "UTC"),

		ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// AttendanceLocation is the zone in which the working day and the late
// threshold are evaluated. An unknown zone falls back to UTC.
func (c Config) AttendanceLocation() *time.Location {
	loc, err := time.LoadLocation(c.AttendanceTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks the settings every binary needs. Kafka is checked by the
// binaries that talk to it.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBHost) == "" || strings.TrimSpace(c.DBName) == "" {
		return fmt.Errorf("DB_HOST and DB_NAME are required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.DBMaxRetries < 1 {
		return fmt.Errorf("DB_MAX_RETRIES must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
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
