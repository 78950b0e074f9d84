package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Admin      AdminConfig
	SMTP       SMTPConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// AdminConfig holds the dashboard administrator credentials.
// PasswordHash is a bcrypt hash, never the plain password.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// AttendanceConfig holds the scan and absence policy.
type AttendanceConfig struct {
	DedupWindow          time.Duration
	AbsenceThreshold     int
	AbsenceWindowDays    int
	StandardDailyMinutes int
	MorningExpectedIn    string
	AfternoonExpectedIn  string
	MorningCutoff        string
	ScanRatePerSecond    float64
	ScanRateBurst        int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "asistencia_qr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "America/Lima"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	config.Admin = AdminConfig{
		Username:     getEnv("ADMIN_USERNAME", "admin"),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("EMAIL_USER", ""),
		Password: getEnv("EMAIL_PASSWORD", ""),
		From:     getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),
		FromName: getEnv("EMAIL_FROM_NAME", "Sistema de Asistencia QR"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:5000/api/v1/uploads"),
	}

	// Attendance policy
	dedupWindow, err := time.ParseDuration(getEnv("SCAN_DEDUP_WINDOW", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCAN_DEDUP_WINDOW: %w", err)
	}
	absenceThreshold, err := strconv.Atoi(getEnv("ABSENCE_ALERT_THRESHOLD", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_ALERT_THRESHOLD: %w", err)
	}
	absenceWindow, err := strconv.Atoi(getEnv("ABSENCE_WINDOW_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_WINDOW_DAYS: %w", err)
	}
	standardHours, err := strconv.ParseFloat(getEnv("STANDARD_DAILY_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_DAILY_HOURS: %w", err)
	}
	scanRate, err := strconv.ParseFloat(getEnv("SCAN_RATE_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SCAN_RATE_PER_SECOND: %w", err)
	}
	scanBurst, err := strconv.Atoi(getEnv("SCAN_RATE_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCAN_RATE_BURST: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DedupWindow:          dedupWindow,
		AbsenceThreshold:     absenceThreshold,
		AbsenceWindowDays:    absenceWindow,
		StandardDailyMinutes: int(standardHours * 60),
		MorningExpectedIn:    getEnv("MORNING_EXPECTED_IN", "06:50"),
		AfternoonExpectedIn:  getEnv("AFTERNOON_EXPECTED_IN", "13:00"),
		MorningCutoff:        getEnv("MORNING_CUTOFF", "12:45"),
		ScanRatePerSecond:    scanRate,
		ScanRateBurst:        scanBurst,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	if c.Attendance.DedupWindow <= 0 {
		return fmt.Errorf("SCAN_DEDUP_WINDOW must be positive")
	}
	if c.Attendance.AbsenceThreshold < 1 {
		return fmt.Errorf("ABSENCE_ALERT_THRESHOLD must be at least 1")
	}
	if c.Attendance.AbsenceWindowDays < 1 {
		return fmt.Errorf("ABSENCE_WINDOW_DAYS must be at least 1")
	}
	if c.Attendance.StandardDailyMinutes <= 0 {
		return fmt.Errorf("STANDARD_DAILY_HOURS must be positive")
	}
	return nil
}

// Location returns the configured business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
