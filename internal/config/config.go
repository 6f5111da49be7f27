package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	TrustedProxies []string
	CORSOrigins    []string

	DbDriver       string
	DbHost         string
	DbPort         string
	DbUser         string
	DbPassword     string
	DbName         string
	DbParams       string
	DbMaxOpenConns int
	SqlitePath     string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	FirebaseCredentials string
	NotifyTimeout       time.Duration

	LogFile          string
	LogMaxSizeMB     int
	LogMaxBackups    int
	LogMaxAgeDays    int
	TranslationsPath string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		TrustedProxies: parseList(os.Getenv("TRUSTED_PROXIES")),
		CORSOrigins:    parseList(os.Getenv("CORS_ORIGINS")),

		DbDriver:       getEnv("DB_DRIVER", "mysql"),
		DbHost:         getEnv("MYSQL_HOST", "db"),
		DbPort:         getEnv("MYSQL_PORT", "3306"),
		DbUser:         getEnv("MYSQL_USER", "hrms"),
		DbPassword:     getEnv("MYSQL_PASSWORD", "hrms"),
		DbName:         getEnv("MYSQL_DATABASE", "hrms_tasks"),
		DbParams:       getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true&loc=UTC"),
		DbMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 20),
		SqlitePath:     getEnv("SQLITE_PATH", "tasks.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@hrms.local"),

		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),
		NotifyTimeout:       getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),

		LogFile:          os.Getenv("LOG_FILE"),
		LogMaxSizeMB:     getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:    getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays:    getEnvInt("LOG_MAX_AGE_DAYS", 28),
		TranslationsPath: getEnv("TRANSLATIONS_PATH", "pkg/translator/translation"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func parseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	return items
}
