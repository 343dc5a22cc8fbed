package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Debug       bool
	LogLevel    string
	CORSOrigins []string

	DBUrl    string
	RedisURL string

	Session SessionConfig
	OTP     OTPConfig
	Mail    MailConfig
	Archive ArchiveConfig

	NATSUrl string

	SeedAdminEmail    string
	SeedAdminPassword string

	CheckEmailDomain bool
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

type OTPConfig struct {
	TTL time.Duration
	// FailOpen reports a successful OTP request even when delivery fails.
	FailOpen bool
}

type MailConfig struct {
	Server     string
	Port       int
	Username   string
	Password   string
	Sender     string
	SenderName string

	MailerSendAPIKey string
}

type ArchiveConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func Load() *Config {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Debug:       getBool("APP_DEBUG", false),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getList("CORS_ORIGINS"),

		DBUrl:    getEnv("DATABASE_URL", "sqlite://restaurant.db"),
		RedisURL: getEnv("REDIS_URL", ""),

		Session: SessionConfig{
			Secret:       getEnv("SECRET_KEY", "dev_key"),
			TTL:          getDuration("SESSION_TTL", 24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE", "restaurant_session"),
			CookieSecure: getBool("COOKIE_SECURE", false),
		},

		OTP: OTPConfig{
			TTL:      getDuration("OTP_TTL", 10*time.Minute),
			FailOpen: getBool("OTP_FAIL_OPEN", true),
		},

		Mail: MailConfig{
			Server:           getEnv("MAIL_SERVER", "smtp.gmail.com"),
			Port:             getInt("MAIL_PORT", 587),
			Username:         getEnv("MAIL_USERNAME", ""),
			Password:         getEnv("MAIL_PASSWORD", ""),
			Sender:           getEnv("MAIL_SENDER", "noreply@restaurant-app.com"),
			SenderName:       getEnv("MAIL_SENDER_NAME", "Restaurant App"),
			MailerSendAPIKey: getEnv("MAILERSEND_API_KEY", ""),
		},

		Archive: ArchiveConfig{
			Bucket:    getEnv("ARCHIVE_S3_BUCKET", ""),
			Region:    getEnv("ARCHIVE_S3_REGION", "us-east-1"),
			Endpoint:  getEnv("ARCHIVE_S3_ENDPOINT", ""),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},

		NATSUrl: getEnv("NATS_URL", ""),

		SeedAdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		CheckEmailDomain: getBool("CHECK_EMAIL_DOMAIN", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getDuration accepts Go durations ("15m") or plain seconds ("900").
func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

// UsesSQLite reports whether DATABASE_URL points at a sqlite file.
func (c *Config) UsesSQLite() bool {
	return strings.HasPrefix(c.DBUrl, "sqlite://") || strings.HasPrefix(c.DBUrl, "file:")
}

// SQLitePath strips the sqlite:// scheme; file: DSNs pass through.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DBUrl, "sqlite://")
}
