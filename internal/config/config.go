package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StoreMySQL    = "mysql"
	StorePostgres = "postgres"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Environment string
	ServerPort  string
	ServiceName string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	MySQLDSN      string
	PostgresDSN   string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret  string
	BcryptCost int
	OTPDigits  int

	Mail   MailConfig
	Cookie CookieConfig

	SwaggerHost       string
	TelemetryEndpoint string
	TelemetryInsecure bool
}

// MailConfig describes the SMTP relay used for verification emails.
// An empty Host selects the logging sender.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	SendTimeout time.Duration
}

// CookieConfig controls the auth cookie written next to token responses.
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	return &Config{
		Environment:   env,
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		ServiceName:   getEnv("SERVICE_NAME", "social-api"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "social_api"),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		PostgresDSN:   getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=app port=5432 sslmode=disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		BcryptCost:    getEnvInt("BCRYPT_COST", 10),
		OTPDigits:     getEnvInt("OTP_DIGITS", 4),
		Mail: MailConfig{
			Host:        os.Getenv("MAIL_HOST"),
			Port:        getEnvInt("MAIL_PORT", 587),
			Username:    os.Getenv("MAIL_USERNAME"),
			Password:    os.Getenv("MAIL_PASSWORD"),
			From:        getEnv("MAIL_FROM", "no-reply@localhost"),
			SendTimeout: getEnvDuration("MAIL_SEND_TIMEOUT", 10*time.Second),
		},
		Cookie: CookieConfig{
			Name:     getEnv("COOKIE_NAME", "commandcodes.social-api-token"),
			Secure:   getEnvBool("COOKIE_SECURE", env == "production"),
			SameSite: http.SameSiteLaxMode,
		},
		SwaggerHost:       os.Getenv("SWAGGER_HOST"),
		TelemetryEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
	}
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMySQL, StorePostgres:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWTSecret = "change-me"
	}
	if c.OTPDigits <= 0 {
		return fmt.Errorf("OTP_DIGITS must be positive")
	}
	if c.Mail.Host == "" && !c.IsDevelopment() {
		return fmt.Errorf("MAIL_HOST is required outside development")
	}
	if c.Mail.SendTimeout <= 0 {
		return fmt.Errorf("MAIL_SEND_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
