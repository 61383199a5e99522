package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv                 string
	LogLevel               slog.Level
	LogFile                string
	ApiServicePort         string
	PostgreSQLHost         string
	PostgreSQLPort         int64
	PostgreSQLUser         string
	PostgreSQLPassword     string
	PostgreSQLDatabase     string
	JWTSecret              string
	AccessTokenExpiration  int64 // seconds
	RefreshTokenExpiration int64 // seconds
	RedisHost              string
	RedisPort              int64
	RedisPassword          string
	RedisDatabase          int64
	RecentTweetsCacheTTL   int64 // seconds, 0 disables caching
	TokenCleanupInterval   int64 // seconds, 0 disables the cleanup job
	ShutdownTimeout        int64 // seconds
}

var defaults = map[string]any{
	"APP_ENV":                  "development",
	"LOG_LEVEL":                "INFO",
	"LOG_FILE":                 "",
	"API_SERVICE_PORT":         "8080",
	"POSTGRESQL_HOST":          "db",
	"POSTGRESQL_PORT":          5432,
	"POSTGRESQL_USER":          "speertweet_user",
	"POSTGRESQL_PASSWORD":      "speertweet_password",
	"POSTGRESQL_DATABASE":      "speertweet_db",
	"JWT_SECRET":               "speertweet_secret",
	"ACCESS_TOKEN_EXPIRATION":  300,   // 5 minutes
	"REFRESH_TOKEN_EXPIRATION": 86400, // 1 day
	"REDIS_HOST":               "redis",
	"REDIS_PORT":               6379,
	"REDIS_PASSWORD":           "",
	"REDIS_DATABASE":           0,
	"RECENT_TWEETS_CACHE_TTL":  30,
	"TOKEN_CLEANUP_INTERVAL":   3600,
	"SHUTDOWN_TIMEOUT":         10,
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	// A missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return &Config{
		AppEnv:                 v.GetString("APP_ENV"),
		LogLevel:               parseLogLevel(v.GetString("LOG_LEVEL")),
		LogFile:                v.GetString("LOG_FILE"),
		ApiServicePort:         v.GetString("API_SERVICE_PORT"),
		PostgreSQLHost:         v.GetString("POSTGRESQL_HOST"),
		PostgreSQLPort:         getInt64(v, "POSTGRESQL_PORT"),
		PostgreSQLUser:         v.GetString("POSTGRESQL_USER"),
		PostgreSQLPassword:     v.GetString("POSTGRESQL_PASSWORD"),
		PostgreSQLDatabase:     v.GetString("POSTGRESQL_DATABASE"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		AccessTokenExpiration:  getInt64(v, "ACCESS_TOKEN_EXPIRATION"),
		RefreshTokenExpiration: getInt64(v, "REFRESH_TOKEN_EXPIRATION"),
		RedisHost:              v.GetString("REDIS_HOST"),
		RedisPort:              getInt64(v, "REDIS_PORT"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDatabase:          getInt64(v, "REDIS_DATABASE"),
		RecentTweetsCacheTTL:   getInt64(v, "RECENT_TWEETS_CACHE_TTL"),
		TokenCleanupInterval:   getInt64(v, "TOKEN_CLEANUP_INTERVAL"),
		ShutdownTimeout:        getInt64(v, "SHUTDOWN_TIMEOUT"),
	}
}

// PostgresDSN builds the connection string used by gorm and the migrate tool.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiration) * time.Second
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiration) * time.Second
}

// getInt64 falls back to the registered default when the env value is not a number.
func getInt64(v *viper.Viper, key string) int64 {
	value, err := castInt64(v.Get(key))
	if err != nil {
		fallback, _ := castInt64(defaults[key])
		return fallback
	}
	return value
}

func castInt64(raw any) (int64, error) {
	switch value := raw.(type) {
	case int:
		return int64(value), nil
	case int64:
		return value, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported value %v", raw)
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
