package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	MongoURI      string
	MongoDBName   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	AdminPassword string

	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	KeepAliveInterval time.Duration

	MaxRequestBodySize int64
	AllowedOrigins     []string
}

// Load reads configuration from the environment, with a .env file as
// fallback. An empty MONGODB_URI selects the in-memory store; an empty
// REDIS_ADDR disables the product cache.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:      getEnv("PORT", "3000"),
		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDBName:   getEnv("MONGO_DB_NAME", "ecommerce"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:   10 * time.Second,
		KeepAliveInterval: getDuration("KEEPALIVE_INTERVAL", 10*time.Minute),

		MaxRequestBodySize: 10 << 20, // 10MB
		AllowedOrigins:     strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
