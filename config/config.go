package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds the application configuration.
type Config struct {
	Port      int
	MongoURI  string
	MongoDB   string
	JWTKey    string
	RedisAddr string
	Debug     bool
}

// LoadConfig reads the configuration from environment variables. A .env file
// in the working directory is loaded automatically when present.
func LoadConfig() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	return &Config{
		Port:      port,
		MongoURI:  getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:   getEnv("MONGO_DB", "catalog"),
		JWTKey:    getEnv("JWT_KEY", "your-secret-key"),
		RedisAddr: getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		Debug:     getEnv("GIN_MODE", "debug") == "debug",
	}
}

// getEnv returns an environment variable or a default.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
