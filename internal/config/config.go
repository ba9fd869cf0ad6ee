// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	App    AppConfig
	Plan   PlanConfig
	Cache  CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	UploadDir string
	DataDir   string
}

// PlanConfig holds the replenishment computation defaults.
type PlanConfig struct {
	WindowDays int    // trailing demand window length in days
	OpenStatus string // sales/orders status value that marks an open order
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	PlanTTLSeconds int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_DATA_DIR", "./data/output")
		viper.SetDefault("PLAN_WINDOW_DAYS", 30)
		viper.SetDefault("PLAN_OPEN_STATUS", "open")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PLAN_TTL_SECONDS", 60)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure upload and data directories exist
		ensureDir(viper.GetString("APP_UPLOAD_DIR"))
		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				UploadDir: viper.GetString("APP_UPLOAD_DIR"),
				DataDir:   viper.GetString("APP_DATA_DIR"),
			},
			Plan: PlanConfig{
				WindowDays: viper.GetInt("PLAN_WINDOW_DAYS"),
				OpenStatus: viper.GetString("PLAN_OPEN_STATUS"),
			},
			Cache: CacheConfig{
				Enabled:        viper.GetBool("CACHE_ENABLED"),
				RedisURL:       viper.GetString("REDIS_URL"),
				RedisHost:      viper.GetString("REDIS_HOST"),
				RedisPort:      viper.GetString("REDIS_PORT"),
				RedisPassword:  viper.GetString("REDIS_PASSWORD"),
				RedisDB:        viper.GetInt("REDIS_DB"),
				PlanTTLSeconds: viper.GetInt("CACHE_PLAN_TTL_SECONDS"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
