// internal/config/config.go
package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Dashboard DashboardConfig
	Cache     CacheConfig
	SampleAPI SampleAPIConfig
	Tracing   TracingConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// BackendConfig points at the inventory backend the dashboard reads from.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

func (c BackendConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type DashboardConfig struct {
	RefreshSeconds   int
	ProductsPageSize int
	AlertsPageSize   int
}

func (c DashboardConfig) RefreshInterval() time.Duration {
	if c.RefreshSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RefreshSeconds) * time.Second
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	EmergencyTTLSeconds int
}

type SampleAPIConfig struct {
	Port string
	Seed int64
}

// TracingConfig controls span export. With tracing disabled the otelhttp
// wrappers stay in place but record nothing.
type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
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
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("BACKEND_BASE_URL", "http://localhost:5000")
		viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 10)
		viper.SetDefault("DASHBOARD_REFRESH_SECONDS", 30)
		viper.SetDefault("DASHBOARD_PRODUCTS_PAGE_SIZE", 10)
		viper.SetDefault("DASHBOARD_ALERTS_PAGE_SIZE", 5)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_EMERGENCY_TTL_SECONDS", 30)
		viper.SetDefault("SAMPLE_API_PORT", "5000")
		viper.SetDefault("SAMPLE_API_SEED", 42)
		viper.SetDefault("TRACING_ENABLED", false)
		viper.SetDefault("JAEGER_ENDPOINT", "http://localhost:14268/api/traces")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Backend: BackendConfig{
				BaseURL:        viper.GetString("BACKEND_BASE_URL"),
				TimeoutSeconds: viper.GetInt("BACKEND_TIMEOUT_SECONDS"),
			},
			Dashboard: DashboardConfig{
				RefreshSeconds:   viper.GetInt("DASHBOARD_REFRESH_SECONDS"),
				ProductsPageSize: viper.GetInt("DASHBOARD_PRODUCTS_PAGE_SIZE"),
				AlertsPageSize:   viper.GetInt("DASHBOARD_ALERTS_PAGE_SIZE"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				EmergencyTTLSeconds: viper.GetInt("CACHE_EMERGENCY_TTL_SECONDS"),
			},
			SampleAPI: SampleAPIConfig{
				Port: viper.GetString("SAMPLE_API_PORT"),
				Seed: viper.GetInt64("SAMPLE_API_SEED"),
			},
			Tracing: TracingConfig{
				Enabled:        viper.GetBool("TRACING_ENABLED"),
				JaegerEndpoint: viper.GetString("JAEGER_ENDPOINT"),
			},
		}
	})

	return instance
}
