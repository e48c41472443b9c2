package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerHost     string
	APIPort        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string
	ReportsTopic string

	// Hugging Face inference
	HFAPIToken     string
	HFBaseURL      string
	HFModel        string
	HFICDModel     string
	HFTimeout      time.Duration
	HFMaxNewTokens int

	// Clinical data
	ICDCatalogPath    string
	EHRDataPath       string
	SummaryHistoryCap int

	// Report cache
	ReportCacheTTL time.Duration

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		APIPort:        getEnv("API_PORT", "7860"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 60*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 16*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "clinscribe"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "clinscribe123"),
		PostgresDB:       getEnv("POSTGRES_DB", "clinscribe"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "clinscribe-platform"),
		ReportsTopic: getEnv("KAFKA_REPORTS_TOPIC", "reports"),

		HFAPIToken:     getEnv("HF_API_TOKEN", ""),
		HFBaseURL:      getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
		HFModel:        getEnv("HF_MODEL", "google/gemma-2-2b-it"),
		HFICDModel:     getEnv("HF_ICD_MODEL", getEnv("HF_MODEL", "google/gemma-2-2b-it")),
		HFTimeout:      getDuration("HF_TIMEOUT", 60*time.Second),
		HFMaxNewTokens: getIntEnv("HF_MAX_NEW_TOKENS", 512),

		ICDCatalogPath:    getEnv("ICD_CATALOG_PATH", ""),
		EHRDataPath:       getEnv("EHR_DATA_PATH", ""),
		SummaryHistoryCap: getIntEnv("SUMMARY_HISTORY_CAP", 50),

		ReportCacheTTL: getDuration("REPORT_CACHE_TTL", 10*time.Minute),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
