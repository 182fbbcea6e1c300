package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	LocalDeployment bool
	MongoURI        string
	MongoDB         string
	SQLitePath      string
	RedisAddr       string
	UseKafka        bool
	KafkaBrokers    []string
	ClickHouseAddr  string
	ClickHouseDB    string
	JWTSecret       string
	JWTIssuer       string
	GoogleClientID  string
	SessionTTL      time.Duration
	CacheTTL        time.Duration
	HTTPPort        string
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		LocalDeployment: getEnv("LOCAL_DEPLOYMENT", "") == "true",
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "vivento"),
		SQLitePath:      getEnv("SQLITE_PATH", "./vivento.db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		UseKafka:        getEnv("USE_KAFKA", "") == "true",
		KafkaBrokers:    kafkaBrokers,
		ClickHouseAddr:  getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDB:    getEnv("CLICKHOUSE_DB", "vivento"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:       getEnv("JWT_ISSUER", "vivento"),
		GoogleClientID:  getEnv("GOOGLE_CLIENT_ID", ""),
		SessionTTL:      24 * time.Hour,
		CacheTTL:        5 * time.Minute,
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
	}
}
