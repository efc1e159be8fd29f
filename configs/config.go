package configs

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort      string
	SchemaFields string
	Seed         bool

	RateLimitRPM int
	RedisHost    string
	RedisPort    string

	KafkaBrokerURL string
	KafkaTopic     string
}

func LoadConfig() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", ":8080"),
		SchemaFields:   getEnv("BLOG_SCHEMA_FIELDS", ""),
		Seed:           getEnv("BLOG_SEED", "true") != "false",
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 10),
		RedisHost:      getEnv("REDIS_HOST", ""),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		KafkaBrokerURL: getEnv("KAFKA_BOOTSTRAP_SERVERS", ""),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "posts.events"),
	}
}

func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
