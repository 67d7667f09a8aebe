package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	APIBaseURL     string
	WSURL          string
	ListenAddr     string
	TerminalID     string
	RedisAddr      string
	SessionTTL     time.Duration
	KafkaBroker    string
	KitchenTopic   string
	QRBaseURL      string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// Load reads the terminal configuration from the environment. A .env file in
// the working directory, when present, is loaded first and never overrides
// variables that are already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	redisAddr := ""
	if host := os.Getenv("REDIS_HOST"); host != "" {
		redisAddr = host + ":" + getEnv("REDIS_PORT", "6379")
	}

	return Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000/api"),
		WSURL:          getEnv("WS_URL", "ws://localhost:8000/ws"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8090"),
		TerminalID:     getEnv("TERMINAL_ID", "caixa-1"),
		RedisAddr:      redisAddr,
		SessionTTL:     getDuration("SESSION_TTL", 7*24*time.Hour),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		KitchenTopic:   getEnv("KITCHEN_TOPIC", "kitchen-tickets"),
		QRBaseURL:      getEnv("QR_BASE_URL", "http://localhost:3000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
	}
}

// MustInitRedis returns nil when no address is configured; remember-me
// sessions are then kept in memory only.
func MustInitRedis(addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaWriter(broker, topic string) *kafka.Writer {
	if broker == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
