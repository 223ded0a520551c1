package main

import (
	"os"
	"strings"
)

type Config struct {
	Port            string
	Env             string
	TossSecretKey   string
	TossBaseURL     string
	UseMockGateway  bool
	RedisURL        string
	KafkaBrokers    []string
	SettlementTopic string
	ConsumerGroup   string
	EnableConsumer  bool
	InternalToken   string
}

func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		TossSecretKey:   os.Getenv("TOSS_SECRET_KEY"),
		TossBaseURL:     os.Getenv("TOSS_BASE_URL"),
		UseMockGateway:  getEnv("USE_MOCK_GATEWAY", "false") == "true",
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		SettlementTopic: getEnv("SETTLEMENTS_TOPIC", "settlements"),
		ConsumerGroup:   getEnv("SETTLEMENTS_CONSUMER_GROUP", "payments-app"),
		EnableConsumer:  getEnv("ENABLE_SETTLEMENTS_CONSUMER", "true") == "true",
		InternalToken:   os.Getenv("INTERNAL_API_TOKEN"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
