package config

import (
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the audit outbox relay.
type RelayConfig struct {
	DatabaseURL    string
	RabbitMQURL    string
	AuditQueueName string
	HealthAddr     string
}

func LoadRelayConfig() *RelayConfig {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:    dbURL,
		RabbitMQURL:    rabbitURL,
		AuditQueueName: getEnv("AUDIT_QUEUE_NAME", "console_audit"),
		HealthAddr:     getEnv("RELAY_HEALTH_ADDR", ":8081"),
	}
}
