package config

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection from DATABASE_URL, or from the
// DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME variables when the URL is not
// set.
func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		name := envOr("DB_NAME", "ordering")
		sslmode := envOr("DB_SSLMODE", "disable")
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, name, sslmode)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// InitRedis builds the Redis client used for session cart persistence.
func InitRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

// KafkaBrokers returns the broker list for the order event publisher, or nil
// when event publishing is disabled.
func KafkaBrokers() []string {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return nil
	}
	return []string{broker}
}

// KafkaOrderTopic is the topic order.created events are published to.
func KafkaOrderTopic() string {
	return envOr("KAFKA_ORDER_TOPIC", "orders.created")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
