package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr        string
	PGHost          string
	PGPort          string
	PGUser          string
	PGPassword      string
	PGPrimaryDB     string
	RedisAddr       string
	KafkaBrokers    []string
	ConsumerGroup   string
	ConsumerWorkers int
	ServiceName     string
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":3000"),
		PGHost:          getenv("POSTGRES_HOST", "localhost"),
		PGPort:          getenv("POSTGRES_PORT", "5432"),
		PGUser:          getenv("POSTGRES_USER", "admin"),
		PGPassword:      getenv("POSTGRES_PASSWORD", "password"),
		PGPrimaryDB:     getenv("POSTGRES_DB", "postgres"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
		ConsumerGroup:   getenv("ORDER_CONSUMER_GROUP", "order-ingest"),
		ConsumerWorkers: atoi(getenv("ORDER_CONSUMER_WORKERS", "4")),
		ServiceName:     getenv("SERVICE_NAME", "tenant-order-api"),
	}
}

// PrimaryDSN points at the shared database used only for the startup
// reachability check. Tenant data never lives there.
func (c Config) PrimaryDSN() string {
	return c.dsn(c.PGPrimaryDB)
}

// TenantDSN maps a tenant id to its own database on the same server.
func (c Config) TenantDSN(tenantID string) string {
	return c.dsn(tenantID)
}

func (c Config) dsn(db string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, db)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return 1
	}
	return i
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
