package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultPrefetch = 10

type Notifications struct {
	RabbitMQURL     string
	Prefetch        int
	ShutdownTimeout time.Duration
}

// LoadNotifications reads the consumer settings. NOTIFICATIONS_PREFETCH caps
// unacknowledged deliveries; SHUTDOWN_TIMEOUT bounds the drain on exit.
func LoadNotifications() (Notifications, error) {
	cfg := Notifications{
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
	}
	if cfg.RabbitMQURL == "" {
		return Notifications{}, fmt.Errorf("RABBITMQ_URL is required")
	}

	var err error
	if cfg.Prefetch, err = getPositiveInt("NOTIFICATIONS_PREFETCH", defaultPrefetch); err != nil {
		return Notifications{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Notifications{}, err
	}

	return cfg, nil
}

func getPositiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}
