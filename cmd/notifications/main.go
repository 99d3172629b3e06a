package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-tracker/internal/config"
	"inventory-tracker/internal/notifications"
	"inventory-tracker/internal/products"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

var queue string

var rootCmd = &cobra.Command{
	Use:           "notifications",
	Short:         "Consume inventory events and raise low-stock alerts",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadNotifications()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return consume(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&queue, "queue", products.EventsQueue, "queue to consume")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("notifications failed", "error", err)
		os.Exit(1)
	}
}

func consume(parent context.Context, cfg config.Notifications) error {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer conn.Close()

	consumer, err := notifications.NewConsumer(conn, queue, cfg.Prefetch, logger)
	if err != nil {
		return fmt.Errorf("init consumer: %w", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		logger.Info("inventory notifications started", "queue", queue, "prefetch", cfg.Prefetch)
		done <- consumer.Listen(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("consume: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Listen returns once the in-flight delivery is acked.
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("stop consumer: %w", err)
			}
		case <-time.After(cfg.ShutdownTimeout):
			logger.Warn("consumer shutdown timeout reached", "timeout", cfg.ShutdownTimeout)
		}
	}

	logger.Info("inventory notifications stopped")
	return nil
}
