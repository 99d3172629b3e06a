package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"inventory-tracker/internal/products"
	"inventory-tracker/internal/products/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
)

const consumerTag = "inventory-notifications"

type Consumer struct {
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

// NewConsumer opens a channel on conn that holds at most prefetch unacked
// deliveries from queue.
func NewConsumer(conn *amqp.Connection, queue string, prefetch int, logger *slog.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := messaging.DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("set prefetch %d: %w", prefetch, err)
	}

	return &Consumer{
		channel: ch,
		queue:   queue,
		logger:  logger,
	}, nil
}

func (c *Consumer) Listen(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queue,
		consumerTag,
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume queue %q: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}

			if err := c.handle(msg.Body); err != nil {
				// A body that does not decode will never decode; requeueing it
				// would loop forever.
				c.logger.Error("handle message failed", "message_id", msg.MessageId, "error", err)
				_ = msg.Nack(false, false)
				continue
			}

			_ = msg.Ack(false)
		}
	}
}

func (c *Consumer) handle(body []byte) error {
	var event products.ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	switch event.EventType {
	case products.EventLowStock:
		c.logger.Warn("low stock alert",
			"product_id", event.ProductID,
			"name", event.Name,
			"quantity", event.Quantity,
			"low_stock_threshold", event.LowStockThreshold,
			"out_of_stock", event.Quantity == 0,
		)
	case products.EventCreated, products.EventUpdated, products.EventDeleted:
		c.logger.Info("inventory event",
			"event_type", event.EventType,
			"product_id", event.ProductID,
			"name", event.Name,
			"quantity", event.Quantity,
			"timestamp", event.Timestamp,
		)
	default:
		return fmt.Errorf("unknown event type %q", event.EventType)
	}

	return nil
}

func (c *Consumer) Close() error {
	return c.channel.Close()
}
