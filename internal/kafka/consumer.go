package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded appointment event.
type EventHandler func(ctx context.Context, event AppointmentEvent) error

type Consumer struct {
	reader *kafka.Reader
	log    zerolog.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log zerolog.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads appointment events until the context is canceled or the
// handler fails.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.dispatch(ctx, msg, handler); err != nil {
			return err
		}
	}
}

// dispatch decodes one message and hands it to the handler. A payload that
// does not decode is logged and skipped so a poison message cannot wedge the
// consumer group.
func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message, handler EventHandler) error {
	var event AppointmentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Error().Err(err).
			Str("topic", msg.Topic).
			Int64("offset", msg.Offset).
			Msg("dropping undecodable appointment event")
		return nil
	}
	return handler(ctx, event)
}
