package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chatforge-io/chatforge/internal/config"
)

// DialFunc opens a RabbitMQ connection; the container provides one so the
// worker can redial after broker restarts.
type DialFunc func() (*amqp.Connection, error)

// tableCarrier adapts amqp.Table to TextMapCarrier for otel propagation.
type tableCarrier struct {
	table amqp.Table
}

func (c tableCarrier) Get(key string) string {
	if val, ok := c.table[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
		return fmt.Sprintf("%v", val)
	}
	return ""
}

func (c tableCarrier) Set(key, value string) {
	c.table[key] = value
}

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c.table))
	for k := range c.table {
		keys = append(keys, k)
	}
	return keys
}

type Publisher struct {
	ch  *amqp.Channel
	log *zap.Logger
	cfg *config.Config
}

func NewPublisher(conn *amqp.Connection, log *zap.Logger, cfg *config.Config) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.RabbitMQ.Exchange.ProjectEvents, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, log: log, cfg: cfg}, nil
}

func (p *Publisher) Close() error { return p.ch.Close() }

// PublishJSON publishes body to the project-events exchange under routingKey,
// carrying the current trace context in the message headers.
func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, body any) error {
	b, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	tracer := otel.Tracer(p.cfg.App.Name)
	ctx, span := tracer.Start(ctx, "rabbitmq.publish",
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", p.cfg.RabbitMQ.Exchange.ProjectEvents),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
		))
	defer span.End()

	headers := make(amqp.Table)
	otel.GetTextMapPropagator().Inject(ctx, tableCarrier{table: headers})

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
		Headers:      headers,
	}

	if err := p.ch.PublishWithContext(ctx, p.cfg.RabbitMQ.Exchange.ProjectEvents, routingKey, false, false, publishing); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Int("messaging.message.body.size", len(b)))
	return nil
}

type Consumer struct {
	ch  *amqp.Channel
	q   amqp.Queue
	log *zap.Logger
	cfg *config.Config
}

// NewConsumer binds a durable queue to the project-events exchange for every
// routing key in bindKeys.
func NewConsumer(conn *amqp.Connection, log *zap.Logger, cfg *config.Config, bindKeys []string) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	prefetch := cfg.RabbitMQ.Queue.Prefetch
	if prefetch <= 0 {
		prefetch = 10
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.RabbitMQ.Exchange.ProjectEvents, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare(cfg.RabbitMQ.Queue.ProjectEvents, true, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	for _, key := range bindKeys {
		if err := ch.QueueBind(q.Name, key, cfg.RabbitMQ.Exchange.ProjectEvents, false, nil); err != nil {
			return nil, err
		}
	}
	return &Consumer{ch: ch, q: q, log: log, cfg: cfg}, nil
}

func (c *Consumer) Close() error { return c.ch.Close() }

// Consume delivers messages to handle until ctx is done. The trace context is
// extracted from the AMQP headers so downstream spans join the producer trace.
func (c *Consumer) Consume(ctx context.Context, handle func(ctx context.Context, routingKey string, body []byte) error) error {
	deliveries, err := c.ch.Consume(c.q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			msgCtx := otel.GetTextMapPropagator().Extract(ctx, tableCarrier{table: d.Headers})
			if err := handle(msgCtx, d.RoutingKey, d.Body); err != nil {
				c.log.Warn("event handling failed",
					zap.String("routing_key", d.RoutingKey),
					zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
