package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
)

// Channel is the slice of *amqp.Channel the publisher needs
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch     Channel
	queue  string
	logger *zap.Logger
}

// NewPublisher opens a channel and declares the order queue so publishing
// never fails on missing infrastructure
func NewPublisher(conn *amqp.Connection, queue string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare %s: %w", queue, err)
	}

	return newPublisher(ch, queue, logger), nil
}

func newPublisher(ch Channel, queue string, logger *zap.Logger) *Publisher {
	return &Publisher{ch: ch, queue: queue, logger: logger}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *domain.Order) error {
	body, err := json.Marshal(NewOrderPlaced(o))
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(
		pubCtx,
		"",      // default exchange
		p.queue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    o.ID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish OrderPlaced: %w", err)
	}

	p.logger.Debug("Published order placed event", zap.String("order_id", o.ID), zap.String("queue", p.queue))
	return nil
}

// LogPublisher stands in when no broker is configured
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishOrderPlaced(_ context.Context, o *domain.Order) error {
	p.logger.Info("Order placed event (no broker configured)",
		zap.String("order_id", o.ID),
		zap.String("total", o.Totals.Total.StringFixed(2)),
	)
	return nil
}
