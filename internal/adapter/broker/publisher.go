// Package broker publishes SLA alerts to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type connection interface {
	Close() error
}

var dial = func(url string) (connection, channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// Publisher sends alerts as JSON to a fanout exchange.
type Publisher struct {
	mu       sync.Mutex
	conn     connection
	ch       channel
	exchange string
	logger   *slog.Logger
}

type alertMessage struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Severity string    `json:"severity"`
	OrderID  string    `json:"orderId"`
	Minutes  int       `json:"minutes"`
	Message  string    `json:"message"`
	RaisedAt time.Time `json:"raisedAt"`
}

// Dial connects to url and declares exchange as a durable fanout.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect broker: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	logger.Info("alert publisher connected", slog.String("exchange", exchange))
	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// Notify publishes alert. Publishing is serialized over the single channel.
func (p *Publisher) Notify(ctx context.Context, alert model.Alert) error {
	body, err := json.Marshal(alertMessage{
		ID:       alert.ID,
		Kind:     string(alert.Kind),
		Severity: string(alert.Severity),
		OrderID:  alert.OrderID,
		Minutes:  alert.Minutes,
		Message:  alert.Message,
		RaisedAt: alert.RaisedAt,
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    alert.ID,
		Type:         string(alert.Kind),
		Timestamp:    alert.RaisedAt.UTC(),
		Body:         body,
	})
	if err != nil {
		p.logger.Error("alert publish failed", slog.String("alert", alert.ID), slog.String("error", err.Error()))
		return fmt.Errorf("publish alert %s: %w", alert.ID, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
