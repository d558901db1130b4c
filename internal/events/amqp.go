// Package events delivers domain events to the fulfillment process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jcmexdev/foodcart/internal/core/ports"
)

// AMQPDispatcher publishes events as JSON to a durable topic exchange,
// routed by event type (e.g. "order.placed").
type AMQPDispatcher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

func DialAMQP(uri, exchange string) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("events: connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: declare exchange %q: %w", exchange, err)
	}

	return &AMQPDispatcher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, ev ports.Event) error {
	msg, err := newPublishing(ev, time.Now())
	if err != nil {
		return err
	}

	// A channel must not be used for concurrent publishes.
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ch.PublishWithContext(ctx, d.exchange, ev.Type(), false, false, msg); err != nil {
		return fmt.Errorf("events: publish %s: %w", ev.Type(), err)
	}
	return nil
}

func (d *AMQPDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_ = d.ch.Close()
	return d.conn.Close()
}

func newPublishing(ev ports.Event, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("events: encode %s: %w", ev.Type(), err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type(),
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

// LogDispatcher only logs events. It is used when no broker is configured.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, ev ports.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", ev.Type(), err)
	}
	slog.InfoContext(ctx, "event", "type", ev.Type(), "body", string(body))
	return nil
}
