// Package service holds outbound integrations used by the request path.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/shop-reservation/internal/queue"
)

// Publisher sends domain events to RabbitMQ through the default exchange.
// Each publish dials its own connection, so a broker outage never leaves
// a broken connection behind; reservation volume is low enough for that.
// The whole publish, handshake included, is bounded by timeout.
type Publisher struct {
	url     string
	queue   string
	timeout time.Duration
	log     *slog.Logger
	dial    func(ctx context.Context, url string) (*amqp.Connection, error)
}

// NewPublisher returns a publisher for the given broker URL and queue.
func NewPublisher(url, queueName string, log *slog.Logger) *Publisher {
	if queueName == "" {
		queueName = queue.ReservationCreatedQueue
	}
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{url: url, queue: queueName, timeout: 3 * time.Second, log: log, dial: dialContext}
}

// PublishReservationCreated publishes ev as a persistent JSON message.
// Errors are logged and returned; callers treat them as non-fatal.
func (p *Publisher) PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.publish(ctx, body); err != nil {
		p.log.Warn("rabbitmq: publish failed", "queue", p.queue, "reservation_id", ev.ReservationID, "error", err)
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(ctx, p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// dialContext connects to url with the TCP dial and the AMQP handshake
// both bounded by ctx. amqp091 clears the deadline once the connection is
// open.
func dialContext(ctx context.Context, url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			var d net.Dialer
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if deadline, ok := ctx.Deadline(); ok {
				if err := conn.SetDeadline(deadline); err != nil {
					_ = conn.Close()
					return nil, err
				}
			}
			return conn, nil
		},
	})
}
