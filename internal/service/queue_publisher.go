// Package service holds integrations that sit beside the request path.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/campus-inventory/internal/queue"
)

// BookingPublisher publishes booking events to RabbitMQ.  Each publish dials
// its own connection; booking edits are rare enough that a pooled channel
// is not worth the reconnect handling.
type BookingPublisher struct {
	URL string
	// dial is swapped in tests.
	dial func(url string) (amqpConn, error)
}

type amqpConn interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

func NewBookingPublisher(url string) *BookingPublisher {
	return &BookingPublisher{URL: url}
}

// PublishBookingChanged sends event to the durable space.booking queue as a
// persistent JSON message.  Errors are returned for the caller to log.
func (p *BookingPublisher) PublishBookingChanged(ctx context.Context, event q.BookingChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	dial := p.dial
	if dial == nil {
		dial = func(url string) (amqpConn, error) { return amqp.Dial(url) }
	}
	conn, err := dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.BookingQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",             // default exchange
		q.BookingQueue, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}
