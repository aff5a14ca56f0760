package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange order events are published to.
const Exchange = "cafe_orders"

// AMQP publishes events as persistent JSON messages and waits for the broker confirm.
type AMQP struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	acks    <-chan amqp.Confirmation
	timeout time.Duration

	mu sync.Mutex
}

// DialAMQP connects to url and declares the exchange.
func DialAMQP(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 16))

	return &AMQP{conn: conn, ch: ch, acks: acks, timeout: 5 * time.Second}, nil
}

// Publish sends ev with its kind as routing key.
func (a *AMQP) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	tag := a.ch.GetNextPublishSeqNo()
	if err := a.ch.PublishWithContext(ctx, Exchange, ev.Kind, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    ev.At,
		Body:         body,
	}); err != nil {
		return err
	}

	return awaitConfirm(ctx, a.acks, tag)
}

var errConfirmsClosed = errors.New("amqp channel closed before confirm")

// awaitConfirm waits for the confirmation of delivery tag. Confirmations left
// over from earlier publishes that timed out are skipped.
func awaitConfirm(ctx context.Context, acks <-chan amqp.Confirmation, tag uint64) error {
	for {
		select {
		case conf, ok := <-acks:
			if !ok {
				return errConfirmsClosed
			}
			switch {
			case conf.DeliveryTag < tag:
				continue
			case conf.DeliveryTag > tag:
				return fmt.Errorf("confirm for delivery %d not received", tag)
			case !conf.Ack:
				return fmt.Errorf("broker rejected delivery %d", tag)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the channel and the connection.
func (a *AMQP) Close() error {
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
