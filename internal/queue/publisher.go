package queue

import (
    "context"
    "fmt"
    "sync"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
)

// Publisher sends booking events to a durable topic exchange using the event
// kind as routing key.  Messages are persistent.  A Publisher holds one
// connection and channel; Publish is safe for concurrent use.
type Publisher struct {
    mu       sync.Mutex
    conn     *amqp.Connection
    ch       *amqp.Channel
    exchange string
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, fmt.Errorf("rabbitmq: dial: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, fmt.Errorf("rabbitmq: channel open: %w", err)
    }
    if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, fmt.Errorf("rabbitmq: exchange declare: %w", err)
    }
    return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish implements ports.EventPublisher.
func (p *Publisher) Publish(ctx context.Context, ev model.BookingEvent) error {
    body, err := encodeEvent(ev)
    if err != nil {
        return err
    }
    msg := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    uuid.NewString(),
        Timestamp:    ev.OccurredAt,
        Type:         string(ev.Kind),
        Body:         body,
    }

    p.mu.Lock()
    defer p.mu.Unlock()
    if err := p.ch.PublishWithContext(ctx, p.exchange, string(ev.Kind), false, false, msg); err != nil {
        return fmt.Errorf("rabbitmq: publish %s: %w", ev.Kind, err)
    }
    return nil
}

func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.ch != nil {
        _ = p.ch.Close()
    }
    if p.conn != nil {
        return p.conn.Close()
    }
    return nil
}
