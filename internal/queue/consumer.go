package queue

import (
    "context"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sync"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
)

// AuditConsumer binds a durable queue to every booking event and appends one
// line per event to an audit log file.
type AuditConsumer struct {
    URL      string
    Exchange string
    Queue    string
    LogPath  string
    Logger   *log.Logger

    mu sync.Mutex
}

// Run connects and consumes until ctx is cancelled, reconnecting with a
// capped exponential backoff whenever the broker goes away.
func (c *AuditConsumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            c.Logger.Warnj(log.JSON{"msg": "audit consumer dial failed", "err": err.Error(), "retry_in": backoff.String()})
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.Logger.Warnj(log.JSON{"msg": "audit consumer loop ended", "err": err.Error()})
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.Logger.Warnj(log.JSON{"msg": "audit consumer qos failed", "err": err.Error()})
    }
    if err := ch.ExchangeDeclare(c.Exchange, "topic", true, false, false, false, nil); err != nil {
        return fmt.Errorf("exchange declare: %w", err)
    }
    q, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    if err := ch.QueueBind(q.Name, AllBookingEvents, c.Exchange, false, nil); err != nil {
        return fmt.Errorf("queue bind: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := c.handleMessage(d.Body); err != nil {
            c.Logger.Warnj(log.JSON{"msg": "audit consumer rejected message", "message_id": d.MessageId, "err": err.Error()})
            _ = d.Nack(false, false) // do not requeue; a bad payload would loop forever
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func (c *AuditConsumer) handleMessage(body []byte) error {
    ev, err := decodeEvent(body)
    if err != nil {
        return err
    }
    return c.appendLine(formatAuditLine(ev))
}

func (c *AuditConsumer) appendLine(line string) error {
    c.mu.Lock()
    defer c.mu.Unlock()
    if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
        return fmt.Errorf("mkdir audit dir: %w", err)
    }
    f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open audit log: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write audit log: %w", err)
    }
    return nil
}

func formatAuditLine(ev model.BookingEvent) string {
    status := string(ev.Status)
    if ev.PrevStatus != "" {
        status = string(ev.PrevStatus) + "->" + status
    }
    return fmt.Sprintf("[%s] %s | booking_id=%d | room_id=%d | user_id=%d | slot=%s/%s | status=%s\n",
        ev.OccurredAt.UTC().Format(time.RFC3339), ev.Kind, ev.BookingID, ev.RoomID, ev.UserID,
        ev.StartTime.UTC().Format(time.RFC3339), ev.EndTime.UTC().Format(time.RFC3339), status)
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
