// Package queue carries booking lifecycle events over RabbitMQ: a publisher
// used by the booking service and a consumer that keeps an append-only audit
// log of every event.
package queue

import (
    "encoding/json"
    "fmt"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
)

// AllBookingEvents is the topic pattern matching every booking event kind.
const AllBookingEvents = "booking.#"

func encodeEvent(ev model.BookingEvent) ([]byte, error) {
    b, err := json.Marshal(ev)
    if err != nil {
        return nil, fmt.Errorf("marshal %s: %w", ev.Kind, err)
    }
    return b, nil
}

func decodeEvent(body []byte) (model.BookingEvent, error) {
    var ev model.BookingEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return model.BookingEvent{}, fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Kind == "" || ev.BookingID == 0 {
        return model.BookingEvent{}, fmt.Errorf("unmarshal: incomplete event")
    }
    return ev, nil
}
