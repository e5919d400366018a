package config

import (
    "time"

    "github.com/kelseyhightower/envconfig"
)

// BookingConfig tunes the reservation engine.  Variables carry the
// BOOKING_ prefix, e.g. BOOKING_MAX_PAGE_SIZE.
type BookingConfig struct {
    // MaxPageSize is exclusive: page_size must be in [1, MaxPageSize).
    MaxPageSize        int           `envconfig:"MAX_PAGE_SIZE" default:"3"`
    DefaultRangeWindow time.Duration `envconfig:"DEFAULT_RANGE_WINDOW" default:"1h"`
    LookupTimeout      time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"5s"`
    PublishTimeout     time.Duration `envconfig:"PUBLISH_TIMEOUT" default:"2s"`
    CreateRetries      int           `envconfig:"CREATE_RETRY_ATTEMPTS" default:"3"`
    CreateRetryDelay   time.Duration `envconfig:"CREATE_RETRY_DELAY" default:"50ms"`
}

// LoadBookingConfig reads BookingConfig from the environment.
func LoadBookingConfig() (BookingConfig, error) {
    var c BookingConfig
    if err := envconfig.Process("booking", &c); err != nil {
        return BookingConfig{}, err
    }
    return c, nil
}
