package ports

import "errors"

// ErrStatusChanged is returned by BookingStore.SetStatus when another
// writer changed the status between the caller's read and its update.
var ErrStatusChanged = errors.New("booking status changed concurrently")
