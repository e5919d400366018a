// Package model holds the booking domain types shared by the service,
// repository and transport layers, together with the sentinel errors that
// callers use to tell failure kinds apart.
package model

import "errors"

// Failures detected while creating a booking.  They are checked in this
// order and the first one wins.
var (
    ErrInvalidInterval = errors.New("invalid interval: start must be before end")
    ErrRoomNotFound    = errors.New("room not found")
    ErrUserNotFound    = errors.New("user not found")
    ErrSlotConflict    = errors.New("time slot already booked")
)

var (
    ErrBookingNotFound   = errors.New("booking not found")
    ErrInvalidTransition = errors.New("invalid status transition")
)

// ErrValidation marks pagination or filter parameters outside the contract.
var ErrValidation = errors.New("validation error")

// ErrStorage is returned when the store keeps failing with transient errors
// after the bounded number of retries.
var ErrStorage = errors.New("storage error")
