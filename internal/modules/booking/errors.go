package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMemberBlocked    = errors.New("member cannot book")
	ErrClassUnavailable = errors.New("class unavailable for booking")
	ErrDuplicateBooking = errors.New("member already booked this class")
	ErrLateCancellation = errors.New("cancellation window has closed")
	ErrNotFound         = errors.New("reservation not found")
	ErrForbidden        = errors.New("reservation belongs to another member")
	ErrInvalidState     = errors.New("reservation state does not allow this transition")
	ErrClassNotEnded    = errors.New("class has not ended yet")
)

// LateCancellationError carries how close to (or past) the class start
// the attempt was. It unwraps to ErrLateCancellation so callers can
// keep using errors.Is.
type LateCancellationError struct {
	Remaining time.Duration
}

func (e *LateCancellationError) Error() string {
	minutes := int(e.Remaining.Minutes())
	if minutes < 0 {
		return "cancellation window has closed: class already started"
	}
	return fmt.Sprintf("cancellation window has closed: %d minutes to class start", minutes)
}

func (e *LateCancellationError) Unwrap() error { return ErrLateCancellation }

// RemainingMinutes is the value surfaced in the error response details.
func (e *LateCancellationError) RemainingMinutes() int {
	m := int(e.Remaining.Minutes())
	if m < 0 {
		return 0
	}
	return m
}
