package domain

import "errors"

var (
	// ErrInsufficientFunds signals that the backend declined a reservation
	// because the project has no credit left.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrProtocolMisuse signals a programming error: a second reservation,
	// or a usage report without a prior successful reservation.
	ErrProtocolMisuse = errors.New("accounting protocol misuse")
	// ErrInvalidCount signals a negative count value.
	ErrInvalidCount = errors.New("count must be a non-negative integer")
	// ErrUnknownSubtype signals an unrecognized service subtype string.
	ErrUnknownSubtype = errors.New("unknown service subtype")
)

// ReservationError wraps any reservation failure other than insufficient
// funds: transport errors, unexpected statuses, unparseable responses.
type ReservationError struct {
	Err error
}

func (e *ReservationError) Error() string { return "reservation failed: " + e.Err.Error() }

func (e *ReservationError) Unwrap() error { return e.Err }

// NewReservationError wraps err as a reservation failure.
func NewReservationError(err error) error {
	return &ReservationError{Err: err}
}

// UsageError wraps any failure while reporting usage. The report was not
// acknowledged by the backend.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return "usage report failed: " + e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// NewUsageError wraps err as a usage report failure.
func NewUsageError(err error) error {
	return &UsageError{Err: err}
}
