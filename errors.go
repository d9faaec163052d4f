package accrue

import "github.com/kailas-cloud/accrue/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInsufficientFunds = domain.ErrInsufficientFunds
	ErrProtocolMisuse    = domain.ErrProtocolMisuse
	ErrInvalidCount      = domain.ErrInvalidCount
	ErrUnknownSubtype    = domain.ErrUnknownSubtype
)

// ReservationError wraps reservation failures other than insufficient
// funds. Use errors.As() to reach the underlying cause.
type ReservationError = domain.ReservationError

// UsageError wraps usage report failures. When it surfaces, the report was
// not acknowledged and the session stays in StateReserved.
type UsageError = domain.UsageError
