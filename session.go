package accrue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/accrue/internal/domain"
	"github.com/kailas-cloud/accrue/internal/timeutil"
	"github.com/kailas-cloud/accrue/internal/transport/accounting"
)

// State identifies the position of a Session in its lifecycle.
type State string

// Session lifecycle states. Reported, Failed and Aborted are terminal.
const (
	StateCreated  State = "created"
	StateReserved State = "reserved"
	StateReported State = "reported"
	StateFailed   State = "failed"
	StateAborted  State = "aborted"
)

// Protocol call names used for observability labels.
const (
	opReserve = "reserve"
	opUsage   = "usage"
)

// backend is the consumer interface over the accounting wire client.
type backend interface {
	Reserve(ctx context.Context, req accounting.ReservationRequest) (uuid.UUID, error)
	ReportUsage(ctx context.Context, req accounting.UsageRequest) error
}

// Session drives one reserve-then-report unit of billable work. It is
// created by a Factory, performs at most one reservation and at most one
// usage report, and ends in exactly one of the terminal states.
//
// A Session is single-owner for the duration of its scoped block and is
// not safe for concurrent use. The shared transport behind it is.
type Session struct {
	backend backend
	obs     *observer

	subtype domain.ServiceSubtype
	projID  uuid.UUID
	jobID   uuid.UUID
	count   int64
	state   State
}

func newSession(b backend, obs *observer, subtype domain.ServiceSubtype, projID uuid.UUID, estimate int64) *Session {
	return &Session{
		backend: b,
		obs:     obs,
		subtype: subtype,
		projID:  projID,
		count:   estimate,
		state:   StateCreated,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// JobID returns the backend-assigned job identifier. It is uuid.Nil until
// Reserve succeeds and immutable afterwards.
func (s *Session) JobID() uuid.UUID { return s.jobID }

// Count returns the count value to be used for reservation or usage.
func (s *Session) Count() int64 { return s.count }

// Reserve pre-commits credit for the current estimate. Allowed exactly
// once, from StateCreated; any re-invocation is ErrProtocolMisuse. On
// failure the session ends in StateFailed: ErrInsufficientFunds when the
// backend declined for lack of credit, a ReservationError otherwise.
func (s *Session) Reserve(ctx context.Context) error {
	if s.state != StateCreated {
		return fmt.Errorf("reserve in state %q: %w", s.state, domain.ErrProtocolMisuse)
	}

	start := time.Now()
	jobID, err := s.backend.Reserve(ctx, accounting.ReservationRequest{
		Type:    string(domain.ServiceTypeOneshot),
		Subtype: string(s.subtype),
		ProjID:  s.projID.String(),
		Count:   strconv.FormatInt(s.count, 10),
	})
	s.obs.observe(opReserve, start, err)
	if err != nil {
		s.state = StateFailed
		return err
	}

	s.jobID = jobID
	s.state = StateReserved
	return nil
}

// SetCount overwrites the count to be reported as actual usage. Negative
// values fail with ErrInvalidCount and leave the session untouched.
// Writing a different value than the current one is logged as an override;
// writing the same value is a no-op. Terminal states reject the write.
func (s *Session) SetCount(value int64) error {
	switch s.state {
	case StateCreated, StateReserved:
	default:
		return fmt.Errorf("set count in state %q: %w", s.state, domain.ErrProtocolMisuse)
	}
	if value < 0 {
		return fmt.Errorf("%d: %w", value, domain.ErrInvalidCount)
	}
	if value != s.count {
		s.obs.logInfo("overriding count",
			"previous", s.count,
			"count", value,
			"job_id", s.jobID,
		)
	}
	s.count = value
	return nil
}

// ReportUsage finalizes the charge with the count current at call time and
// a fresh timestamp. Allowed only from StateReserved; anything else is
// ErrProtocolMisuse. On failure the report was not acknowledged and the
// session stays in StateReserved; this SDK provides no retry path.
func (s *Session) ReportUsage(ctx context.Context) error {
	if s.state != StateReserved {
		return fmt.Errorf("report usage in state %q: %w", s.state, domain.ErrProtocolMisuse)
	}

	start := time.Now()
	err := s.backend.ReportUsage(ctx, accounting.UsageRequest{
		Type:      string(domain.ServiceTypeOneshot),
		Subtype:   string(s.subtype),
		ProjID:    s.projID.String(),
		Count:     strconv.FormatInt(s.count, 10),
		JobID:     s.jobID.String(),
		Timestamp: timeutil.Now(),
	})
	s.obs.observe(opUsage, start, err)
	if err != nil {
		return err
	}

	s.state = StateReported
	return nil
}

// abort marks a reserved session as terminally aborted without reporting
// usage. The reservation stays consumed at the backend; there is no
// cancellation call in the wire contract.
func (s *Session) abort(cause string) {
	if s.state != StateReserved {
		return
	}
	s.state = StateAborted
	s.obs.logWarn("work failed, not sending usage",
		"cause", cause,
		"job_id", s.jobID,
	)
}
