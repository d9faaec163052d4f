package accrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/accrue/internal/domain"
	"github.com/kailas-cloud/accrue/internal/transport/accounting"
)

// Factory owns the shared HTTP transport for the process lifetime and
// mints sessions bound to it. It holds no session-specific state, so
// creating sessions concurrently is always safe.
type Factory struct {
	client     *accounting.Client
	httpClient *http.Client
	ownsClient bool
	obs        *observer
}

// New creates a Factory. The base URL of the accounting backend is
// required; everything else is optional.
func New(opts ...Option) (*Factory, error) {
	cfg := &factoryConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("accrue: accounting base URL required (use WithBaseURL)")
	}

	httpClient := cfg.httpClient
	owns := false
	if httpClient == nil {
		httpClient = &http.Client{}
		owns = true
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Factory{
		client:     accounting.NewClient(httpClient, strings.TrimRight(cfg.baseURL, "/")),
		httpClient: httpClient,
		ownsClient: owns,
		obs:        obs,
	}, nil
}

// Close releases idle connections held by the shared transport. Transports
// injected via WithHTTPClient stay under the caller's control.
func (f *Factory) Close() {
	if f.ownsClient {
		f.httpClient.CloseIdleConnections()
	}
}

// NewSession constructs a Session in StateCreated. Arguments are validated
// synchronously; no network I/O happens here. The estimate is the count
// the eventual Reserve call will carry.
func (f *Factory) NewSession(subtype ServiceSubtype, projID string, estimate int64) (*Session, error) {
	st, err := domain.ParseServiceSubtype(string(subtype))
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(projID)
	if err != nil {
		return nil, fmt.Errorf("parse project id %q: %w", projID, err)
	}
	if estimate < 0 {
		return nil, fmt.Errorf("estimate %d: %w", estimate, domain.ErrInvalidCount)
	}
	return newSession(f.client, f.obs, st, pid, estimate), nil
}

// Oneshot runs fn inside a scoped accounting session: it reserves credit
// on entry, reports usage when fn returns nil, and skips the report when
// fn returns an error or panics. The release step is asymmetric on
// purpose: failed work consumed no billable resource.
//
// The error or panic raised by fn propagates unchanged; it is never
// replaced by an accounting error. A nil return means the reservation and
// the usage report were both acknowledged.
func (f *Factory) Oneshot(
	ctx context.Context,
	subtype ServiceSubtype,
	projID string,
	estimate int64,
	fn func(ctx context.Context, s *Session) error,
) error {
	s, err := f.NewSession(subtype, projID, estimate)
	if err != nil {
		return err
	}
	if err := s.Reserve(ctx); err != nil {
		return err
	}
	if err := runScoped(ctx, s, fn); err != nil {
		return err
	}
	return s.ReportUsage(ctx)
}

// runScoped executes fn and aborts the session when fn fails. A panic in
// fn aborts the session and then re-panics with the original value.
func runScoped(ctx context.Context, s *Session, fn func(context.Context, *Session) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.abort(fmt.Sprintf("panic: %v", r))
			panic(r)
		}
		if err != nil {
			s.abort(err.Error())
		}
	}()
	return fn(ctx, s)
}
