package accrue

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Factory.
type Option interface {
	apply(*factoryConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*factoryConfig)

func (f optionFunc) apply(c *factoryConfig) { f(c) }

type factoryConfig struct {
	baseURL    string
	httpClient *http.Client

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the accounting backend base URL. Required.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *factoryConfig) {
		c.baseURL = url
	})
}

// WithHTTPClient supplies the pooled HTTP client shared by all sessions.
// The caller keeps ownership: Factory.Close will not release it. Timeout
// policy belongs to this client, not to the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *factoryConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for session events (reservations,
// count overrides, skipped usage reports). Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *factoryConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (protocol call counts and
// durations) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *factoryConfig) {
		c.metricsReg = reg
	})
}
