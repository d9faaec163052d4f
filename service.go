package accrue

import "github.com/kailas-cloud/accrue/internal/domain"

// ServiceSubtype identifies the billed workload category.
type ServiceSubtype = domain.ServiceSubtype

// Known workload categories.
const (
	SubtypeMLLLM       = domain.SubtypeMLLLM
	SubtypeMLRAG       = domain.SubtypeMLRAG
	SubtypeMLRetrieval = domain.SubtypeMLRetrieval
	SubtypeStorage     = domain.SubtypeStorage
)

// ParseServiceSubtype validates a loosely-typed subtype string from a
// boundary (config, request payload) and returns the tagged value.
// Unknown strings fail with ErrUnknownSubtype instead of defaulting.
func ParseServiceSubtype(s string) (ServiceSubtype, error) {
	return domain.ParseServiceSubtype(s)
}
