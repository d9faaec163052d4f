// Package domain holds the accounting domain types shared by the SDK
// surface and its transports.
package domain

import "fmt"

// ServiceType identifies the billing model.
type ServiceType string

// ServiceTypeOneshot is the reserve-then-report billing model. It is the
// only billing model spoken by this SDK.
const ServiceTypeOneshot ServiceType = "oneshot"

// ServiceSubtype identifies the billed workload category.
type ServiceSubtype string

// Known workload categories.
const (
	SubtypeMLLLM       ServiceSubtype = "ml-llm"
	SubtypeMLRAG       ServiceSubtype = "ml-rag"
	SubtypeMLRetrieval ServiceSubtype = "ml-retrieval"
	SubtypeStorage     ServiceSubtype = "storage"
)

// ParseServiceSubtype validates a loosely-typed subtype string and returns
// the tagged value. Unknown strings fail instead of defaulting.
func ParseServiceSubtype(s string) (ServiceSubtype, error) {
	switch st := ServiceSubtype(s); st {
	case SubtypeMLLLM, SubtypeMLRAG, SubtypeMLRetrieval, SubtypeStorage:
		return st, nil
	default:
		return "", fmt.Errorf("service subtype %q: %w", s, ErrUnknownSubtype)
	}
}
