package accounting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/kailas-cloud/accrue/internal/domain"
)

func TestReserve_Success(t *testing.T) {
	jobID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/reservation/oneshot" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}

		var req ReservationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Type != "oneshot" {
			t.Errorf("type = %q, want %q", req.Type, "oneshot")
		}
		if req.Subtype != "ml-llm" {
			t.Errorf("subtype = %q, want %q", req.Subtype, "ml-llm")
		}
		if req.Count != "30" {
			t.Errorf("count = %q, want %q", req.Count, "30")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": jobID.String()})
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)
	got, err := c.Reserve(context.Background(), ReservationRequest{
		Type:    "oneshot",
		Subtype: "ml-llm",
		ProjID:  uuid.NewString(),
		Count:   "30",
	})
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if got != jobID {
		t.Errorf("job id = %s, want %s", got, jobID)
	}
}

func TestReserve_PaymentRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)
	got, err := c.Reserve(context.Background(), ReservationRequest{})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got != uuid.Nil {
		t.Errorf("expected uuid.Nil job id, got %s", got)
	}
}

func TestReserve_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)
	_, err := c.Reserve(context.Background(), ReservationRequest{})

	var resErr *domain.ReservationError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationError, got %v", err)
	}
	if errors.Is(err, domain.ErrInsufficientFunds) {
		t.Error("a 500 must not map to ErrInsufficientFunds")
	}
}

func TestReserve_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)
	_, err := c.Reserve(context.Background(), ReservationRequest{})

	var resErr *domain.ReservationError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationError, got %v", err)
	}
}

func TestReserve_MissingJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)
	_, err := c.Reserve(context.Background(), ReservationRequest{})

	var resErr *domain.ReservationError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationError, got %v", err)
	}
}

func TestReserve_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close() // connection refused from now on

	c := NewClient(&http.Client{}, url)
	_, err := c.Reserve(context.Background(), ReservationRequest{})

	var resErr *domain.ReservationError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationError, got %v", err)
	}
}

func TestReportUsage_Success(t *testing.T) {
	var got UsageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usage/oneshot" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated) // any 2xx is success, body ignored
	}))
	defer server.Close()

	jobID := uuid.NewString()
	c := NewClient(server.Client(), server.URL)
	err := c.ReportUsage(context.Background(), UsageRequest{
		Type:      "oneshot",
		Subtype:   "ml-llm",
		ProjID:    uuid.NewString(),
		Count:     "12",
		JobID:     jobID,
		Timestamp: "2026-08-23T10:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("ReportUsage failed: %v", err)
	}

	if got.Count != "12" {
		t.Errorf("count = %q, want %q", got.Count, "12")
	}
	if got.JobID != jobID {
		t.Errorf("job_id = %q, want %q", got.JobID, jobID)
	}
	if got.Timestamp == "" {
		t.Error("timestamp must be present")
	}
}

func TestReportUsage_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)
	err := c.ReportUsage(context.Background(), UsageRequest{})

	var useErr *domain.UsageError
	if !errors.As(err, &useErr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
}

func TestReportUsage_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(&http.Client{}, url)
	err := c.ReportUsage(context.Background(), UsageRequest{})

	var useErr *domain.UsageError
	if !errors.As(err, &useErr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
}
