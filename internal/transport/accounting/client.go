// Package accounting implements the wire client for the remote accounting
// backend. It classifies transport outcomes onto the domain error taxonomy;
// callers only ever see domain errors.
package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/kailas-cloud/accrue/internal/domain"
)

const (
	reservationPath = "/reservation/oneshot"
	usagePath       = "/usage/oneshot"
)

// Client speaks the oneshot accounting protocol over HTTP. The underlying
// http.Client is shared and safe for concurrent use by many sessions.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a wire client bound to baseURL. The http.Client is
// owned by the caller; no timeout policy is imposed here.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: baseURL}
}

// ReservationRequest is the body of POST /reservation/oneshot. Count is a
// decimal string, matching the backend schema.
type ReservationRequest struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	ProjID  string `json:"proj_id"`
	Count   string `json:"count"`
}

// UsageRequest is the body of POST /usage/oneshot.
type UsageRequest struct {
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	ProjID    string `json:"proj_id"`
	Count     string `json:"count"`
	JobID     string `json:"job_id"`
	Timestamp string `json:"timestamp"`
}

// reservationResponse is the success body of the reservation endpoint.
type reservationResponse struct {
	JobID string `json:"job_id"`
}

// Reserve pre-commits credit for estimated usage. A 402 response maps to
// domain.ErrInsufficientFunds; every other failure (transport error,
// unexpected status, missing or malformed job_id) maps to a
// domain.ReservationError wrapping the cause.
func (c *Client) Reserve(ctx context.Context, req ReservationRequest) (uuid.UUID, error) {
	resp, err := c.post(ctx, reservationPath, req)
	if err != nil {
		return uuid.Nil, domain.NewReservationError(err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusPaymentRequired {
		return uuid.Nil, domain.ErrInsufficientFunds
	}
	if !is2xx(resp.StatusCode) {
		return uuid.Nil, domain.NewReservationError(
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, reservationPath),
		)
	}

	var parsed reservationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return uuid.Nil, domain.NewReservationError(fmt.Errorf("decode reservation response: %w", err))
	}
	jobID, err := uuid.Parse(parsed.JobID)
	if err != nil {
		return uuid.Nil, domain.NewReservationError(fmt.Errorf("parse job_id %q: %w", parsed.JobID, err))
	}
	return jobID, nil
}

// ReportUsage finalizes the charge for a reserved job. Any failure maps to
// a domain.UsageError wrapping the cause. The response body is ignored.
func (c *Client) ReportUsage(ctx context.Context, req UsageRequest) error {
	resp, err := c.post(ctx, usagePath, req)
	if err != nil {
		return domain.NewUsageError(err)
	}
	defer drainAndClose(resp.Body)

	if !is2xx(resp.StatusCode) {
		return domain.NewUsageError(
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, usagePath),
		)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	return resp, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// drainAndClose discards the remaining body so the pooled connection can
// be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
