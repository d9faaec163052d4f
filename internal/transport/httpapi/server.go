// Package httpapi exposes the acctdemo HTTP endpoint. It is a thin façade
// over the accounting SDK: it estimates usage, runs the billable work
// inside a oneshot session, and maps the SDK error taxonomy onto HTTP
// status codes without leaking internal causes to callers.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/accrue"
	"github.com/kailas-cloud/accrue/internal/usecase/query"
)

// QueryService is the consumer interface over the query use case.
type QueryService interface {
	EstimateCount(input string) int64
	Run(ctx context.Context, input string) (query.Result, error)
}

// Server handles the demo API routes.
type Server struct {
	factory   *accrue.Factory
	query     QueryService
	projectID string
	logger    *zap.Logger
}

// NewServer creates the demo API server. projectID is the billed project
// for every query; a real front-end would derive it per caller.
func NewServer(factory *accrue.Factory, querySvc QueryService, projectID string, logger *zap.Logger) *Server {
	return &Server{
		factory:   factory,
		query:     querySvc,
		projectID: projectID,
		logger:    logger,
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/query", s.handleQuery)
	r.Get("/health", s.handleHealth)
}

// queryRequest is the body of POST /v1/query.
type queryRequest struct {
	InputText string `json:"input_text"`
}

// queryResponse is the success body of POST /v1/query.
type queryResponse struct {
	InputText  string `json:"input_text"`
	OutputText string `json:"output_text"`
}

// errorResponse is the error body shared by all endpoints.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.InputText == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "input_text is required")
		return
	}

	var out query.Result
	err := s.factory.Oneshot(r.Context(), accrue.SubtypeMLLLM, s.projectID, s.query.EstimateCount(req.InputText),
		func(ctx context.Context, sess *accrue.Session) error {
			res, err := s.query.Run(ctx, req.InputText)
			if err != nil {
				return err
			}
			out = res
			return sess.SetCount(res.Tokens)
		})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		InputText:  req.InputText,
		OutputText: out.OutputText,
	})
}

// writeQueryError maps the SDK error taxonomy onto external status codes.
// Insufficient funds is the only client-distinguishable accounting
// failure; everything else stays opaque.
func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var resErr *accrue.ReservationError
	var useErr *accrue.UsageError

	switch {
	case errors.Is(err, accrue.ErrInsufficientFunds):
		s.logger.Warn("reservation declined", zap.Error(err))
		writeError(w, http.StatusPaymentRequired, "payment_required", "insufficient funds")
	case errors.As(err, &resErr), errors.As(err, &useErr):
		s.logger.Error("accounting failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "accounting_error", "internal error")
	default:
		s.logger.Error("query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
