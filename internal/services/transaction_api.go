package services

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"budget-buddy/internal/config"
	"budget-buddy/internal/dto"
	apperrors "budget-buddy/internal/errors"
	"budget-buddy/internal/models"

	"github.com/google/uuid"
)

const (
	listPath   = "/api/transactions"
	updatePath = "/api/transactions/update"
	deletePath = "/api/transactions/delete/"

	updateFallback = "Failed to update transaction"
	deleteFallback = "Failed to delete transaction"

	// TraceHeader carries the per-request trace id
	TraceHeader = "X-Trace-ID"
)

// APITransport stamps every outgoing request with a trace id and, when configured, a bearer token
type APITransport struct {
	token string
	base  http.RoundTripper
}

func (t *APITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	if req.Header.Get(TraceHeader) == "" {
		req.Header.Set(TraceHeader, uuid.NewString())
	}
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return t.base.RoundTrip(req)
}

// TransactionAPI talks to the transactions backend over HTTP
type TransactionAPI struct {
	config  *config.APIConfig
	client  *http.Client
	logger  *slog.Logger
	metrics MetricsRecorderInterface
}

// NewTransactionAPI creates a new transactions API client
func NewTransactionAPI(
	cfg *config.APIConfig,
	logger *slog.Logger,
	metrics MetricsRecorderInterface,
) *TransactionAPI {
	return NewTransactionAPIWithTransport(cfg, logger, metrics, http.DefaultTransport)
}

// NewTransactionAPIWithTransport creates a client over a custom round tripper
func NewTransactionAPIWithTransport(
	cfg *config.APIConfig,
	logger *slog.Logger,
	metrics MetricsRecorderInterface,
	base http.RoundTripper,
) *TransactionAPI {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}

	transport := &APITransport{
		token: cfg.Token,
		base:  base,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	return &TransactionAPI{
		config:  cfg,
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *TransactionAPI) buildRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*http.Request, error) {

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	target := s.config.BaseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, target, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

func (s *TransactionAPI) do(operation string, req *http.Request) (*http.Response, []byte, error) {
	start := time.Now()
	resp, err := s.client.Do(req)
	s.metrics.RecordProcessingTime("api."+operation, time.Since(start))

	if err != nil {
		s.logger.ErrorContext(
			req.Context(),
			"transactions api request failed",
			"operation", operation,
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
		)
		s.recordOutcome(operation, "transport_error")
		return nil, nil, transportError(err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err != nil {
		s.recordOutcome(operation, "transport_error")
		return nil, nil, transportError(fmt.Errorf("read response body: %w", err))
	}

	s.logger.DebugContext(
		req.Context(),
		"transactions api response",
		"operation", operation,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return resp, body, nil
}

func (s *TransactionAPI) recordOutcome(operation, status string) {
	s.metrics.IncrementCounter("api.request", map[string]string{
		"operation": operation,
		"status":    status,
	})
}

// List fetches the records matching filters. Empty filter fields are not sent.
func (s *TransactionAPI) List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	req, err := s.buildRequest(ctx, http.MethodGet, listPath, filters.Query(), nil)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fetching transactions", "url", req.URL.String())

	resp, body, err := s.do("list", req)
	if err != nil {
		return nil, err
	}

	if !isSuccessStatus(resp.StatusCode) {
		s.recordOutcome("list", "error")
		return nil, s.statusError(ctx, "list", resp, body)
	}

	var records []dto.TransactionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		s.recordOutcome("list", "malformed")
		s.logger.ErrorContext(ctx, "decode transactions listing", "error", err)
		return nil, apperrors.Wrap(apperrors.APIMalformedResponse, err, apperrors.GetErrorMessage(apperrors.APIMalformedResponse))
	}
	if records == nil {
		s.recordOutcome("list", "malformed")
		s.logger.ErrorContext(ctx, "transactions listing is not an array", "body", string(body))
		return nil, apperrors.New(apperrors.APIMalformedResponse)
	}

	transactions := make([]models.Transaction, 0, len(records))
	for i, record := range records {
		txn, err := record.ToModel()
		if err != nil {
			s.recordOutcome("list", "malformed")
			s.logger.ErrorContext(ctx, "invalid transaction record", "index", i, "error", err)
			return nil, apperrors.Wrap(apperrors.APIMalformedResponse, err, apperrors.GetErrorMessage(apperrors.APIMalformedResponse))
		}
		if txn.RawDate != "" {
			s.logger.WarnContext(ctx, "unrecognised transaction date, shown as sent",
				"transaction_id", txn.ID,
				"date", txn.RawDate,
			)
		}
		transactions = append(transactions, txn)
	}

	s.recordOutcome("list", "success")
	return transactions, nil
}

// Update sends the edited fields of one record
func (s *TransactionAPI) Update(ctx context.Context, request dto.UpdateTransactionRequest) error {
	req, err := s.buildRequest(ctx, http.MethodPost, updatePath, nil, request)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "updating transaction", "transaction_id", request.TransactionID)

	return s.mutate(ctx, "update", req, updateFallback)
}

// Delete removes one record
func (s *TransactionAPI) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.New(apperrors.StateNoPendingDelete)
	}

	req, err := s.buildRequest(ctx, http.MethodDelete, deletePath+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleting transaction", "transaction_id", id)

	return s.mutate(ctx, "delete", req, deleteFallback)
}

// mutate succeeds only on a 2xx reply whose body reports success
func (s *TransactionAPI) mutate(ctx context.Context, operation string, req *http.Request, fallback string) error {
	resp, body, err := s.do(operation, req)
	if err != nil {
		return err
	}

	var result dto.MutationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		s.recordOutcome(operation, "malformed")
		s.logger.ErrorContext(ctx, "decode mutation response",
			"operation", operation,
			"status", resp.StatusCode,
			"error", err,
		)
		return apperrors.Wrap(apperrors.APIMalformedResponse, err, apperrors.GetErrorMessage(apperrors.APIMalformedResponse)).
			WithStatus(resp.StatusCode)
	}

	if isSuccessStatus(resp.StatusCode) && result.Success {
		s.recordOutcome(operation, "success")
		return nil
	}

	s.recordOutcome(operation, "error")

	reason := result.Reason()
	if reason == "" {
		reason = fallback
	}

	s.logger.WarnContext(ctx, "transactions api mutation rejected",
		"operation", operation,
		"status", resp.StatusCode,
		"reason", reason,
	)

	return apperrors.Newf(apperrors.APIRequestFailed, "%s", reason).WithStatus(resp.StatusCode)
}

// statusError builds the error for a non-2xx reply, preferring the server's reason
func (s *TransactionAPI) statusError(ctx context.Context, operation string, resp *http.Response, body []byte) error {
	var errBody dto.ErrorBody
	_ = json.Unmarshal(body, &errBody)

	reason := errBody.Reason()
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	if reason == "" {
		reason = fmt.Sprintf("HTTP error %d", resp.StatusCode)
	}

	s.logger.ErrorContext(ctx, "transactions api error response",
		"operation", operation,
		"status", resp.StatusCode,
		"reason", reason,
	)

	return apperrors.Newf(apperrors.APIRequestFailed, "%s", reason).WithStatus(resp.StatusCode)
}

func transportError(err error) error {
	cause := err
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		cause = urlErr.Err
	}
	message := fmt.Sprintf("%s: %v", apperrors.GetErrorMessage(apperrors.TransportFailure), cause)
	return apperrors.Wrap(apperrors.TransportFailure, err, message)
}

func isSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
