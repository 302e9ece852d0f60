package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"budget-buddy/internal/config"
	"budget-buddy/internal/database"
	"budget-buddy/internal/dto"
	apperrors "budget-buddy/internal/errors"
	"budget-buddy/internal/models"
	"budget-buddy/internal/repositories"
	"budget-buddy/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	testCategories = []models.Option{{Value: "Groceries", Label: "Groceries"}, {Value: "Rent", Label: "Rent"}}
	testAccounts   = []models.Option{{Value: "1", Label: "Checking"}, {Value: "2", Label: "Savings"}}
)

// StubServerTestSuite drives the real client against the stand-in backend
type StubServerTestSuite struct {
	suite.Suite
	db       *database.DB
	cfg      *config.StubConfig
	tokens   *services.TokenService
	server   *httptest.Server
	api      *services.TransactionAPI
	rentID   string
	salaryID string
}

func TestStubServerSuite(t *testing.T) {
	suite.Run(t, new(StubServerTestSuite))
}

func (s *StubServerTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.cfg = &config.StubConfig{
		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
		JWTSecret:          testSecret,
		TokenIssuer:        "test-issuer",
		TokenDuration:      time.Hour,
	}
	s.tokens = services.NewTokenService(s.cfg)

	database.CreateTestEntry(s.T(), s.db, database.TestEntry{
		Date: "2024-03-01", Description: "Corner Market", Category: "Groceries", Amount: "-42.10", Account: "Checking",
	})
	rent := database.CreateTestEntry(s.T(), s.db, database.TestEntry{
		Date: "2024-03-02", Category: "Rent", Amount: "-1200.00", Account: "Checking",
	})
	salary := database.CreateTestEntry(s.T(), s.db, database.TestEntry{
		Date: "2024-03-03", Description: "Paycheck", Amount: "2500.00", Account: "Savings",
	})
	s.rentID = strconv.FormatUint(rent.ID, 10)
	s.salaryID = strconv.FormatUint(salary.ID, 10)

	stub := NewStub(StubDependencies{
		Config:       s.cfg,
		Store:        s.db,
		Transactions: repositories.NewTransactionRepository(s.db.DB),
		Categories:   testCategories,
		Accounts:     testAccounts,
		Tokens:       s.tokens,
		Logger:       slog.New(slog.DiscardHandler),
	})
	s.server = httptest.NewServer(stub.Handler())
	s.T().Cleanup(s.server.Close)

	token, _, err := s.tokens.GenerateAccessToken("budget-console")
	s.Require().NoError(err)
	s.api = s.client(token)
}

func (s *StubServerTestSuite) client(token string) *services.TransactionAPI {
	return services.NewTransactionAPI(&config.APIConfig{
		BaseURL: s.server.URL,
		Token:   token,
		Timeout: 5 * time.Second,
	}, slog.New(slog.DiscardHandler), nil)
}

func (s *StubServerTestSuite) TestList_DefaultOrder() {
	txns, err := s.api.List(context.Background(), models.DefaultTransactionFilters())

	s.Require().NoError(err)
	s.Require().Len(txns, 3)
	s.Equal("2024-03-03", txns[0].DisplayDate())
	s.Equal("2024-03-02", txns[1].DisplayDate())
	s.Equal("2024-03-01", txns[2].DisplayDate())
	s.Nil(txns[1].Description)
	s.Nil(txns[0].Category)
}

func (s *StubServerTestSuite) TestList_Filters() {
	filters := models.DefaultTransactionFilters()
	filters.Category = "Groceries"
	filters.Account = "1"
	filters.Description = "market"

	txns, err := s.api.List(context.Background(), filters)

	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.True(txns[0].Amount.Equal(decimal.RequireFromString("-42.10")))
	s.Equal("Checking", txns[0].DisplayAccount())
}

func (s *StubServerTestSuite) TestList_AmountSortAndRange() {
	filters := models.DefaultTransactionFilters()
	filters.MinAmount = "-100"
	filters.Sort = models.SortAmountDesc

	txns, err := s.api.List(context.Background(), filters)

	s.Require().NoError(err)
	s.Require().Len(txns, 2)
	s.Equal(s.salaryID, txns[0].ID)
}

func (s *StubServerTestSuite) TestList_NoMatches() {
	filters := models.DefaultTransactionFilters()
	filters.StartDate = "2025-01-01"

	txns, err := s.api.List(context.Background(), filters)

	s.Require().NoError(err)
	s.Empty(txns)
}

func (s *StubServerTestSuite) TestList_BadFilterSurfacesServerReason() {
	filters := models.DefaultTransactionFilters()
	filters.StartDate = "03/01/2024"

	_, err := s.api.List(context.Background(), filters)

	s.Require().Error(err)
	s.Equal(apperrors.APIRequestFailed, apperrors.CodeOf(err))
	s.Contains(err.Error(), "invalid start_date")
}

func (s *StubServerTestSuite) TestUpdate_RoundTrip() {
	err := s.api.Update(context.Background(), dto.UpdateTransactionRequest{
		TransactionID: s.rentID,
		Amount:        "-1250.00",
		Description:   "March rent",
		Date:          "2024-03-02",
		Category:      "Rent",
		Account:       "2",
	})
	s.Require().NoError(err)

	filters := models.DefaultTransactionFilters()
	filters.Description = "march rent"
	txns, err := s.api.List(context.Background(), filters)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Equal(s.rentID, txns[0].ID)
	s.Equal("Savings", txns[0].DisplayAccount())
	s.True(txns[0].Amount.Equal(decimal.RequireFromString("-1250")))
}

func (s *StubServerTestSuite) TestUpdate_MissingTransaction() {
	err := s.api.Update(context.Background(), dto.UpdateTransactionRequest{
		TransactionID: "9999",
		Amount:        "1.00",
		Date:          "2024-03-02",
		Category:      "Rent",
		Account:       "1",
	})

	s.Require().Error(err)
	s.Equal("Transaction not found", err.Error())
}

func (s *StubServerTestSuite) TestDelete_RoundTrip() {
	s.Require().NoError(s.api.Delete(context.Background(), s.rentID))

	txns, err := s.api.List(context.Background(), models.DefaultTransactionFilters())
	s.Require().NoError(err)
	s.Len(txns, 2)

	err = s.api.Delete(context.Background(), s.rentID)
	s.Require().Error(err)
	s.Equal("Transaction not found", err.Error())
}

func (s *StubServerTestSuite) TestAuth_RejectsMissingToken() {
	_, err := s.client("").List(context.Background(), models.DefaultTransactionFilters())

	s.Require().Error(err)
	s.Equal("Authorization token is required", err.Error())
}

func (s *StubServerTestSuite) TestAuth_RejectsForeignToken() {
	other := services.NewTokenService(&config.StubConfig{
		JWTSecret:     "ffffffffffffffffffffffffffffffff",
		TokenIssuer:   "test-issuer",
		TokenDuration: time.Hour,
	})
	token, _, err := other.GenerateAccessToken("intruder")
	s.Require().NoError(err)

	_, err = s.client(token).List(context.Background(), models.DefaultTransactionFilters())

	s.Require().Error(err)
	s.Equal("Invalid authorization token", err.Error())
}

func (s *StubServerTestSuite) TestHealth() {
	resp, err := http.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(resp.Header.Get(services.TraceHeader))
	s.Equal("no-store", resp.Header.Get("Cache-Control"))
}

func (s *StubServerTestSuite) TestUnknownRoute() {
	resp, err := http.Get(s.server.URL + "/api/nope")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
	var body apperrors.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("SYSTEM_004", body.Code)
}

func (s *StubServerTestSuite) TestRateLimited() {
	s.cfg.RateLimitPerSecond = 1
	s.cfg.RateLimitBurst = 1
	stub := NewStub(StubDependencies{
		Config:       s.cfg,
		Store:        s.db,
		Transactions: repositories.NewTransactionRepository(s.db.DB),
		Logger:       slog.New(slog.DiscardHandler),
	})
	limited := httptest.NewServer(stub.Handler())
	defer limited.Close()

	first, err := http.Get(limited.URL + "/health")
	s.Require().NoError(err)
	first.Body.Close()
	second, err := http.Get(limited.URL + "/health")
	s.Require().NoError(err)
	defer second.Body.Close()

	s.Equal(http.StatusOK, first.StatusCode)
	s.Equal(http.StatusTooManyRequests, second.StatusCode)
}

func TestDiagnostics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := services.NewPrometheusMetrics(reg)
	metrics.IncrementCounter("table.load", map[string]string{"state": "populated"})

	var healthy atomic.Bool
	healthy.Store(true)
	diag := NewDiagnostics(reg, func() error {
		if healthy.Load() {
			return nil
		}
		return io.ErrUnexpectedEOF
	}, slog.New(slog.DiscardHandler))
	srv := httptest.NewServer(diag.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `transaction_table_loads_total{state="populated"} 1`)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	healthy.Store(false)
	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStub_APIErrorsCountedOnInjectedRegistry(t *testing.T) {
	db := database.SetupTestDB(t)
	reg := prometheus.NewRegistry()
	stub := NewStub(StubDependencies{
		Config:       &config.StubConfig{RateLimitPerSecond: 10, RateLimitBurst: 10},
		Store:        db,
		Transactions: repositories.NewTransactionRepository(db.DB),
		Metrics:      services.NewPrometheusMetrics(reg),
		Logger:       slog.New(slog.DiscardHandler),
	})
	srv := httptest.NewServer(stub.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/transactions/missing", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	diag := httptest.NewServer(NewDiagnostics(reg, nil, slog.New(slog.DiscardHandler)).Handler())
	defer diag.Close()

	resp, err = http.Get(diag.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `budget_buddy_api_errors_total{code="SYSTEM_004"`)
}

func TestStub_ServeStopsOnCancel(t *testing.T) {
	db := database.SetupTestDB(t)
	stub := NewStub(StubDependencies{
		Config:       &config.StubConfig{RateLimitPerSecond: 10, RateLimitBurst: 10, ReadTimeout: time.Second, WriteTimeout: time.Second},
		Store:        db,
		Transactions: repositories.NewTransactionRepository(db.DB),
		Logger:       slog.New(slog.DiscardHandler),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- stub.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stub did not stop after cancel")
	}
}
