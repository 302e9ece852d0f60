package server

import (
	"fmt"
	"log/slog"

	"budget-buddy/internal/config"
	"budget-buddy/internal/database"
	"budget-buddy/internal/repositories"
	"budget-buddy/internal/services"

	"github.com/prometheus/client_golang/prometheus"
)

// Backend is a stand-in backend together with the store it owns
type Backend struct {
	*Stub
	DB *database.DB
	// Tokens is nil when STUB_JWT_SECRET is unset
	Tokens *services.TokenService
}

// OpenBackend connects and seeds the store, then assembles the stub around it
func OpenBackend(cfg *config.Config, metrics services.MetricsRecorderInterface, gatherer prometheus.Gatherer, logger *slog.Logger) (*Backend, error) {
	db, err := database.Initialize(&cfg.Stub, cfg.UI.Categories, cfg.UI.Accounts, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize stub database: %w", err)
	}

	deps := StubDependencies{
		Config:       &cfg.Stub,
		Store:        db,
		Transactions: repositories.NewTransactionRepository(db.DB),
		Categories:   cfg.UI.Categories,
		Accounts:     cfg.UI.Accounts,
		Metrics:      metrics,
		Gatherer:     gatherer,
		Logger:       logger,
	}

	backend := &Backend{DB: db}
	if cfg.Stub.AuthEnabled() {
		backend.Tokens = services.NewTokenService(&cfg.Stub)
		deps.Tokens = backend.Tokens
		logger.Info("Stub backend requires bearer tokens", "issuer", cfg.Stub.TokenIssuer)
	}

	backend.Stub = NewStub(deps)
	return backend, nil
}

// IssueToken mints a bearer token for subject. Returns "" when auth is disabled.
func (b *Backend) IssueToken(subject string) (string, error) {
	if b.Tokens == nil {
		return "", nil
	}
	token, _, err := b.Tokens.GenerateAccessToken(subject)
	return token, err
}

func (b *Backend) Close() error {
	return b.DB.Close()
}
