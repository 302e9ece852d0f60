package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"budget-buddy/internal/config"
	"budget-buddy/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeTransactions grants access to the transactions endpoints
const ScopeTransactions = "transactions"

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token is expired")
	ErrInvalidIssuer     = errors.New("invalid issuer")
	ErrInvalidScope      = errors.New("invalid token scope")
	ErrEmptyToken        = errors.New("empty token")
	ErrEmptySubject      = errors.New("subject cannot be empty")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
)

// TokenService handles HS256 token generation and validation for the stand-in backend
type TokenService struct {
	secret   []byte
	issuer   string
	duration time.Duration
	now      func() time.Time
}

// NewTokenService creates a new token service from the stub configuration
func NewTokenService(cfg *config.StubConfig) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.TokenIssuer,
		duration: cfg.TokenDuration,
		now:      time.Now,
	}
}

// GenerateAccessToken generates a token for the given subject
func (ts *TokenService) GenerateAccessToken(subject string) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, ErrEmptySubject
	}

	issuedAt := ts.now()
	expiresAt := issuedAt.Add(ts.duration)

	claims := models.APIClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
		Scope: ScopeTransactions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAccessToken validates and parses an access token
func (ts *TokenService) ValidateAccessToken(tokenString string) (*models.APIClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.APIClaims{}, ts.keyFunc,
		jwt.WithTimeFunc(ts.now),
		jwt.WithIssuer(ts.issuer),
	)
	if err != nil {
		return nil, ts.mapTokenError(err)
	}

	claims, ok := token.Claims.(*models.APIClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Scope != ScopeTransactions {
		return nil, ErrInvalidScope
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts the token from the Authorization header
func (ts *TokenService) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidAuthHeader
	}

	const bearerPrefix = "bearer "
	if !strings.HasPrefix(strings.ToLower(authHeader), bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

func (ts *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return ts.secret, nil
}

func (ts *TokenService) mapTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		return ErrInvalidIssuer
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}
