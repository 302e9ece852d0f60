package services

import (
	"testing"
	"time"

	"budget-buddy/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// TokenServiceTestSuite defines the test suite for TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	service *TokenService
	now     time.Time
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func (s *TokenServiceTestSuite) SetupTest() {
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.service = s.newService(testSecret, "test-issuer")
}

func (s *TokenServiceTestSuite) newService(secret, issuer string) *TokenService {
	service := NewTokenService(&config.StubConfig{
		JWTSecret:     secret,
		TokenIssuer:   issuer,
		TokenDuration: time.Hour,
	})
	service.now = func() time.Time { return s.now }
	return service
}

func (s *TokenServiceTestSuite) TestGenerateAndValidate() {
	token, expiresAt, err := s.service.GenerateAccessToken("budget-console")
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Equal(s.now.Add(time.Hour), expiresAt)

	claims, err := s.service.ValidateAccessToken(token)
	s.Require().NoError(err)
	s.Equal("budget-console", claims.Subject)
	s.Equal("test-issuer", claims.Issuer)
	s.Equal(ScopeTransactions, claims.Scope)
	s.NotEmpty(claims.ID)
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken_EmptySubject() {
	_, _, err := s.service.GenerateAccessToken("  ")

	s.ErrorIs(err, ErrEmptySubject)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Expired() {
	token, _, err := s.service.GenerateAccessToken("budget-console")
	s.Require().NoError(err)

	s.now = s.now.Add(2 * time.Hour)
	_, err = s.service.ValidateAccessToken(token)

	s.ErrorIs(err, ErrExpiredToken)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_WrongSecret() {
	token, _, err := s.newService("ffffffffffffffffffffffffffffffff", "test-issuer").GenerateAccessToken("budget-console")
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)

	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_WrongIssuer() {
	token, _, err := s.newService(testSecret, "someone-else").GenerateAccessToken("budget-console")
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)

	s.ErrorIs(err, ErrInvalidIssuer)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_WrongScope() {
	claims := jwt.MapClaims{
		"iss":   "test-issuer",
		"sub":   "budget-console",
		"exp":   s.now.Add(time.Hour).Unix(),
		"scope": "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)

	s.ErrorIs(err, ErrInvalidScope)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_RejectsOtherAlgorithms() {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"iss": "test-issuer"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)

	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Empty() {
	_, err := s.service.ValidateAccessToken("")

	s.ErrorIs(err, ErrEmptyToken)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader() {
	testCases := []struct {
		name     string
		header   string
		expected string
		wantErr  bool
	}{
		{"bearer", "Bearer abc.def", "abc.def", false},
		{"lowercase scheme", "bearer abc.def", "abc.def", false},
		{"empty", "", "", true},
		{"basic auth", "Basic dXNlcg==", "", true},
		{"missing token", "Bearer   ", "", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			token, err := s.service.ExtractTokenFromHeader(tc.header)
			if tc.wantErr {
				s.ErrorIs(err, ErrInvalidAuthHeader)
				return
			}
			s.NoError(err)
			s.Equal(tc.expected, token)
		})
	}
}
