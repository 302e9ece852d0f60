package middleware

import (
	stderrors "errors"

	"budget-buddy/internal/errors"
	"budget-buddy/internal/handlers"
	"budget-buddy/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	// TokenSubjectContextKey holds the authenticated token subject
	TokenSubjectContextKey = "token_subject"
	// TokenIDContextKey holds the authenticated token ID
	TokenIDContextKey = "token_jti"
)

// RequireAuth creates a middleware that requires a valid bearer token
// carrying the transactions scope
func RequireAuth(tokenService services.TokenServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidToken, errors.WithDetails("Expected a Bearer token"))
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if stderrors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, errors.AuthExpiredToken)
				}
				return handlers.SendError(c, errors.AuthInvalidToken)
			}

			c.Set(TokenSubjectContextKey, claims.Subject)
			c.Set(TokenIDContextKey, claims.ID)

			return next(c)
		}
	}
}
