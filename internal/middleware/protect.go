package middleware

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "socialapi/internal/errors"
	"socialapi/internal/model"
	"socialapi/internal/repository"
)

const (
	userContextKey      = "user"
	authErrorContextKey = "auth_error"
)

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// UserLoader loads the caller with credential fields attached.
type UserLoader interface {
	FindByIDWithCredentials(ctx context.Context, id string) (*model.User, error)
}

// Protect requires an "Authorization: Bearer <token>" header whose subject is
// an existing user. The loaded user is available through CurrentUser.
func Protect(tokens TokenVerifier, users UserLoader, exposeInternal bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: userContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, err := authenticate(c.Request().Context(), tokens, users, token)
			if err != nil {
				c.Set(authErrorContextKey, err)
				return nil, err
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			cause, ok := c.Get(authErrorContextKey).(error)
			if !ok {
				// No token reached the parser: the header is absent or not a bearer header.
				return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
					Error: "Provide Authorization header",
					Code:  "MISSING_AUTHORIZATION",
				})
			}
			httpErr := apperrors.MapErrorToHTTP(cause, exposeInternal)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

func authenticate(ctx context.Context, tokens TokenVerifier, users UserLoader, token string) (*model.User, error) {
	subject, err := tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := users.FindByIDWithCredentials(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

// CurrentUser returns the authenticated user, or nil on unprotected routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}
