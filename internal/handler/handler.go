package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"socialapi/internal/auth"
	"socialapi/internal/config"
	apperrors "socialapi/internal/errors"
)

// normalizer is implemented by requests that clean up their own fields
// before validation.
type normalizer interface {
	Normalize()
}

// bindAndValidate decodes the body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// responder turns domain errors into HTTP errors and writes the auth cookie.
type responder struct {
	cookie         config.CookieConfig
	exposeInternal bool
	logger         *zap.Logger
}

func newResponder(cfg *config.Config, logger *zap.Logger) responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return responder{cookie: cfg.Cookie, exposeInternal: cfg.IsDevelopment(), logger: logger}
}

func (r responder) fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err, r.exposeInternal)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func (r responder) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     r.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenExpiry / time.Second),
		HttpOnly: true,
		Secure:   r.cookie.Secure,
		SameSite: r.cookie.SameSite,
	})
}

func trim(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
