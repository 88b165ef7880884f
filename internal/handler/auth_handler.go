package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"socialapi/internal/config"
	apperrors "socialapi/internal/errors"
	"socialapi/internal/middleware"
	"socialapi/internal/model"
	"socialapi/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	responder
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, responder: newResponder(cfg, logger)}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

func (r *RegisterRequest) Normalize() { trim(&r.Username, &r.Email, &r.Password) }

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() { trim(&r.Email, &r.Password) }

// OTPRequest carries the emailed verification code.
type OTPRequest struct {
	OTP string `json:"otp"`
}

func (r *OTPRequest) Normalize() { trim(&r.OTP) }

// ResetPasswordRequest represents a password change for the caller.
type ResetPasswordRequest struct {
	PreviousPassword string `json:"previousPassword" validate:"required"`
	NewPassword      string `json:"newPassword" validate:"required,min=6,bcryptlen"`
}

func (r *ResetPasswordRequest) Normalize() { trim(&r.PreviousPassword, &r.NewPassword) }

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Status string      `json:"status"`
	Token  string      `json:"token"`
	Data   *model.User `json:"data"`
}

// TokenResponse is returned by login and password reset.
type TokenResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// VerificationRequiredResponse is returned when an unverified account logs in.
type VerificationRequiredResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Token string `json:"token"`
}

// MessageResponse carries a status and a human-readable message.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates an unverified account and emails a one-time code.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	result, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.setTokenCookie(c, result.Token)
	return c.JSON(http.StatusCreated, RegisterResponse{
		Status: "success",
		Token:  result.Token,
		Data:   result.User,
	})
}

// Login godoc
// @Summary Login user
// @Description Unverified accounts receive a new code by email and a 400 carrying a token for the verification call.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} VerificationRequiredResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	h.setTokenCookie(c, result.Token)
	if result.VerificationRequired {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrVerificationRequired, false)
		return c.JSON(httpErr.StatusCode, VerificationRequiredResponse{
			Error: fmt.Sprintf("An OTP has been sent to %s, to verify your account!", result.User.Email),
			Code:  httpErr.Code,
			Token: result.Token,
		})
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Message: "Login successfully",
		Token:   result.Token,
	})
}

// VerifyOTP godoc
// @Summary Verify email with the one-time code
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body OTPRequest true "Emailed code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /otp-verification [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req OTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	already, err := h.authService.VerifyOTP(c.Request().Context(), middleware.CurrentUser(c), req.OTP)
	if err != nil {
		return h.fail(c, err)
	}

	message := "Email successfully verified"
	if already {
		message = "Your account has been successfully verified"
	}
	return c.JSON(http.StatusOK, MessageResponse{Status: "success", Message: message})
}

// ResetPassword godoc
// @Summary Change the caller's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResetPasswordRequest true "Old and new password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	result, err := h.authService.ResetPassword(c.Request().Context(), middleware.CurrentUser(c), req.PreviousPassword, req.NewPassword)
	if err != nil {
		return h.fail(c, err)
	}

	h.setTokenCookie(c, result.Token)
	return c.JSON(http.StatusOK, TokenResponse{
		Status:  "success",
		Message: "Password updated successfully!",
		Token:   result.Token,
	})
}
