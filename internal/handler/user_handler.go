package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"socialapi/internal/config"
	"socialapi/internal/middleware"
	"socialapi/internal/model"
	"socialapi/internal/service"
)

// UserHandler serves the caller's profile.
type UserHandler struct {
	svc service.UserService
	responder
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, cfg *config.Config, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, responder: newResponder(cfg, logger)}
}

// ProfileResponse wraps the public user fields.
type ProfileResponse struct {
	Status string      `json:"status"`
	Data   *model.User `json:"data"`
}

// Me godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.svc.GetProfile(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{Status: "success", Data: user})
}
