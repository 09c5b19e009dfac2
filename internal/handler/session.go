package handler

import (
	"net/http"

	"commerce-console/internal/dto"
	"commerce-console/internal/service"

	"github.com/labstack/echo/v4"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

func (h *SessionHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	sess, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{UserID: sess.UserID})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) Current(c echo.Context) error {
	sess, ok := h.sessions.Current()
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}

	return c.JSON(http.StatusOK, dto.SessionResponse{
		UserID:       sess.UserID,
		ExpiringSoon: h.sessions.ExpiringSoon(),
	})
}
