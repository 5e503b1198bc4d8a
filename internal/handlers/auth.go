package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickkart/internal/events"
	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/service"
	"github.com/Skotchmaster/quickkart/internal/transport"
)

type AuthHandler struct {
	Svc    *service.AuthService
	Events events.Publisher
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(l, "register_error", err)
	}

	publish(ctx, h.Events, events.TopicUser, user.ID.String(), events.Event{
		Type:     events.TypeUserRegistered,
		UserID:   user.ID.String(),
		Username: user.Username,
	})

	l.Info("user registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.RegisterResponse{
		Message: transport.MsgRegistered,
		User:    transport.NewUserResponse(user),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(l, "login_error", err)
	}

	publish(ctx, h.Events, events.TopicUser, res.User.ID.String(), events.Event{
		Type:     events.TypeUserLoggedIn,
		UserID:   res.User.ID.String(),
		Username: res.User.Username,
	})

	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:     res.AccessToken,
		ExpiresAt: res.AccessExp,
		User:      transport.NewUserResponse(res.User),
	})
}
