package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/service"
)

// ContextKey is where the verified *service.Identity is stored on echo.Context.
const ContextKey = "identity"

type Verifier interface {
	Verify(token string) (*service.Identity, error)
}

// RequireLogin rejects requests without a valid "Authorization: Bearer" token.
func RequireLogin(v Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return v.Verify(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("mw", "auth.require_login")
			l.Warn("auth_error", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	})
}

// Identity returns the caller set by RequireLogin.
func Identity(c echo.Context) (*service.Identity, bool) {
	id, ok := c.Get(ContextKey).(*service.Identity)
	return id, ok && id != nil
}
