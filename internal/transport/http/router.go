package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/quickkart/internal/handlers"
	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/middleware/auth"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store          Pinger
	ProductHandler *handlers.ProductHandler
	AuthHandler    *handlers.AuthHandler
	CartHandler    *handlers.CartHandler
	Verifier       auth.Verifier

	// CORSOrigins lists the browser origins allowed to call the API; empty allows any.
	CORSOrigins []string
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: d.CORSOrigins}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.POST("", d.ProductHandler.CreateProduct)

	cart := api.Group("/cart", auth.RequireLogin(d.Verifier))
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("/:productId", d.CartHandler.DeleteOneFromCart)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("readiness_error", "status", 503, "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
