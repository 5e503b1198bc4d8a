package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickkart/internal/events"
	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/middleware/auth"
	"github.com/Skotchmaster/quickkart/internal/service"
	"github.com/Skotchmaster/quickkart/internal/transport"
)

type CartHandler struct {
	Svc    *service.CartService
	Events events.Publisher
}

func userID(c echo.Context) (uuid.UUID, error) {
	id, ok := auth.Identity(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id.UserID, nil
}

func parseProductID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "productId is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "productId must be a UUID")
	}
	return id, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, uid)
	if err != nil {
		return httpError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	productID, err := parseProductID(req.ProductID)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "product_id", req.ProductID)
		return err
	}

	item, created, err := h.Svc.AddToCart(ctx, uid, productID)
	if err != nil {
		return httpError(l, "add_to_cart_error", err)
	}

	publish(ctx, h.Events, events.TopicCart, uid.String(), events.Event{
		Type:      events.TypeCartItemAdded,
		UserID:    uid.String(),
		ProductID: productID.String(),
		Quantity:  item.Quantity,
	})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	l.Info("item added to cart", "product_id", productID, "quantity", item.Quantity)
	return c.JSON(status, item)
}

func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.one.from.cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	// a path id that is not a UUID cannot name a cart line
	productID, err := uuid.Parse(strings.TrimSpace(c.Param("productId")))
	if err != nil || productID == uuid.Nil {
		l.Warn("delete_one_from_cart_error", "status", 404, "product_id", c.Param("productId"))
		return echo.NewHTTPError(http.StatusNotFound, "Product not found in cart")
	}

	removed, item, err := h.Svc.DeleteOneFromCart(ctx, uid, productID)
	if err != nil {
		return httpError(l, "delete_one_from_cart_error", err)
	}

	if removed {
		publish(ctx, h.Events, events.TopicCart, uid.String(), events.Event{
			Type:      events.TypeCartItemRemoved,
			UserID:    uid.String(),
			ProductID: productID.String(),
		})
		return c.JSON(http.StatusOK, transport.DeleteOneFromCartResponse{Message: transport.MsgRemovedFromCart})
	}

	publish(ctx, h.Events, events.TopicCart, uid.String(), events.Event{
		Type:      events.TypeCartItemDecr,
		UserID:    uid.String(),
		ProductID: productID.String(),
		Quantity:  item.Quantity,
	})
	return c.JSON(http.StatusOK, transport.DeleteOneFromCartResponse{
		Message:  transport.MsgQuantityDecremented,
		CartItem: item,
	})
}
