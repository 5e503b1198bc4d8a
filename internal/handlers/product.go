package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickkart/internal/events"
	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/service"
	"github.com/Skotchmaster/quickkart/internal/transport"
)

type ProductHandler struct {
	Svc    *service.CatalogService
	Events events.Publisher
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.products")

	products, err := h.Svc.ListProducts(ctx)
	if err != nil {
		return httpError(l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, service.NewProduct{
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return httpError(l, "create_product_error", err)
	}

	publish(ctx, h.Events, events.TopicProduct, product.ID.String(), events.Event{
		Type:      events.TypeProductCreated,
		ProductID: product.ID.String(),
		Name:      product.Name,
	})

	l.Info("product created", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}
