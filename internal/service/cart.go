package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/repo"
	"github.com/google/uuid"
)

// maxCartAttempts bounds the retries when a concurrent request creates or
// removes the same line between our conditional statements.
const maxCartAttempts = 5

var errCartContention = errors.New("cart line changed concurrently")

type CartService struct {
	Repo     CartStore
	Products ProductStore
	Users    UserStore
}

func (h *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if _, err := h.Users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return h.Repo.ListCart(ctx, userID)
}

// AddToCart increments the user's line for productID or creates it with
// quantity 1. created reports which of the two happened.
func (h *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID) (item *models.CartItem, created bool, err error) {
	if productID == uuid.Nil {
		return nil, false, validationf("productId is required")
	}
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", productID)

	var product *models.Product
	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		item, err = h.Repo.IncrementCartItem(ctx, userID, productID)
		if err == nil {
			return item, false, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, false, err
		}

		product, err = h.Products.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, false, ErrProductNotFound
			}
			return nil, false, err
		}

		item = &models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		err = h.Repo.InsertCartItem(ctx, item)
		if err == nil {
			item.Product = product
			return item, true, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, false, err
		}
		l.Debug("add_to_cart_retry", "attempt", attempt+1, "reason", "line created concurrently")
	}
	return nil, false, errCartContention
}

// DeleteOneFromCart decrements the line, or removes it when the quantity is one.
// The returned item is nil when the line was removed.
func (h *CartService) DeleteOneFromCart(ctx context.Context, userID, productID uuid.UUID) (removed bool, item *models.CartItem, err error) {
	if productID == uuid.Nil {
		return false, nil, validationf("productId is required")
	}
	l := logging.FromContext(ctx).With("svc", "cart.remove", "user_id", userID, "product_id", productID)

	var exists bool
	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		item, err = h.Repo.DecrementCartItem(ctx, userID, productID)
		if err == nil {
			return false, item, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return false, nil, err
		}

		removed, err = h.Repo.DeleteLastCartItem(ctx, userID, productID)
		if err != nil {
			return false, nil, err
		}
		if removed {
			return true, nil, nil
		}

		exists, err = h.Repo.CartItemExists(ctx, userID, productID)
		if err != nil {
			return false, nil, err
		}
		if !exists {
			return false, nil, newError(ErrNotFound, "Product not found in cart")
		}
		l.Debug("delete_from_cart_retry", "attempt", attempt+1, "reason", "line changed concurrently")
	}
	return false, nil, errCartContention
}
