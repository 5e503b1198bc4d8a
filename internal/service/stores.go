package service

import (
	"context"

	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/google/uuid"
)

// Stores are implemented by repo.GormRepo and mongorepo.MongoRepo. Lookups
// report a missing record with repo.ErrNotFound and inserts report a
// uniqueness clash with repo.ErrDuplicate.

type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type CartStore interface {
	ListCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	CartItemExists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	IncrementCartItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	InsertCartItem(ctx context.Context, item *models.CartItem) error
	DecrementCartItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	DeleteLastCartItem(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}
