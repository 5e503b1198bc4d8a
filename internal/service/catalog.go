package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/repo"
	"github.com/google/uuid"
)

type CatalogService struct {
	Repo ProductStore
}

// NewProduct carries unvalidated input; a nil Price means the field was absent.
type NewProduct struct {
	Name     string
	Price    *float64
	ImageURL string
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, in NewProduct) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	name := strings.TrimSpace(in.Name)
	imageURL := strings.TrimSpace(in.ImageURL)
	switch {
	case name == "":
		return nil, validationf("name is required")
	case imageURL == "":
		return nil, validationf("imageUrl is required")
	case in.Price == nil:
		return nil, validationf("price is required")
	case math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0):
		return nil, validationf("price must be a finite number")
	case *in.Price < 0:
		return nil, validationf("price cannot be negative")
	}

	product := &models.Product{Name: name, Price: *in.Price, ImageURL: imageURL}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("create_product_error", "status", 409, "reason", "duplicate product", "name", name)
			return nil, newError(ErrConflict, "Product with this name, price, and image already exists")
		}
		return nil, err
	}
	return product, nil
}
