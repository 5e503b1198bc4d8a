package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) ListCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CartItemExists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementCartItem bumps an existing line by one in a single statement and
// reads the row back through RETURNING. It returns ErrNotFound when the user
// has no line for the product.
func (r *GormRepo) IncrementCartItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	return r.bumpCartItem(ctx, "user_id = ? AND product_id = ?", gorm.Expr("quantity + ?", 1), userID, productID)
}

// InsertCartItem returns ErrDuplicate when a concurrent request created the line first.
func (r *GormRepo) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	return translate(r.DB.WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

// DecrementCartItem only touches lines with quantity above one.
func (r *GormRepo) DecrementCartItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	return r.bumpCartItem(ctx, "user_id = ? AND product_id = ? AND quantity > 1", gorm.Expr("quantity - ?", 1), userID, productID)
}

// bumpCartItem returns the row as written by its own UPDATE, so a concurrent
// delete after the write cannot turn a committed change into ErrNotFound.
func (r *GormRepo) bumpCartItem(ctx context.Context, where string, expr clause.Expr, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	res := r.DB.WithContext(ctx).Model(&item).
		Clauses(clause.Returning{}).
		Where(where, userID, productID).
		Update("quantity", expr)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var product models.Product
	pres := r.DB.WithContext(ctx).Where("id = ?", item.ProductID).Limit(1).Find(&product)
	if pres.Error != nil {
		return nil, fmt.Errorf("load product for cart item: %w", pres.Error)
	}
	if pres.RowsAffected > 0 {
		item.Product = &product
	}
	return &item, nil
}

// DeleteLastCartItem removes the line only while its quantity is one.
func (r *GormRepo) DeleteLastCartItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND quantity <= 1", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
