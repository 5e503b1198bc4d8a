package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is immutable once created. The (name, price, image_url) triple is unique.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                     json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_product_identity"                json:"name"`
	Price     float64   `gorm:"not null;uniqueIndex:idx_product_identity;check:price >= 0" json:"price"`
	ImageURL  string    `gorm:"not null;uniqueIndex:idx_product_identity"                json:"imageUrl"`
	CreatedAt time.Time `gorm:"not null"                                                 json:"createdAt"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"  json:"username"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	CreatedAt    time.Time `gorm:"not null"              json:"createdAt"`
}

// CartItem is one line of a user's cart. Product is resolved on read and
// stays nil when the referenced product no longer exists.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                            json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product;not null" json:"userId"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product;not null" json:"productId"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity > 0"           json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID"                            json:"product"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}
