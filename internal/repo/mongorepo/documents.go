package mongorepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/quickkart/internal/models"
)

type productDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Price     float64   `bson:"price"`
	ImageURL  string    `bson:"imageUrl"`
	CreatedAt time.Time `bson:"createdAt"`
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type cartItemDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	ProductID string    `bson:"productId"`
	Quantity  int64     `bson:"quantity"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d productDoc) model() models.Product {
	return models.Product{
		ID:        uuid.MustParse(d.ID),
		Name:      d.Name,
		Price:     d.Price,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
	}
}

func (d userDoc) model() models.User {
	return models.User{
		ID:           uuid.MustParse(d.ID),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

func (d cartItemDoc) model() models.CartItem {
	return models.CartItem{
		ID:        uuid.MustParse(d.ID),
		UserID:    uuid.MustParse(d.UserID),
		ProductID: uuid.MustParse(d.ProductID),
		Quantity:  uint(d.Quantity),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
