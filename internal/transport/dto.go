package transport

import (
	"time"

	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	ImageURL string   `json:"imageUrl"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type DeleteOneFromCartResponse struct {
	Message  string           `json:"message"`
	CartItem *models.CartItem `json:"cartItem,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

const (
	MsgRegistered          = "User registered successfully"
	MsgQuantityDecremented = "Product quantity decremented"
	MsgRemovedFromCart     = "Product removed from cart"
)

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}
