package db

import (
	"fmt"

	"github.com/Skotchmaster/quickkart/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.CartItem{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
