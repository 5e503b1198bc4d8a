package service

import (
	"testing"
	"time"

	"github.com/Skotchmaster/quickkart/internal/repo"
	"github.com/Skotchmaster/quickkart/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	repo    *repo.GormRepo
	catalog *CatalogService
	cart    *CartService
	auth    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := repo.New(testutil.NewSQLite(t))
	return &fixture{
		repo:    r,
		catalog: &CatalogService{Repo: r},
		cart:    &CartService{Repo: r, Products: r, Users: r},
		auth: &AuthService{
			Repo:       r,
			JWTSecret:  []byte("test-jwt-secret"),
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func ptr[T any](v T) *T { return &v }
