package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/repo"
	"github.com/Skotchmaster/quickkart/internal/service"
)

// newTestRepo connects to QUICKKART_MONGO_URI and uses a throwaway database.
func newTestRepo(t *testing.T) *MongoRepo {
	t.Helper()
	uri := os.Getenv("QUICKKART_MONGO_URI")
	if uri == "" {
		t.Skip("QUICKKART_MONGO_URI not set")
	}

	ctx := context.Background()
	dbName := "quickkart_test_" + uuid.NewString()[:8]
	client, r, err := Connect(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Database(dbName).Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return r
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), repo.ErrNotFound)
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translate(dup), repo.ErrDuplicate)
	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestMongoRepo_Products(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	p := &models.Product{Name: "kettle", Price: 10, ImageURL: "k.png"}
	require.NoError(t, r.CreateProduct(ctx, p))
	assert.ErrorIs(t, r.CreateProduct(ctx, &models.Product{Name: "kettle", Price: 10, ImageURL: "k.png"}), repo.ErrDuplicate)

	list, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	_, err = r.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestMongoRepo_CartThroughService(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	auth := &service.AuthService{Repo: r, JWTSecret: []byte("s"), BcryptCost: bcrypt.MinCost}
	cart := &service.CartService{Repo: r, Products: r, Users: r}

	u, err := auth.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "alice", "pw1")
	assert.ErrorIs(t, err, service.ErrConflict)

	p := &models.Product{Name: "mug", Price: 2, ImageURL: "m.png"}
	require.NoError(t, r.CreateProduct(ctx, p))

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = cart.AddToCart(ctx, u.ID, p.ID)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, fmt.Sprintf("add %d", i))
	}

	items, err := cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, n, items[0].Quantity)
	require.NotNil(t, items[0].Product)

	for i := n - 1; i >= 1; i-- {
		removed, item, err := cart.DeleteOneFromCart(ctx, u.ID, p.ID)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.EqualValues(t, i, item.Quantity)
	}
	removed, _, err := cart.DeleteOneFromCart(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, _, err = cart.DeleteOneFromCart(ctx, u.ID, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
