package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUserAndProduct(t *testing.T, f *fixture) (*models.User, *models.Product) {
	t.Helper()
	ctx := context.Background()

	u, err := f.auth.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	p, err := f.catalog.CreateProduct(ctx, NewProduct{Name: "mug", Price: ptr(4.5), ImageURL: "mug.png"})
	require.NoError(t, err)
	return u, p
}

func TestCartService_AddThenRemove(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u, p := seedUserAndProduct(t, f)

	const n = 4
	for i := 1; i <= n; i++ {
		item, created, err := f.cart.AddToCart(ctx, u.ID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, i == 1, created)
		assert.EqualValues(t, i, item.Quantity)
		require.NotNil(t, item.Product)
		assert.Equal(t, p.ID, item.Product.ID)
	}

	items, err := f.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, n, items[0].Quantity)

	for i := n - 1; i >= 1; i-- {
		removed, item, err := f.cart.DeleteOneFromCart(ctx, u.ID, p.ID)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.EqualValues(t, i, item.Quantity)
	}

	removed, item, err := f.cart.DeleteOneFromCart(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, item)

	_, _, err = f.cart.DeleteOneFromCart(ctx, u.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err = f.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u, _ := seedUserAndProduct(t, f)

	_, _, err := f.cart.AddToCart(ctx, u.ID, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.cart.AddToCart(ctx, u.ID, uuid.Nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = f.cart.DeleteOneFromCart(ctx, u.ID, uuid.Nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.cart.GetCart(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_CartsAreIsolated(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice, p := seedUserAndProduct(t, f)
	bob, err := f.auth.Register(ctx, "bob", "pw2")
	require.NoError(t, err)

	_, _, err = f.cart.AddToCart(ctx, alice.ID, p.ID)
	require.NoError(t, err)

	_, _, err = f.cart.DeleteOneFromCart(ctx, bob.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := f.cart.GetCart(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u, p := seedUserAndProduct(t, f)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, c, err := f.cart.AddToCart(ctx, u.ID, p.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if c {
				created++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, created)

	items, err := f.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, workers, items[0].Quantity)
}

// racingCartStore simulates another request creating the line between our
// increment attempt and our insert.
type racingCartStore struct {
	*repo.GormRepo
	raced bool
}

func (s *racingCartStore) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	if !s.raced {
		s.raced = true
		rival := &models.CartItem{UserID: item.UserID, ProductID: item.ProductID, Quantity: 1}
		if err := s.GormRepo.InsertCartItem(ctx, rival); err != nil {
			return err
		}
	}
	return s.GormRepo.InsertCartItem(ctx, item)
}

func TestCartService_AddRetriesAfterDuplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u, p := seedUserAndProduct(t, f)

	svc := &CartService{Repo: &racingCartStore{GormRepo: f.repo}, Products: f.repo, Users: f.repo}
	item, created, err := svc.AddToCart(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 2, item.Quantity)
}

// afterCartUpdate runs fn once, right after the next UPDATE on cart_items has
// executed and before our statement returns, through the same connection.
func afterCartUpdate(t *testing.T, f *fixture, fn func(r *repo.GormRepo)) {
	t.Helper()

	var armed atomic.Bool
	armed.Store(true)
	err := f.repo.DB.Callback().Update().After("gorm:update").Register("test:after_cart_update", func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Table != "cart_items" || !armed.CompareAndSwap(true, false) {
			return
		}
		fn(repo.New(tx.Session(&gorm.Session{NewDB: true})))
	})
	require.NoError(t, err)
}

func TestCartService_AddKeepsIncrementWhenLineRemovedAfterWrite(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u, p := seedUserAndProduct(t, f)

	_, _, err := f.cart.AddToCart(ctx, u.ID, p.ID)
	require.NoError(t, err)

	// two removals land between our increment and any read of the row
	afterCartUpdate(t, f, func(r *repo.GormRepo) {
		_, err := r.DecrementCartItem(ctx, u.ID, p.ID)
		require.NoError(t, err)
		removed, err := r.DeleteLastCartItem(ctx, u.ID, p.ID)
		require.NoError(t, err)
		require.True(t, removed)
	})

	item, created, err := f.cart.AddToCart(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 2, item.Quantity)

	items, err := f.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_RemoveKeepsDecrementWhenLineRemovedAfterWrite(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u, p := seedUserAndProduct(t, f)

	for i := 0; i < 3; i++ {
		_, _, err := f.cart.AddToCart(ctx, u.ID, p.ID)
		require.NoError(t, err)
	}

	afterCartUpdate(t, f, func(r *repo.GormRepo) {
		_, err := r.DecrementCartItem(ctx, u.ID, p.ID)
		require.NoError(t, err)
		removed, err := r.DeleteLastCartItem(ctx, u.ID, p.ID)
		require.NoError(t, err)
		require.True(t, removed)
	})

	removed, item, err := f.cart.DeleteOneFromCart(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	require.NotNil(t, item)
	assert.EqualValues(t, 2, item.Quantity)

	items, err := f.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
