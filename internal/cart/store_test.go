package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

func newLoadedStore(t *testing.T, repo *memCartRepo) *Store {
	t.Helper()
	s := NewStore("u-1", repo)
	require.NoError(t, s.Reconcile(context.Background()))
	return s
}

func TestStoreAddToCart(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza, salad, sushi)
	s := newLoadedStore(t, repo)

	require.NoError(t, s.AddToCart(ctx, pizza, 2))
	require.NoError(t, s.AddToCart(ctx, salad, 1))
	require.NoError(t, s.AddToCart(ctx, pizza, 1))

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.InDelta(t, 35.0, s.Price().Subtotal, 1e-9)

	err := s.AddToCart(ctx, sushi, 1)
	require.ErrorIs(t, err, domain.ErrConflictingRestaurant)
	assert.Equal(t, lines, s.Lines())
}

func TestStoreReloadFailureAfterWrite(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza)
	s := newLoadedStore(t, repo)

	repo.failLists = 1
	err := s.AddToCart(ctx, pizza, 1)
	require.ErrorIs(t, err, domain.ErrRemoteStore)
	assert.Empty(t, s.Lines(), "projection is not updated ahead of a reload")

	require.NoError(t, s.AddToCart(ctx, pizza, 1))
	lines := s.Lines()
	require.Len(t, lines, 1, "the second add must merge into the row written by the first")
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Len(t, repo.rows["u-1"], 1)

	repo.failLists = 1
	require.Error(t, s.UpdateQuantity(ctx, pizza.ID, 2))
	err = s.AddToCart(ctx, pizza, 2)
	require.ErrorIs(t, err, domain.ErrQuantityLimitExceeded, "the ceiling is checked against reloaded rows")
	assert.Equal(t, 4, s.Lines()[0].Quantity)
}

func TestStoreUpdateQuantityRemovesAtZero(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza)
	s := newLoadedStore(t, repo)

	require.NoError(t, s.AddToCart(ctx, pizza, 1))
	require.NoError(t, s.UpdateQuantity(ctx, pizza.ID, -1))

	assert.Empty(t, s.Lines())
	assert.Empty(t, repo.rows["u-1"])
}

func TestStoreZeroDeltaSkipsWrite(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza)
	s := newLoadedStore(t, repo)
	require.NoError(t, s.AddToCart(ctx, pizza, 1))

	before := repo.lists
	require.NoError(t, s.UpdateQuantity(ctx, pizza.ID, 0))
	assert.Equal(t, before, repo.lists)
}

func TestStoreRemoteFailureKeepsProjection(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza, salad)
	s := newLoadedStore(t, repo)
	require.NoError(t, s.AddToCart(ctx, pizza, 1))
	before := s.Lines()

	repo.fail = true
	err := s.AddToCart(ctx, salad, 1)
	require.ErrorIs(t, err, domain.ErrRemoteStore)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.KindRemoteStoreFailure, domain.KindOf(err))
	assert.Equal(t, before, s.Lines())

	err = s.ClearCart(ctx)
	require.ErrorIs(t, err, domain.ErrRemoteStore)
	assert.Equal(t, before, s.Lines())
}

func TestStorePromo(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza, salad)
	s := newLoadedStore(t, repo)
	require.NoError(t, s.AddToCart(ctx, pizza, 2))
	require.NoError(t, s.AddToCart(ctx, salad, 1))

	amount, err := s.ApplyPromo("WELCOME10", DefaultPromoBook())
	require.NoError(t, err)
	assert.InDelta(t, 2.5, amount, 1e-9)
	assert.InDelta(t, 25.49, s.Price().Total, 1e-9)
	assert.Equal(t, "WELCOME10", s.Snapshot().PromoCode)

	_, err = s.ApplyPromo("NOPE", DefaultPromoBook())
	require.ErrorIs(t, err, domain.ErrInvalidPromoCode)
	assert.Zero(t, s.Price().Discount)
	assert.InDelta(t, 27.99, s.Price().Total, 1e-9)

	_, err = s.ApplyPromo("SAVE5", DefaultPromoBook())
	require.NoError(t, err)
	require.NoError(t, s.ClearCart(ctx))
	assert.Empty(t, s.Lines())
	assert.Zero(t, s.Price().Discount)
	assert.Empty(t, s.Snapshot().PromoCode)
}

func TestStoreMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza)
	s := newLoadedStore(t, repo)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddToCart(ctx, pizza, 1)
		}()
	}
	wg.Wait()

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestStoreExclusive(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza)
	s := newLoadedStore(t, repo)
	require.NoError(t, s.AddToCart(ctx, pizza, 2))

	var snap Snapshot
	err := s.Exclusive(ctx, func(l Locked) error {
		snap = l.Snapshot()
		return l.Clear(ctx)
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", snap.RestaurantID())
	assert.False(t, snap.Empty())
	assert.True(t, s.Snapshot().Empty())
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza)
	repo.rows["u-1"] = []domain.CartLine{{MenuItemID: pizza.ID, Quantity: 2, UnitPrice: 10, RestaurantID: "r-1"}}
	sessions := NewSessions(repo, 0)

	s1, err := sessions.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, s1.Lines(), 1)

	s2, err := sessions.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, repo.lists)

	sessions.End("u-1")
	s3, err := sessions.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.NotSame(t, s1, s3)
}

func TestSessionsIdleExpiry(t *testing.T) {
	ctx := context.Background()
	repo := newMemCartRepo(pizza)
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	sessions := NewSessions(repo, 30*time.Minute)
	sessions.now = func() time.Time { return now }

	s1, err := sessions.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, s1.AddToCart(ctx, pizza, 3))
	_, err = s1.ApplyPromo("SAVE5", DefaultPromoBook())
	require.NoError(t, err)
	_, err = sessions.Get(ctx, "u-2")
	require.NoError(t, err)

	t.Run("activity keeps the session", func(t *testing.T) {
		now = now.Add(20 * time.Minute)
		s, err := sessions.Get(ctx, "u-1")
		require.NoError(t, err)
		assert.Same(t, s1, s)
		assert.InDelta(t, 5.0, s.Price().Discount, 1e-9)
	})

	t.Run("new session after idling starts without discount", func(t *testing.T) {
		now = now.Add(31 * time.Minute)
		s, err := sessions.Get(ctx, "u-1")
		require.NoError(t, err)
		assert.NotSame(t, s1, s)
		assert.Zero(t, s.Price().Discount)
		assert.Empty(t, s.Snapshot().PromoCode)
		require.Len(t, s.Lines(), 1, "cart rows survive, they live in the record store")
		assert.Equal(t, 3, s.Lines()[0].Quantity)
	})

	t.Run("idle sessions are dropped", func(t *testing.T) {
		assert.Equal(t, 1, sessions.Len())
	})
}
