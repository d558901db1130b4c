package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

func order(id, user string, status domain.OrderStatus, created time.Time) domain.Order {
	return domain.Order{ID: id, UserID: user, RestaurantID: "r-1", Status: status, CreatedAt: created}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.StatusPending, domain.StatusPreparing, true},
		{domain.StatusPreparing, domain.StatusOnTheWay, true},
		{domain.StatusOnTheWay, domain.StatusDelivered, true},
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusOnTheWay, domain.StatusCancelled, true},
		{domain.StatusPending, domain.StatusDelivered, false},
		{domain.StatusPreparing, domain.StatusPending, false},
		{domain.StatusDelivered, domain.StatusCancelled, false},
		{domain.StatusCancelled, domain.StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanRate(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.StatusPending, domain.StatusPreparing, domain.StatusOnTheWay, domain.StatusCancelled,
	} {
		assert.False(t, CanRate(domain.Order{Status: s}), s)
	}
	assert.True(t, CanRate(domain.Order{Status: domain.StatusDelivered}))
}

func TestListOrdersNewestFirstWithItems(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo(
		order("o-1", "u-1", domain.StatusDelivered, base),
		order("o-2", "u-1", domain.StatusPending, base.Add(time.Hour)),
		order("o-3", "u-2", domain.StatusPending, base.Add(2*time.Hour)),
	)
	repo.items["o-1"] = []domain.OrderItem{{OrderID: "o-1", MenuItemID: "m-1", Quantity: 2, PriceAtTime: 10}}
	repo.items["o-2"] = []domain.OrderItem{{OrderID: "o-2", MenuItemID: "m-2", Quantity: 1, PriceAtTime: 5}}

	l := NewLifecycle(repo, &recordingDispatcher{})
	list, err := l.ListOrders(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o-2", list[0].ID)
	assert.Equal(t, "o-1", list[1].ID)
	require.Len(t, list[1].Items, 1)
	assert.InDelta(t, 10.0, list[1].Items[0].PriceAtTime, 1e-9)
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo(order("o-1", "u-1", domain.StatusPending, time.Now()))
	l := NewLifecycle(repo, &recordingDispatcher{})

	o, err := l.GetOrder(ctx, "u-1", "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)

	_, err = l.GetOrder(ctx, "u-2", "o-1")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = l.GetOrder(ctx, "u-1", "missing")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestApplyStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the lifecycle", func(t *testing.T) {
		repo := newFakeOrderRepo(order("o-1", "u-1", domain.StatusPending, time.Now()))
		events := &recordingDispatcher{}
		l := NewLifecycle(repo, events)

		for _, s := range []domain.OrderStatus{domain.StatusPreparing, domain.StatusOnTheWay, domain.StatusDelivered} {
			o, err := l.ApplyStatus(ctx, "o-1", s)
			require.NoError(t, err)
			assert.Equal(t, s, o.Status)
		}
		assert.Len(t, events.events, 3)

		_, err := l.ApplyStatus(ctx, "o-1", domain.StatusCancelled)
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("skipping a state is rejected", func(t *testing.T) {
		repo := newFakeOrderRepo(order("o-1", "u-1", domain.StatusPending, time.Now()))
		l := NewLifecycle(repo, &recordingDispatcher{})

		_, err := l.ApplyStatus(ctx, "o-1", domain.StatusDelivered)
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.KindNotAllowed, domain.KindOf(err))
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		repo := newFakeOrderRepo(order("o-1", "u-1", domain.StatusPreparing, time.Now()))
		events := &recordingDispatcher{}
		l := NewLifecycle(repo, events)

		o, err := l.ApplyStatus(ctx, "o-1", domain.StatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPreparing, o.Status)
		assert.Empty(t, events.events)
	})

	t.Run("lost race is rejected", func(t *testing.T) {
		repo := newFakeOrderRepo(order("o-1", "u-1", domain.StatusPending, time.Now()))
		repo.steal = domain.StatusCancelled
		l := NewLifecycle(repo, &recordingDispatcher{})

		_, err := l.ApplyStatus(ctx, "o-1", domain.StatusPreparing)
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.StatusCancelled, repo.orders["o-1"].Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		l := NewLifecycle(newFakeOrderRepo(), &recordingDispatcher{})
		_, err := l.ApplyStatus(ctx, "nope", domain.StatusPreparing)
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}
