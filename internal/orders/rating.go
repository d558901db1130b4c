package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
	"github.com/jcmexdev/foodcart/internal/pkg/keylock"
)

// RatingGate writes ratings only for delivered orders and keeps at most one
// rating per user and order.
type RatingGate struct {
	lifecycle *Lifecycle
	ratings   ports.RatingRepository
	locks     *keylock.Locker
	now       func() time.Time
}

func NewRatingGate(lifecycle *Lifecycle, ratings ports.RatingRepository) *RatingGate {
	return &RatingGate{
		lifecycle: lifecycle,
		ratings:   ratings,
		locks:     keylock.New(),
		now:       time.Now,
	}
}

// SubmitRating records value for the order. A second submission overwrites
// the first. The store has no unique constraint to lean on, so the
// lookup-then-write runs serialized per user.
func (g *RatingGate) SubmitRating(ctx context.Context, userID, orderID string, value int) (*domain.Rating, error) {
	if value < domain.MinRating || value > domain.MaxRating {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidRating, value)
	}

	release, err := g.locks.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := g.lifecycle.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	if !CanRate(*order) {
		return nil, fmt.Errorf("%w: order is %s", domain.ErrRatingNotAllowed, order.Status)
	}

	existing, err := g.ratings.FindRating(ctx, userID, orderID)
	if err != nil {
		return nil, domain.RemoteError("find rating", err)
	}

	now := g.now().UTC()
	if existing != nil {
		if err := g.ratings.UpdateRating(ctx, existing.ID, value); err != nil {
			return nil, domain.RemoteError("update rating", err)
		}
		existing.Value, existing.UpdatedAt = value, now
		return existing, nil
	}

	id, err := g.ratings.NextID()
	if err != nil {
		return nil, fmt.Errorf("allocate rating id: %w", err)
	}
	r := &domain.Rating{
		ID:           id,
		UserID:       userID,
		RestaurantID: order.RestaurantID,
		OrderID:      orderID,
		Value:        value,
		UpdatedAt:    now,
	}
	if err := g.ratings.InsertRating(ctx, r); err != nil {
		return nil, domain.RemoteError("insert rating", err)
	}
	return r, nil
}

// CurrentRating returns the user's rating of the order, or 0 when there is
// none. A failed lookup is logged and also reads as 0.
func (g *RatingGate) CurrentRating(ctx context.Context, userID, orderID string) int {
	r, err := g.ratings.FindRating(ctx, userID, orderID)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch rating", "user_id", userID, "order_id", orderID, "error", err)
		return 0
	}
	if r == nil {
		return 0
	}
	return r.Value
}
