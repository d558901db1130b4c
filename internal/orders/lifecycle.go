// Package orders is the read model and state machine over placed orders.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
)

// itemLoaders bounds the concurrent item reads of ListOrders.
const itemLoaders = 8

// next is the forward path of fulfillment. Cancellation is allowed from any
// state that is not terminal.
var next = map[domain.OrderStatus]domain.OrderStatus{
	domain.StatusPending:   domain.StatusPreparing,
	domain.StatusPreparing: domain.StatusOnTheWay,
	domain.StatusOnTheWay:  domain.StatusDelivered,
}

// CanTransition reports whether fulfillment may move an order from one
// status to the other.
func CanTransition(from, to domain.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == domain.StatusCancelled {
		return true
	}
	return next[from] == to
}

// CanRate reports whether the order may receive a rating.
func CanRate(o domain.Order) bool {
	return o.Status == domain.StatusDelivered
}

type Lifecycle struct {
	orders ports.OrderRepository
	events ports.EventDispatcher
}

func NewLifecycle(orders ports.OrderRepository, events ports.EventDispatcher) *Lifecycle {
	return &Lifecycle{orders: orders, events: events}
}

// ListOrders returns the user's orders newest first, each with its items.
func (l *Lifecycle) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	list, err := l.orders.ListOrders(ctx, userID)
	if err != nil {
		return nil, domain.RemoteError("list orders", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(itemLoaders)
	for i := range list {
		g.Go(func() error {
			items, err := l.orders.ListItems(gctx, list[i].ID)
			if err != nil {
				return domain.RemoteError("list order items", err)
			}
			list[i].Items = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return list, nil
}

// GetOrder returns one order of the user with its items. Orders of other
// users are reported as not found.
func (l *Lifecycle) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := l.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}

	items, err := l.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, domain.RemoteError("list order items", err)
	}
	o.Items = items
	return o, nil
}

// ApplyStatus moves an order to status to on behalf of the fulfillment
// process. The update only matches while the order is still in the status it
// was read with, so two racing updates cannot both win.
func (l *Lifecycle) ApplyStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	o, err := l.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if from == to {
		return o, nil
	}
	if !CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	ok, err := l.orders.UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return nil, domain.RemoteError("update order status", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %s is no longer %s", domain.ErrInvalidTransition, orderID, from)
	}
	o.Status = to

	slog.InfoContext(ctx, "order status changed", "order_id", orderID, "from", from, "to", to)
	if err := l.events.Dispatch(ctx, domain.OrderStatusChanged{OrderID: orderID, From: from, To: to}); err != nil {
		slog.WarnContext(ctx, "failed to dispatch event", "order_id", orderID, "error", err)
	}
	return o, nil
}

func (l *Lifecycle) load(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := l.orders.GetOrder(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, domain.RemoteError("get order", err)
	}
	return o, nil
}
