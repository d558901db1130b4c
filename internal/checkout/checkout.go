// Package checkout turns a cart into an order and its items.
//
// The record store offers no multi-row transaction, so a checkout is a saga of
// two permanent writes: the order row, then its items as one batch. The order
// id is allocated before the first write and doubles as the saga id. If the
// items cannot be written the order is left in place, the saga is journaled as
// PARTIAL and the caller receives a *domain.PartialOrderError carrying the id.
// Resume, or a new Checkout of the same cart, completes it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/foodcart/internal/cart"
	"github.com/jcmexdev/foodcart/internal/coordinator"
	"github.com/jcmexdev/foodcart/internal/coordinator/sagalog"
	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
	"github.com/jcmexdev/foodcart/internal/pkg/keylock"
)

// Result is what a successful checkout reports to the caller.
type Result struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
	// Resumed is set when an earlier partial checkout was completed instead
	// of creating a new order.
	Resumed bool `json:"resumed"`
}

type Orchestrator struct {
	orders   ports.OrderRepository
	profiles ports.ProfileRepository
	journal  sagalog.Repository
	saga     *coordinator.Orchestrator
	events   ports.EventDispatcher
	inflight *keylock.Locker
	now      func() time.Time
}

func New(
	orders ports.OrderRepository,
	profiles ports.ProfileRepository,
	journal sagalog.Repository,
	events ports.EventDispatcher,
) *Orchestrator {
	return &Orchestrator{
		orders:   orders,
		profiles: profiles,
		journal:  journal,
		saga:     coordinator.NewOrchestrator(journal),
		events:   events,
		inflight: keylock.New(),
		now:      time.Now,
	}
}

// Checkout places the user's cart as an order paid with method. An empty cart
// is a no-op and returns a nil Result. Only one checkout per user runs at a
// time; a second one gets ErrCheckoutInProgress. Cart mutations issued while
// the checkout runs wait until it is done.
func (o *Orchestrator) Checkout(ctx context.Context, store *cart.Store, method domain.PaymentMethod) (*Result, error) {
	userID := store.UserID()
	release, ok := o.inflight.TryAcquire(userID)
	if !ok {
		return nil, domain.ErrCheckoutInProgress
	}
	defer release()

	var res *Result
	err := store.Exclusive(ctx, func(l cart.Locked) error {
		if err := l.Reconcile(ctx); err != nil {
			return err
		}
		snap := l.Snapshot()
		if snap.Empty() {
			return nil
		}

		address, err := o.deliveryAddress(ctx, userID)
		if err != nil {
			return err
		}

		p := newPlan(snap, address, method)
		res, err = o.placeOrResume(ctx, p)
		if err != nil {
			return err
		}

		if err := l.Clear(ctx); err != nil {
			slog.ErrorContext(ctx, "order placed but cart not cleared",
				"user_id", userID, "order_id", res.OrderID, "error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Resume completes a partial checkout of userID. Resuming a completed
// checkout returns its result again.
func (o *Orchestrator) Resume(ctx context.Context, userID, orderID string) (*Result, error) {
	release, ok := o.inflight.TryAcquire(userID)
	if !ok {
		return nil, domain.ErrCheckoutInProgress
	}
	defer release()

	latest, err := o.journal.GetLatest(ctx, orderID)
	if errors.Is(err, sagalog.ErrNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, domain.RemoteError("read saga log", err)
	}
	if latest.OwnerID != userID {
		return nil, domain.ErrOrderNotFound
	}

	p, err := decodePlan(latest.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode checkout %s: %w", orderID, err)
	}

	switch {
	case latest.Status == sagalog.StatusCompleted:
		return &Result{OrderID: orderID, Total: p.Total}, nil
	case !latest.Status.Resumable():
		return nil, fmt.Errorf("%w: checkout %s is %s", domain.ErrOrderNotFound, orderID, latest.Status)
	}

	return o.resume(ctx, orderID, latest.Payload, p)
}

func (o *Orchestrator) deliveryAddress(ctx context.Context, userID string) (string, error) {
	profile, err := o.profiles.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return "", domain.ErrMissingDeliveryProfile
	}
	if err != nil {
		return "", domain.RemoteError("get profile", err)
	}
	if profile.Address == "" {
		return "", domain.ErrMissingDeliveryProfile
	}
	return profile.Address, nil
}

// placeOrResume completes a partial checkout of exactly the same cart if one
// exists, otherwise places a new order.
func (o *Orchestrator) placeOrResume(ctx context.Context, p plan) (*Result, error) {
	payload, err := p.encode()
	if err != nil {
		return nil, fmt.Errorf("encode checkout: %w", err)
	}

	partial, err := o.journal.FindLatest(ctx, p.UserID, sagalog.StatusPartial)
	if err != nil {
		return nil, domain.RemoteError("read saga log", err)
	}
	for _, entry := range partial {
		if entry.Payload == payload {
			return o.resume(ctx, entry.SagaID, payload, p)
		}
	}

	return o.place(ctx, payload, p)
}

func (o *Orchestrator) place(ctx context.Context, payload string, p plan) (*Result, error) {
	orderID, err := o.orders.NextID()
	if err != nil {
		return nil, fmt.Errorf("allocate order id: %w", err)
	}

	order := &domain.Order{
		ID:              orderID,
		UserID:          p.UserID,
		RestaurantID:    p.RestaurantID,
		RestaurantName:  p.RestaurantName,
		TotalAmount:     p.Total,
		Status:          domain.StatusPending,
		DeliveryAddress: p.Address,
		PaymentMethod:   p.PaymentMethod,
		CreatedAt:       o.now().UTC(),
	}

	err = o.saga.Start(ctx, coordinator.Saga{
		ID:      orderID,
		OwnerID: p.UserID,
		Payload: payload,
		Steps: []coordinator.Step{
			&createOrderStep{repo: o.orders, order: order},
			&insertItemsStep{repo: o.orders, orderID: orderID, items: p.orderItems(orderID)},
		},
	})
	if err != nil {
		return nil, sagaError(orderID, err)
	}

	o.dispatch(ctx, p.placedEvent(orderID))
	slog.InfoContext(ctx, "order placed", "user_id", p.UserID, "order_id", orderID, "total", p.Total)
	return &Result{OrderID: orderID, Total: p.Total}, nil
}

func (o *Orchestrator) resume(ctx context.Context, orderID, payload string, p plan) (*Result, error) {
	if _, err := o.orders.GetOrder(ctx, orderID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, err
		}
		return nil, domain.RemoteError("get order", err)
	}

	err := o.saga.Resume(ctx, coordinator.Saga{
		ID:        orderID,
		OwnerID:   p.UserID,
		Payload:   payload,
		Completed: []string{stepCreateOrder},
		Steps: []coordinator.Step{
			&insertItemsStep{repo: o.orders, orderID: orderID, items: p.orderItems(orderID)},
		},
	})
	if err != nil {
		return nil, sagaError(orderID, err)
	}

	o.dispatch(ctx, p.placedEvent(orderID))
	slog.InfoContext(ctx, "partial order completed", "user_id", p.UserID, "order_id", orderID)
	return &Result{OrderID: orderID, Total: p.Total, Resumed: true}, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, ev ports.Event) {
	if err := o.events.Dispatch(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to dispatch event", "type", ev.Type(), "error", err)
	}
}

func sagaError(orderID string, err error) error {
	var f *coordinator.Failure
	if !errors.As(err, &f) {
		return err
	}
	if f.Partial {
		return &domain.PartialOrderError{OrderID: orderID, Err: f.Err}
	}
	return f.Err
}
