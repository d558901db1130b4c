package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
)

var errBoom = errors.New("connection reset")

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	items  map[string][]domain.OrderItem
	// steal, when set, changes the order status right before UpdateStatus
	// looks at it, like a concurrent writer would.
	steal domain.OrderStatus
}

func newFakeOrderRepo(orders ...domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]domain.Order{}, items: map[string][]domain.OrderItem{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) NextID() (string, error) { return fmt.Sprintf("order-%d", len(r.orders)+1), nil }

func (r *fakeOrderRepo) InsertOrder(_ context.Context, o *domain.Order) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return o.ID, nil
}

func (r *fakeOrderRepo) InsertItems(_ context.Context, orderID string, items []domain.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[orderID] = append(r.items[orderID], items...)
	return nil
}

func (r *fakeOrderRepo) ListItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.OrderItem(nil), r.items[orderID]...), nil
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	if r.steal != "" {
		o.Status = r.steal
	}
	if o.Status != from {
		r.orders[orderID] = o
		return false, nil
	}
	o.Status = to
	r.orders[orderID] = o
	return true, nil
}

func (r *fakeOrderRepo) setStatus(orderID string, s domain.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.orders[orderID]
	o.Status = s
	r.orders[orderID] = o
}

type fakeRatingRepo struct {
	mu       sync.Mutex
	rows     []domain.Rating
	failFind bool
}

func (r *fakeRatingRepo) NextID() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("rating-%d", len(r.rows)+1), nil
}

func (r *fakeRatingRepo) FindRating(_ context.Context, userID, orderID string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind {
		return nil, errBoom
	}
	for _, row := range r.rows {
		if row.UserID == userID && row.OrderID == orderID {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *fakeRatingRepo) InsertRating(_ context.Context, rt *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *rt)
	return nil
}

func (r *fakeRatingRepo) UpdateRating(_ context.Context, id string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Value = value
		}
	}
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev ports.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return nil
}
