package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
)

var errBoom = errors.New("connection reset")

type fakeCartRepo struct {
	mu      sync.Mutex
	catalog map[string]domain.MenuItem
	rows    map[string][]domain.CartLine
}

func newFakeCartRepo(items ...domain.MenuItem) *fakeCartRepo {
	r := &fakeCartRepo{catalog: map[string]domain.MenuItem{}, rows: map[string][]domain.CartLine{}}
	for _, it := range items {
		r.catalog[it.ID] = it
	}
	return r
}

// ListLines joins rows with the current catalog price, like the real store.
func (r *fakeCartRepo) ListLines(_ context.Context, userID string) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CartLine, 0, len(r.rows[userID]))
	for _, l := range r.rows[userID] {
		it := r.catalog[l.MenuItemID]
		l.UnitPrice, l.Name, l.RestaurantID, l.RestaurantName = it.Price, it.Name, it.RestaurantID, it.RestaurantName
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeCartRepo) InsertLine(_ context.Context, userID, menuItemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[userID] = append(r.rows[userID], domain.CartLine{MenuItemID: menuItemID, Quantity: quantity})
	return nil
}

func (r *fakeCartRepo) SetQuantity(_ context.Context, userID, menuItemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows[userID] {
		if r.rows[userID][i].MenuItemID == menuItemID {
			r.rows[userID][i].Quantity = quantity
		}
	}
	return nil
}

func (r *fakeCartRepo) DeleteLine(_ context.Context, userID, menuItemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[userID][:0]
	for _, l := range r.rows[userID] {
		if l.MenuItemID != menuItemID {
			kept = append(kept, l)
		}
	}
	r.rows[userID] = kept
	return nil
}

func (r *fakeCartRepo) DeleteAll(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userID)
	return nil
}

func (r *fakeCartRepo) setPrice(id string, price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.catalog[id]
	it.Price = price
	r.catalog[id] = it
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	seq       int
	orders    map[string]domain.Order
	items     map[string][]domain.OrderItem
	failItems bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]domain.Order{}, items: map[string][]domain.OrderItem{}}
}

func (r *fakeOrderRepo) NextID() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("order-%d", r.seq), nil
}

func (r *fakeOrderRepo) InsertOrder(_ context.Context, o *domain.Order) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return o.ID, nil
}

func (r *fakeOrderRepo) InsertItems(_ context.Context, orderID string, items []domain.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failItems {
		return errBoom
	}
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
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	r.orders[orderID] = o
	return true, nil
}

type fakeProfileRepo struct {
	profiles map[string]domain.Profile
}

func (r *fakeProfileRepo) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) InsertProfile(_ context.Context, p domain.Profile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) UpdateProfile(_ context.Context, p domain.Profile) error {
	r.profiles[p.UserID] = p
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
