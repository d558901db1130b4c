package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

var errBoom = errors.New("connection reset")

// memCartRepo is an in-memory CartRepository. Set fail to make writes return
// errBoom, and failLists to make that many upcoming reads return it.
type memCartRepo struct {
	mu        sync.Mutex
	catalog   map[string]domain.MenuItem
	rows      map[string][]domain.CartLine
	fail      bool
	failLists int
	lists     int
}

func newMemCartRepo(items ...domain.MenuItem) *memCartRepo {
	r := &memCartRepo{
		catalog: make(map[string]domain.MenuItem),
		rows:    make(map[string][]domain.CartLine),
	}
	for _, it := range items {
		r.catalog[it.ID] = it
	}
	return r
}

func (r *memCartRepo) ListLines(_ context.Context, userID string) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.failLists > 0 {
		r.failLists--
		return nil, errBoom
	}
	out := make([]domain.CartLine, len(r.rows[userID]))
	copy(out, r.rows[userID])
	return out, nil
}

func (r *memCartRepo) InsertLine(_ context.Context, userID, menuItemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBoom
	}
	it := r.catalog[menuItemID]
	r.rows[userID] = append(r.rows[userID], domain.CartLine{
		CartRowID:      "row-" + menuItemID,
		MenuItemID:     menuItemID,
		Quantity:       quantity,
		UnitPrice:      it.Price,
		RestaurantID:   it.RestaurantID,
		RestaurantName: it.RestaurantName,
		Name:           it.Name,
	})
	return nil
}

func (r *memCartRepo) SetQuantity(_ context.Context, userID, menuItemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBoom
	}
	for i, l := range r.rows[userID] {
		if l.MenuItemID == menuItemID {
			r.rows[userID][i].Quantity = quantity
		}
	}
	return nil
}

func (r *memCartRepo) DeleteLine(_ context.Context, userID, menuItemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBoom
	}
	kept := r.rows[userID][:0]
	for _, l := range r.rows[userID] {
		if l.MenuItemID != menuItemID {
			kept = append(kept, l)
		}
	}
	r.rows[userID] = kept
	return nil
}

func (r *memCartRepo) DeleteAll(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBoom
	}
	delete(r.rows, userID)
	return nil
}

var (
	pizza = domain.MenuItem{ID: "m-pizza", RestaurantID: "r-1", RestaurantName: "Luigi's", Name: "Pizza", Price: 10}
	salad = domain.MenuItem{ID: "m-salad", RestaurantID: "r-1", RestaurantName: "Luigi's", Name: "Salad", Price: 5}
	sushi = domain.MenuItem{ID: "m-sushi", RestaurantID: "r-2", RestaurantName: "Kyoto", Name: "Sushi", Price: 12}
)
