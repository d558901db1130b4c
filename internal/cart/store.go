package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
)

// Store is the in-memory projection of one user's cart rows.
//
// Every mutation follows the same two phases: apply the validated change to
// the record store, then Reconcile the projection from it. The projection is
// never updated ahead of the remote write, so a failed write leaves the last
// reconciled state in place. Between the write and the end of Reconcile the
// projection is stale.
//
// Mutations of one Store run one at a time; a mutation started while another
// is in flight waits behind it (FIFO).
type Store struct {
	userID string
	repo   ports.CartRepository
	sem    *semaphore.Weighted

	mu       sync.RWMutex
	lines    []domain.CartLine
	discount float64
	promo    string
	loaded   bool
}

func NewStore(userID string, repo ports.CartRepository) *Store {
	return &Store{
		userID: userID,
		repo:   repo,
		sem:    semaphore.NewWeighted(1),
	}
}

func (s *Store) UserID() string { return s.userID }

// Reconcile replaces the projection with the rows currently in the record
// store. When the reload fails the last lines are kept but marked stale, and
// the next mutation reloads before deciding.
func (s *Store) Reconcile(ctx context.Context) error {
	lines, err := s.repo.ListLines(ctx, s.userID)
	if err != nil {
		s.markStale()
		return domain.RemoteError("reload cart", err)
	}

	s.mu.Lock()
	s.lines = lines
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Lines returns a copy of the last reconciled lines.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lines)
}

func (s *Store) AddToCart(ctx context.Context, item domain.MenuItem, quantity int) error {
	return s.mutate(ctx, func(lines []domain.CartLine) (Mutation, error) {
		return ValidateAdd(lines, item, quantity)
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, menuItemID string, delta int) error {
	return s.mutate(ctx, func(lines []domain.CartLine) (Mutation, error) {
		return ValidateUpdate(lines, menuItemID, delta)
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, menuItemID string) error {
	return s.mutate(ctx, func([]domain.CartLine) (Mutation, error) {
		return Mutation{Kind: MutationRemove, MenuItemID: menuItemID}, nil
	})
}

// ClearCart deletes every row of the user and drops the discount.
func (s *Store) ClearCart(ctx context.Context) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)
	return s.clear(ctx)
}

// ApplyPromo resolves code against the current subtotal and keeps the
// resulting absolute amount as the session discount. An unknown code resets
// the discount to zero and returns ErrInvalidPromoCode.
func (s *Store) ApplyPromo(code string, book PromoBook) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := Price(s.lines, 0).Subtotal
	amount, err := book.Resolve(code, subtotal)
	if err != nil {
		s.discount, s.promo = 0, ""
		return 0, err
	}
	s.discount, s.promo = amount, NormalizeCode(code)
	return amount, nil
}

func (s *Store) Price() PricedCart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Price(s.lines, s.discount)
}

// Snapshot is a priced, immutable copy of the cart.
type Snapshot struct {
	UserID    string
	Lines     []domain.CartLine
	Priced    PricedCart
	PromoCode string
}

func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

// RestaurantID is the restaurant shared by every line.
func (s Snapshot) RestaurantID() string {
	if len(s.Lines) == 0 {
		return ""
	}
	return s.Lines[0].RestaurantID
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		UserID:    s.userID,
		Lines:     slices.Clone(s.lines),
		Priced:    Price(s.lines, s.discount),
		PromoCode: s.promo,
	}
}

// Locked is the view of a Store handed to Exclusive callbacks. Its methods
// must not be used after the callback returns.
type Locked struct {
	s *Store
}

func (l Locked) Reconcile(ctx context.Context) error { return l.s.Reconcile(ctx) }
func (l Locked) Snapshot() Snapshot                  { return l.s.Snapshot() }
func (l Locked) Clear(ctx context.Context) error     { return l.s.clear(ctx) }

// Exclusive runs fn while holding the mutation slot, so no cart mutation can
// interleave with it. Mutations issued meanwhile queue behind fn.
func (s *Store) Exclusive(ctx context.Context, fn func(Locked) error) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)
	return fn(Locked{s: s})
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.isLoaded() {
		return nil
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	if s.isLoaded() {
		return nil
	}
	return s.Reconcile(ctx)
}

func (s *Store) mutate(ctx context.Context, decide func([]domain.CartLine) (Mutation, error)) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	if !s.isLoaded() {
		if err := s.Reconcile(ctx); err != nil {
			return err
		}
	}

	m, err := decide(s.Lines())
	if err != nil {
		return err
	}
	if m.Kind == MutationNone {
		return nil
	}
	if err := s.apply(ctx, m); err != nil {
		// The write may have landed before it failed.
		s.markStale()
		return err
	}
	return s.Reconcile(ctx)
}

func (s *Store) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) markStale() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

func (s *Store) apply(ctx context.Context, m Mutation) error {
	var err error
	switch m.Kind {
	case MutationInsert:
		err = s.repo.InsertLine(ctx, s.userID, m.MenuItemID, m.Quantity)
	case MutationSetQuantity:
		err = s.repo.SetQuantity(ctx, s.userID, m.MenuItemID, m.Quantity)
	case MutationRemove:
		err = s.repo.DeleteLine(ctx, s.userID, m.MenuItemID)
	default:
		return fmt.Errorf("cart: unexpected mutation %v", m.Kind)
	}
	return domain.RemoteError(m.Kind.String(), err)
}

func (s *Store) clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx, s.userID); err != nil {
		return domain.RemoteError("clear cart", err)
	}

	s.mu.Lock()
	s.discount, s.promo = 0, ""
	s.mu.Unlock()

	return s.Reconcile(ctx)
}
