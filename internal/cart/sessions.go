package cart

import (
	"context"
	"sync"
	"time"

	"github.com/jcmexdev/foodcart/internal/core/ports"
)

// Sessions hands out one Store per user. The store, and with it the session
// discount, lives until End is called or the user has been idle for longer
// than the idle timeout. The next Get then starts a new session: the cart is
// reloaded from the record store and no discount applies.
type Sessions struct {
	repo ports.CartRepository
	idle time.Duration
	now  func() time.Time

	mu        sync.Mutex
	stores    map[string]*session
	lastSweep time.Time
}

type session struct {
	store    *Store
	lastUsed time.Time
}

// NewSessions returns a registry whose sessions expire after idle. A zero
// idle keeps sessions until End.
func NewSessions(repo ports.CartRepository, idle time.Duration) *Sessions {
	return &Sessions{
		repo:   repo,
		idle:   idle,
		now:    time.Now,
		stores: make(map[string]*session),
	}
}

// Get returns the user's store, reconciling it from the record store the
// first time it is used.
func (s *Sessions) Get(ctx context.Context, userID string) (*Store, error) {
	s.mu.Lock()
	now := s.now()
	s.sweep(now)
	sess, ok := s.stores[userID]
	if !ok || s.expired(sess, now) {
		sess = &session{store: NewStore(userID, s.repo)}
		s.stores[userID] = sess
	}
	sess.lastUsed = now
	st := sess.store
	s.mu.Unlock()

	if err := st.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// End forgets the user's session, e.g. on logout.
func (s *Sessions) End(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stores, userID)
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

func (s *Sessions) expired(sess *session, now time.Time) bool {
	return s.idle > 0 && now.Sub(sess.lastUsed) > s.idle
}

// sweep drops expired sessions, at most once per idle period.
func (s *Sessions) sweep(now time.Time) {
	if s.idle <= 0 || now.Sub(s.lastSweep) < s.idle {
		return
	}
	s.lastSweep = now
	for id, sess := range s.stores {
		if s.expired(sess, now) {
			delete(s.stores, id)
		}
	}
}
