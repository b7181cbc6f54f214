package cart

import (
	"sync"

	"go.uber.org/zap"

	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/pkg/metrics"
)

// Store owns the in-memory cart of every active session and writes each
// mutation through to Storage. The mutex makes mutate-then-persist atomic,
// so a stale concurrent request can never overwrite a newer cart.
type Store struct {
	mu      sync.Mutex
	storage Storage
	carts   map[string]Cart
}

func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		carts:   make(map[string]Cart),
	}
}

// hydrate loads the persisted cart for a session exactly once. Malformed
// persisted data degrades to an empty cart instead of failing the request.
// Callers must hold s.mu.
func (s *Store) hydrate(sessionID string) Cart {
	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	data, err := s.storage.Load(sessionID)
	if err != nil {
		zap.L().Warn("cart: load failed, starting empty",
			zap.String("session_id", sessionID), zap.Error(err))
		data = nil
	}
	c, err := Decode(data)
	if err != nil {
		zap.L().Warn("cart: discarding malformed persisted cart",
			zap.String("session_id", sessionID), zap.Error(err))
		c = Cart{}
	}
	s.carts[sessionID] = c
	return c
}

// persist writes the current cart state through to storage. Callers must
// hold s.mu.
func (s *Store) persist(sessionID string, c Cart) {
	s.carts[sessionID] = c
	data, err := Encode(c)
	if err != nil {
		zap.L().Error("cart: encode failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	if err := s.storage.Save(sessionID, data); err != nil {
		zap.L().Error("cart: persist failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	metrics.RecordCounter(metrics.MetricCartMutations)
}

// Get returns the current cart for a session, hydrating it from storage on
// first access.
func (s *Store) Get(sessionID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrate(sessionID)
}

func (s *Store) AddItem(sessionID string, product domain.Product, quantity int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.hydrate(sessionID).AddItem(product, quantity)
	if err != nil {
		return c, err
	}
	s.persist(sessionID, c)
	return c, nil
}

func (s *Store) RemoveItem(sessionID string, productID int64) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.hydrate(sessionID).RemoveItem(productID)
	s.persist(sessionID, c)
	return c
}

func (s *Store) UpdateItemQuantity(sessionID string, productID int64, quantity int) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.hydrate(sessionID).UpdateItemQuantity(productID, quantity)
	s.persist(sessionID, c)
	return c
}

// Clear empties the cart and its persisted representation, used after a
// successful sale submission.
func (s *Store) Clear(sessionID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Cart{}
	s.carts[sessionID] = c
	if err := s.storage.Delete(sessionID); err != nil {
		zap.L().Error("cart: clear failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	metrics.RecordCounter(metrics.MetricCartMutations)
	return c
}

func (s *Store) Close() error {
	return s.storage.Close()
}
