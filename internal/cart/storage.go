package cart

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// BucketName is the fixed name under which carts persist, carried over from
// the storefront's original storage key.
const BucketName = "pede-ai-cart"

// Storage persists serialized carts keyed by session id. Load returns
// (nil, nil) when no cart exists for the session.
type Storage interface {
	Load(sessionID string) ([]byte, error)
	Save(sessionID string, data []byte) error
	Delete(sessionID string) error
	Close() error
}

// BoltStorage keeps carts in a single bbolt bucket.
type BoltStorage struct {
	db *bolt.DB
}

func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "cart: open bolt %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cart: init bucket")
	}
	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Load(sessionID string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BucketName)).Get([]byte(sessionID))
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "cart: load")
	}
	return data, nil
}

func (s *BoltStorage) Save(sessionID string, data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketName)).Put([]byte(sessionID), data)
	})
	return errors.Wrap(err, "cart: save")
}

func (s *BoltStorage) Delete(sessionID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketName)).Delete([]byte(sessionID))
	})
	return errors.Wrap(err, "cart: delete")
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}

// MemoryStorage is the in-memory Storage used by tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(sessionID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStorage) Save(sessionID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStorage) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

func (s *MemoryStorage) Close() error { return nil }
