// Package history persists the per-profile set of already-sent article
// identifiers. Reads happen once per run before aggregation; the single
// append happens only after a digest has been handed off successfully.
package history

import (
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

// Store is the history contract the pipeline depends on. Each profile is
// an isolated partition; Contains must be O(1) per key regardless of how
// large the history has grown.
type Store interface {
	Contains(profile, key string) (bool, error)
	Append(profile string, keys []string) error
}

// BoltStore keeps one bbolt bucket per profile, key = normalized article
// URL, value = sent-at timestamp. A single Update transaction makes the
// per-profile append atomic, so concurrent runs cannot lose entries.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// OpenBolt opens (or creates) the history database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, &domain.HistoryError{Store: path, Op: "open", Err: err}
	}
	return &BoltStore{db: db, path: path}, nil
}

// Contains reports whether the profile has already sent the given key.
func (s *BoltStore) Contains(profile, key string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(profile))
		if bucket == nil {
			return nil
		}
		found = bucket.Get([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, &domain.HistoryError{Store: s.path, Op: "read", Err: err}
	}
	return found, nil
}

// Append records the keys as sent for the profile. All keys are written in
// one transaction: either every entry lands or none does.
func (s *BoltStore) Append(profile string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	sentAt := []byte(time.Now().UTC().Format(time.RFC3339))
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(profile))
		if err != nil {
			return err
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := bucket.Put([]byte(key), sentAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &domain.HistoryError{Store: s.path, Op: "append", Err: err}
	}
	return nil
}

// Close releases the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	sent map[string]map[string]struct{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sent: make(map[string]map[string]struct{})}
}

func (s *MemoryStore) Contains(profile, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sent[profile][key]
	return ok, nil
}

func (s *MemoryStore) Append(profile string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sent[profile]
	if set == nil {
		set = make(map[string]struct{}, len(keys))
		s.sent[profile] = set
	}
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return nil
}

// Size returns the number of recorded keys for a profile.
func (s *MemoryStore) Size(profile string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sent[profile])
}
