package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"trolley/internal/domain"
)

var bucketSnapshots = []byte("snapshots")

// snapshotEntry wraps a snapshot with its save time for TTL checks.
type snapshotEntry struct {
	Snapshot domain.PriceSnapshot `json:"snapshot"`
	SavedAt  int64                `json:"savedAt"`
}

// SnapshotStore implements domain.SnapshotCache using BoltDB, with an
// in-memory layer for hot-path reads. Entries expire after the configured TTL.
type SnapshotStore struct {
	db  *bolt.DB
	ttl time.Duration

	mu    sync.RWMutex
	cache map[string]snapshotEntry
}

// NewSnapshotStore opens (or creates) the snapshot cache under baseCacheDir,
// namespaced per server URL. An empty baseCacheDir yields a memory-only
// store with no persistence.
func NewSnapshotStore(baseCacheDir, serverURL string, ttl time.Duration) (*SnapshotStore, error) {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	if baseCacheDir == "" {
		return &SnapshotStore{ttl: ttl, cache: make(map[string]snapshotEntry)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "trolley.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, ttl: ttl, cache: make(map[string]snapshotEntry)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func snapshotKey(productID, storeID string) string {
	return productID + ":" + storeID
}

// GetSnapshot returns a cached snapshot for (product, store) if it is still
// fresh.
func (s *SnapshotStore) GetSnapshot(productID, storeID string) (*domain.PriceSnapshot, bool) {
	key := snapshotKey(productID, storeID)

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()

	if !ok && s.db != nil {
		err := s.db.View(func(tx *bolt.Tx) error {
			data := tx.Bucket(bucketSnapshots).Get([]byte(key))
			if data == nil {
				return nil
			}
			if err := json.Unmarshal(data, &entry); err != nil {
				return err
			}
			ok = true
			return nil
		})
		if err != nil {
			return nil, false
		}
		if ok {
			// Promote to the memory layer
			s.mu.Lock()
			s.cache[key] = entry
			s.mu.Unlock()
		}
	}

	if !ok || time.Since(time.Unix(entry.SavedAt, 0)) > s.ttl {
		return nil, false
	}

	snap := entry.Snapshot
	return &snap, true
}

// SaveSnapshot stores a snapshot for (product, store).
func (s *SnapshotStore) SaveSnapshot(productID, storeID string, snap *domain.PriceSnapshot) error {
	if snap == nil {
		return nil
	}

	key := snapshotKey(productID, storeID)
	entry := snapshotEntry{Snapshot: *snap, SavedAt: time.Now().Unix()}

	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(key), data)
	})
}
