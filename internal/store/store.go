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

	"github.com/mmcdole/dex/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPages   = []byte("pages")
	bucketDetails = []byte("details")

	allBuckets = [][]byte{bucketPages, bucketDetails}
)

// CacheStore implements domain.Store using BoltDB.
type CacheStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Store = (*CacheStore)(nil)

// NewCacheStore opens the cache for one API host under baseCacheDir.
// An empty baseCacheDir gives a memory-only store.
func NewCacheStore(baseCacheDir, apiURL string) (*CacheStore, error) {
	if baseCacheDir == "" {
		return &CacheStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if apiURL != "" {
		dir = filepath.Join(baseCacheDir, hashAPIURL(apiURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "dex.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &CacheStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashAPIURL(apiURL string) string {
	normalized := strings.TrimRight(strings.ToLower(apiURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *CacheStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *CacheStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *CacheStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *CacheStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	_ = s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

// clearBuckets empties the given buckets in memory and on disk
func (s *CacheStore) clearBuckets(buckets ...[]byte) {
	s.mu.Lock()
	for k := range s.cache {
		for _, bucket := range buckets {
			if strings.HasPrefix(k, string(bucket)+":") {
				delete(s.cache, k)
			}
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	_ = s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			var keys [][]byte
			_ = b.ForEach(func(k, _ []byte) error {
				keys = append(keys, append([]byte(nil), k...))
				return nil
			})
			for _, k := range keys {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// === Index pages (key: {limit}:{offset}) ===

func pageKey(limit, offset int) string {
	return fmt.Sprintf("%d:%d", limit, offset)
}

func (s *CacheStore) GetPage(limit, offset int) (*domain.PageResult, bool) {
	var page domain.PageResult
	if !s.get(bucketPages, pageKey(limit, offset), &page) {
		return nil, false
	}
	return &page, true
}

func (s *CacheStore) SavePage(limit, offset int, page *domain.PageResult) error {
	return s.set(bucketPages, pageKey(limit, offset), page)
}

// === Detail records (key: lower-cased name or id) ===

func detailKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *CacheStore) GetDetail(name string) (*domain.DetailRecord, bool) {
	var record domain.DetailRecord
	if !s.get(bucketDetails, detailKey(name), &record) {
		return nil, false
	}
	return &record, true
}

func (s *CacheStore) SaveDetail(name string, record *domain.DetailRecord) error {
	return s.set(bucketDetails, detailKey(name), record)
}

// === Invalidation ===

func (s *CacheStore) InvalidatePages() {
	s.clearBuckets(bucketPages)
}

func (s *CacheStore) InvalidateDetail(name string) {
	s.delete(bucketDetails, detailKey(name))
}

func (s *CacheStore) InvalidateAll() {
	s.clearBuckets(allBuckets...)
}
