// Package cache is a small disk-backed key/value store with per-entry TTL.
// lantern uses it to keep the last GitHub responses so the page renders
// instantly on launch and survives the API being unreachable.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// StoreConfig holds configuration for a cache Store.
type StoreConfig struct {
	// Dir is the directory path where cache files are stored.
	Dir string

	// DefaultTTL applies to Put. Zero means entries never expire.
	DefaultTTL time.Duration

	Logger *slog.Logger

	// Now is the clock used for expiry; nil means time.Now.
	Now func() time.Time
}

// Stats holds runtime statistics for a Store.
type Stats struct {
	Hits    int64
	Misses  int64
	Stale   int64
	Entries int
}

// entryMeta is persisted next to each data file.
type entryMeta struct {
	Key     string `json:"key"`
	Created int64  `json:"created"` // UnixNano
	TTLNS   int64  `json:"ttl_ns"`  // 0 = no TTL
}

// Store keeps each entry as {hash}.cache plus {hash}.meta. Writes are
// atomic via temp-file-then-rename. It is safe for concurrent use.
type Store struct {
	cfg StoreConfig
	log *slog.Logger

	mu     sync.Mutex
	hits   int64
	misses int64
	stale  int64
}

// NewStore creates the cache directory if needed.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("cache: empty directory")
	}
	if cfg.DefaultTTL < 0 {
		cfg.DefaultTTL = 0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", cfg.Dir, err)
	}
	return &Store{cfg: cfg, log: log.With("component", "cache")}, nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.cfg.Dir }

// Get returns the bytes stored under key and when they were written.
// Expired entries are misses but stay on disk for GetStale.
func (s *Store) Get(key string) ([]byte, time.Time, bool) {
	data, meta, ok := s.read(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.misses++
		return nil, time.Time{}, false
	}
	if s.expired(meta) {
		s.misses++
		return nil, time.Time{}, false
	}
	s.hits++
	return data, time.Unix(0, meta.Created), true
}

// GetStale returns the entry under key regardless of expiry.
func (s *Store) GetStale(key string) ([]byte, time.Time, bool) {
	data, meta, ok := s.read(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.misses++
		return nil, time.Time{}, false
	}
	s.stale++
	return data, time.Unix(0, meta.Created), true
}

// Put stores value under key with the default TTL.
func (s *Store) Put(key string, value []byte) error {
	return s.PutWithTTL(key, value, s.cfg.DefaultTTL)
}

// PutWithTTL stores value under key. A TTL of 0 never expires.
func (s *Store) PutWithTTL(key string, value []byte, ttl time.Duration) error {
	h := hashKey(key)
	metaBytes, err := json.Marshal(entryMeta{
		Key:     key,
		Created: s.cfg.Now().UnixNano(),
		TTLNS:   int64(ttl),
	})
	if err != nil {
		return fmt.Errorf("cache: marshal meta for %q: %w", key, err)
	}

	// Data first so a reader never sees fresh meta over old data.
	if err := atomicWrite(s.dataPath(h), value, s.cfg.Dir); err != nil {
		return fmt.Errorf("cache: write data for %q: %w", key, err)
	}
	if err := atomicWrite(s.metaPath(h), metaBytes, s.cfg.Dir); err != nil {
		_ = os.Remove(s.dataPath(h))
		return fmt.Errorf("cache: write meta for %q: %w", key, err)
	}
	s.log.Debug("cache put", "key", key, "bytes", len(value), "ttl", ttl)
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	h := hashKey(key)
	for _, p := range []string{s.dataPath(h), s.metaPath(h)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cache: delete %q: %w", key, err)
		}
	}
	return nil
}

// Prune removes expired and orphaned entries and returns how many were
// dropped.
func (s *Store) Prune() (int, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return 0, fmt.Errorf("cache: prune: %w", err)
	}
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".meta") {
			continue
		}
		h := strings.TrimSuffix(name, ".meta")
		meta, err := s.readMeta(h)
		_, statErr := os.Stat(s.dataPath(h))
		if err != nil || statErr != nil || s.expired(meta) {
			_ = os.Remove(s.metaPath(h))
			_ = os.Remove(s.dataPath(h))
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("cache pruned", "removed", removed)
	}
	return removed, nil
}

// Stats returns a snapshot of cache statistics.
func (s *Store) Stats() Stats {
	n := 0
	if entries, err := os.ReadDir(s.cfg.Dir); err == nil {
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".meta") {
				n++
			}
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Hits: s.hits, Misses: s.misses, Stale: s.stale, Entries: n}
}

func (s *Store) read(key string) ([]byte, entryMeta, bool) {
	h := hashKey(key)
	meta, err := s.readMeta(h)
	if err != nil || meta.Key != key {
		return nil, entryMeta{}, false
	}
	data, err := os.ReadFile(s.dataPath(h))
	if err != nil {
		return nil, entryMeta{}, false
	}
	return data, meta, true
}

func (s *Store) readMeta(hash string) (entryMeta, error) {
	var m entryMeta
	data, err := os.ReadFile(s.metaPath(hash))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}

func (s *Store) expired(m entryMeta) bool {
	if m.TTLNS <= 0 {
		return false
	}
	return s.cfg.Now().Sub(time.Unix(0, m.Created)) > time.Duration(m.TTLNS)
}

func (s *Store) dataPath(hash string) string {
	return filepath.Join(s.cfg.Dir, hash+".cache")
}

func (s *Store) metaPath(hash string) string {
	return filepath.Join(s.cfg.Dir, hash+".meta")
}

// hashKey returns the first 16 hex characters of the SHA-256 of key, a
// filesystem-safe name for any key.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8])
}

func atomicWrite(path string, data []byte, dir string) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}
