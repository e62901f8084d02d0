package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// GetTyped decodes a fresh JSON entry into T. Missing, expired, or
// undecodable entries report false.
func GetTyped[T any](s *Store, key string) (T, time.Time, bool) {
	data, at, ok := s.Get(key)
	return decode[T](data, at, ok)
}

// GetStaleTyped is GetTyped ignoring expiry.
func GetStaleTyped[T any](s *Store, key string) (T, time.Time, bool) {
	data, at, ok := s.GetStale(key)
	return decode[T](data, at, ok)
}

// PutTyped stores value as JSON with the default TTL.
func PutTyped[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal typed value for %q: %w", key, err)
	}
	return s.Put(key, data)
}

func decode[T any](data []byte, at time.Time, ok bool) (T, time.Time, bool) {
	var v T
	if !ok {
		return v, time.Time{}, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, time.Time{}, false
	}
	return v, at, true
}
