package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s, err := NewStore(StoreConfig{Dir: t.TempDir(), DefaultTTL: ttl, Now: c.now})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, c
}

func TestPutGetRoundTrip(t *testing.T) {
	s, c := newTestStore(t, time.Hour)

	if err := s.Put("profile:jess", []byte(`{"login":"jess"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, at, ok := s.Get("profile:jess")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != `{"login":"jess"}` {
		t.Errorf("got %q", got)
	}
	if !at.Equal(c.t) {
		t.Errorf("stored at %v, want %v", at, c.t)
	}
}

func TestExpiredEntryIsStaleOnly(t *testing.T) {
	s, c := newTestStore(t, time.Minute)
	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatal(err)
	}

	c.t = c.t.Add(2 * time.Minute)
	if _, _, ok := s.Get("k"); ok {
		t.Error("expired entry should miss")
	}
	data, _, ok := s.GetStale("k")
	if !ok || string(data) != "v" {
		t.Errorf("GetStale = %q, %v", data, ok)
	}

	st := s.Stats()
	if st.Misses != 1 || st.Stale != 1 || st.Entries != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s, c := newTestStore(t, 0)
	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	c.t = c.t.Add(24 * 365 * time.Hour)
	if _, _, ok := s.Get("k"); !ok {
		t.Error("entry without TTL should not expire")
	}
}

func TestDeleteAndPrune(t *testing.T) {
	s, c := newTestStore(t, time.Minute)
	_ = s.Put("a", []byte("1"))
	_ = s.PutWithTTL("b", []byte("2"), time.Hour)

	if err := s.Delete("a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("a"); err != nil {
		t.Errorf("second delete: %v", err)
	}

	_ = s.Put("c", []byte("3"))
	c.t = c.t.Add(10 * time.Minute)
	n, err := s.Prune()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	if _, _, ok := s.Get("b"); !ok {
		t.Error("b should survive pruning")
	}
}

func TestPruneRemovesOrphans(t *testing.T) {
	s, _ := newTestStore(t, 0)
	_ = s.Put("k", []byte("v"))
	if err := os.Remove(s.dataPath(hashKey("k"))); err != nil {
		t.Fatal(err)
	}
	n, _ := s.Prune()
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
}

func TestCorruptMetaIsMiss(t *testing.T) {
	s, _ := newTestStore(t, 0)
	_ = s.Put("k", []byte("v"))
	if err := os.WriteFile(filepath.Join(s.Dir(), hashKey("k")+".meta"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := s.Get("k"); ok {
		t.Error("corrupt meta should miss")
	}
}

func TestTypedHelpers(t *testing.T) {
	type repo struct {
		Name  string
		Stars int
	}
	s, c := newTestStore(t, time.Minute)
	in := []repo{{"lantern", 12}, {"pulse", 3}}
	if err := PutTyped(s, "repos", in); err != nil {
		t.Fatal(err)
	}
	out, _, ok := GetTyped[[]repo](s, "repos")
	if !ok || len(out) != 2 || out[0].Stars != 12 {
		t.Fatalf("GetTyped = %+v, %v", out, ok)
	}

	c.t = c.t.Add(time.Hour)
	if _, _, ok := GetTyped[[]repo](s, "repos"); ok {
		t.Error("expired typed entry should miss")
	}
	if out, _, ok := GetStaleTyped[[]repo](s, "repos"); !ok || out[1].Name != "pulse" {
		t.Errorf("GetStaleTyped = %+v, %v", out, ok)
	}

	_ = s.Put("bad", []byte("not json"))
	if _, _, ok := GetTyped[[]repo](s, "bad"); ok {
		t.Error("undecodable entry should miss")
	}
}

func TestNewStoreRequiresDir(t *testing.T) {
	if _, err := NewStore(StoreConfig{}); err == nil {
		t.Error("expected error for empty dir")
	}
}
