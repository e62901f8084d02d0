package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/cache"
)

// Name is the collector name used in updates.
const Name = "github"

// Config holds the collector configuration.
type Config struct {
	User     string
	MaxRepos int
	Interval time.Duration
	Client   *Client
	// Store is optional; without it every cycle hits the network.
	Store  *cache.Store
	Logger *slog.Logger
	Now    func() time.Time
}

// Collector fetches the profile, avatar, and repositories for one user.
type Collector struct {
	cfg Config
	log *slog.Logger
}

// New returns a collector. MaxRepos is clamped to [1, MaxCards].
func New(cfg Config) *Collector {
	if cfg.MaxRepos <= 0 || cfg.MaxRepos > MaxCards {
		cfg.MaxRepos = MaxCards
	}
	if cfg.Client == nil {
		cfg.Client = NewClient("", "", nil)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{cfg: cfg, log: log.With("component", "github", "user", cfg.User)}
}

func (c *Collector) Name() string            { return Name }
func (c *Collector) Interval() time.Duration { return c.cfg.Interval }

// Collect always returns a snapshot. The error joins whichever sections
// failed with no cached fallback.
func (c *Collector) Collect(ctx context.Context) (any, error) {
	snap := &Snapshot{User: c.cfg.User, FetchedAt: c.cfg.Now()}

	var stale bool
	snap.Profile, stale, snap.ProfileErr = fetch(c, "profile:"+c.cfg.User, func() (*Profile, error) {
		return c.cfg.Client.Profile(ctx, c.cfg.User)
	})
	snap.Stale = snap.Stale || stale

	repos, stale, err := fetch(c, "repos:"+c.cfg.User, func() ([]Repo, error) {
		return c.cfg.Client.Repos(ctx, c.cfg.User, c.cfg.MaxRepos)
	})
	snap.Repos, snap.ReposErr = TopRepos(repos, c.cfg.MaxRepos), err
	snap.Stale = snap.Stale || stale

	if snap.Profile != nil && snap.Profile.AvatarURL != "" {
		snap.Avatar = c.avatar(ctx, snap.Profile.AvatarURL)
	}

	return snap, errors.Join(snap.ProfileErr, snap.ReposErr)
}

// Refresh drops the cached entries so the next Collect goes to the network.
func (c *Collector) Refresh() {
	if c.cfg.Store == nil {
		return
	}
	_ = c.cfg.Store.Delete("profile:" + c.cfg.User)
	_ = c.cfg.Store.Delete("repos:" + c.cfg.User)
}

func (c *Collector) avatar(ctx context.Context, u string) []byte {
	key := "avatar:" + u
	if c.cfg.Store != nil {
		if data, _, ok := c.cfg.Store.Get(key); ok {
			return data
		}
	}
	data, err := c.cfg.Client.Avatar(ctx, u)
	if err != nil {
		c.log.Warn("avatar fetch failed", "error", err)
		if c.cfg.Store != nil {
			if data, _, ok := c.cfg.Store.GetStale(key); ok {
				return data
			}
		}
		return nil
	}
	if c.cfg.Store != nil {
		if err := c.cfg.Store.Put(key, data); err != nil {
			c.log.Warn("avatar cache write failed", "error", err)
		}
	}
	return data
}

// fetch serves key from the cache when fresh, otherwise calls get and
// caches the result. On a network failure an expired entry is returned
// with stale set; only when that is missing too does the error surface.
func fetch[T any](c *Collector, key string, get func() (T, error)) (v T, stale bool, err error) {
	store := c.cfg.Store
	if store != nil {
		if cached, _, ok := cache.GetTyped[T](store, key); ok {
			return cached, false, nil
		}
	}

	v, err = get()
	if err == nil {
		if store != nil {
			if perr := cache.PutTyped(store, key, v); perr != nil {
				c.log.Warn("cache write failed", "key", key, "error", perr)
			}
		}
		return v, false, nil
	}

	c.log.Warn("fetch failed", "key", key, "error", err)
	if store != nil {
		if cached, at, ok := cache.GetStaleTyped[T](store, key); ok {
			c.log.Info("serving stale cache", "key", key, "age", c.cfg.Now().Sub(at).Round(time.Second))
			return cached, true, nil
		}
	}
	var zero T
	return zero, false, fmt.Errorf("%s: %w", key, err)
}

// TopRepos sorts by stars, most first, and keeps at most n. Ties keep
// their API order.
func TopRepos(repos []Repo, n int) []Repo {
	out := make([]Repo, len(repos))
	copy(out, repos)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stars > out[j].Stars })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
