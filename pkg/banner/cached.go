package banner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/cache"
	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
)

// bnCacheTTL bounds how long a rendered card is reused.
const bnCacheTTL = 30 * time.Second

// RenderCached returns a card rendered within the last bnCacheTTL for the
// same data and options, or renders and stores a fresh one. A nil store
// renders every time. Store write failures are not fatal.
func RenderCached(store *cache.Store, snap *github.Snapshot, avatar *limage.Avatar, opts Options) (string, error) {
	if store == nil {
		return Render(snap, avatar, opts), nil
	}
	key := "banner:" + bnCacheKey(snap, opts)
	if data, _, ok := store.Get(key); ok {
		return string(data), nil
	}

	out := Render(snap, avatar, opts)
	if err := store.PutWithTTL(key, []byte(out), bnCacheTTL); err != nil {
		return out, fmt.Errorf("banner: cache card: %w", err)
	}
	return out, nil
}

// bnCacheKey hashes everything that changes the rendered card.
func bnCacheKey(snap *github.Snapshot, opts Options) string {
	h := sha256.New()
	sep := []byte{0}
	fmt.Fprintf(h, "%s:%d:%d", opts.Preset.Name, opts.Preset.Width, opts.Preset.AvatarCols)
	h.Write(sep)
	fmt.Fprintf(h, "%s:%d:%s", opts.Protocol, opts.Profile, opts.Theme.Name)
	h.Write(sep)
	h.Write([]byte(opts.Label + "\x00" + opts.Footer))
	h.Write(sep)
	h.Write([]byte(snap.Login() + "\x00" + snap.Bio() + "\x00" + snap.Notice()))
	h.Write(sep)
	for _, r := range snap.Repos {
		fmt.Fprintf(h, "%s:%d:%s", r.Name, r.Stars, r.Language)
		h.Write(sep)
	}
	sum := sha256.Sum256(snap.Avatar)
	h.Write(sum[:8])
	return hex.EncodeToString(h.Sum(nil)[:12])
}
