package hosting

import (
	"context"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/filesystem"
	"github.com/vidplay-cli/vidplay/key"
	"github.com/vidplay-cli/vidplay/log"
	"github.com/vidplay-cli/vidplay/network"
	"github.com/vidplay-cli/vidplay/where"
)

type cachedManifest struct {
	Manifest  *Manifest `json:"manifest"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cached serves manifests from a file-backed cache and falls back to the wrapped
// extractor on a miss. Stream URLs expire on the service side, so the TTL should
// stay well under their lifetime.
type Cached struct {
	next  Extractor
	ttl   time.Duration
	store *gache.Cache[map[string]cachedManifest]
	mu    sync.Mutex
	now   func() time.Time
}

// NewCached wraps next with a cache file at path. A non-positive ttl returns next unchanged.
func NewCached(next Extractor, path string, ttl time.Duration) Extractor {
	if ttl <= 0 {
		return next
	}
	return &Cached{
		next: next,
		ttl:  ttl,
		store: gache.New[map[string]cachedManifest](&gache.Options{
			Path:       path,
			Lifetime:   ttl,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

func (c *Cached) load() map[string]cachedManifest {
	data, expired, err := c.store.Get()
	if err != nil || expired || data == nil {
		return make(map[string]cachedManifest)
	}
	return data
}

// Manifest returns a fresh cached manifest for id or fetches and stores a new one.
// Errors are never cached.
func (c *Cached) Manifest(ctx context.Context, id string) (*Manifest, error) {
	c.mu.Lock()
	entry, ok := c.load()[id]
	c.mu.Unlock()

	if ok && entry.Manifest != nil && c.now().Sub(entry.FetchedAt) < c.ttl {
		log.Debugf("manifest cache hit for %s", id)
		return entry.Manifest, nil
	}

	m, err := c.next.Manifest(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data := c.load()
	now := c.now()
	for k, e := range data {
		if now.Sub(e.FetchedAt) >= c.ttl {
			delete(data, k)
		}
	}
	data[id] = cachedManifest{Manifest: m, FetchedAt: now}
	if err := c.store.Set(data); err != nil {
		log.Warnf("store manifest for %s: %v", id, err)
	}

	return m, nil
}

// New returns the configured extractor: YouTube over the shared client, cached
// for hosting.cache_ttl minutes.
func New() Extractor {
	ttl := time.Duration(viper.GetInt(key.HostingCacheTTL)) * time.Minute
	return NewCached(NewYouTube(network.Client), where.Manifests(), ttl)
}
