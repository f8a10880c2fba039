package imagecache

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/roach88/ryokou/internal/imagestore"
	"github.com/roach88/ryokou/internal/logger"
	"github.com/roach88/ryokou/internal/metrics"
)

// LiveFunc reports whether id still names an existing item.
type LiveFunc func(ctx context.Context, id string) bool

// ReadFunc fetches the encoded bytes of an item's image.
type ReadFunc func() ([]byte, error)

// Result is the outcome of one Load.
type Result struct {
	ID    string
	Image image.Image

	// Cached is true when the image came from the cache without decoding.
	Cached bool

	// Stale is true when the item disappeared before decoding finished.
	// Image is nil in that case.
	Stale bool

	Err error
}

// Loader decodes item images in the background and fills the cache.
type Loader struct {
	cache   *Cache
	live    LiveFunc
	log     logger.Logger
	metrics *metrics.Metrics

	group singleflight.Group

	// mu orders the liveness check plus insert against Forget.
	mu sync.Mutex
}

// NewLoader creates a loader. m may be nil.
func NewLoader(cache *Cache, live LiveFunc, log logger.Logger, m *metrics.Metrics) *Loader {
	return &Loader{
		cache:   cache,
		live:    live,
		log:     log,
		metrics: m,
	}
}

// Cache returns the cache the loader fills.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load returns a channel that receives exactly one Result for id.
//
// A cache hit is delivered immediately. Otherwise read and decode run on a
// separate goroutine; concurrent loads of the same id share one decode.
func (l *Loader) Load(ctx context.Context, id string, read ReadFunc) <-chan Result {
	out := make(chan Result, 1)

	if img, ok := l.cache.Get(id); ok {
		l.metrics.CacheResult(metrics.CacheHit)
		out <- Result{ID: id, Image: img, Cached: true}
		close(out)
		return out
	}
	l.metrics.CacheResult(metrics.CacheMiss)

	go func() {
		defer close(out)
		out <- l.decode(ctx, id, read)
	}()
	return out
}

// Get is the blocking form of Load.
func (l *Loader) Get(ctx context.Context, id string, read ReadFunc) Result {
	select {
	case r := <-l.Load(ctx, id, read):
		return r
	case <-ctx.Done():
		return Result{ID: id, Err: ctx.Err()}
	}
}

// Forget evicts id. Call it after the item has been deleted.
func (l *Loader) Forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Remove(id)
}

func (l *Loader) decode(ctx context.Context, id string, read ReadFunc) Result {
	v, err, _ := l.group.Do(id, func() (interface{}, error) {
		data, err := read()
		if err != nil {
			return nil, err
		}
		return imagestore.Decode(data)
	})
	if err != nil {
		l.log.Debug("image decode failed", "item_id", id, "error", err)
		return Result{ID: id, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return Result{ID: id, Err: err}
	}

	img := v.(image.Image)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.live(ctx, id) {
		l.metrics.CacheResult(metrics.CacheStale)
		l.log.Debug("discarding decoded image for deleted item", "item_id", id)
		return Result{ID: id, Stale: true}
	}
	l.cache.Put(id, img)
	return Result{ID: id, Image: img}
}
