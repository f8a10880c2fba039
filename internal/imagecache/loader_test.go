package imagecache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ryokou/internal/imagestore"
	"github.com/roach88/ryokou/internal/logger"
	"github.com/roach88/ryokou/internal/metrics"
	rtestutil "github.com/roach88/ryokou/internal/testutil"
)

func alwaysLive(context.Context, string) bool { return true }

func newTestLoader(t *testing.T, live LiveFunc) (*Loader, *metrics.Metrics) {
	t.Helper()
	c, err := New(10)
	require.NoError(t, err)
	m := metrics.New()
	return NewLoader(c, live, logger.NewNop(), m), m
}

func TestLoader_MissDecodesAndCaches(t *testing.T) {
	l, m := newTestLoader(t, alwaysLive)
	data := rtestutil.JPEGBytes(t, 12, 8)
	var reads atomic.Int32

	r := l.Get(context.Background(), "item", func() ([]byte, error) {
		reads.Add(1)
		return data, nil
	})

	require.NoError(t, r.Err)
	assert.False(t, r.Cached)
	assert.False(t, r.Stale)
	require.NotNil(t, r.Image)
	assert.Equal(t, 12, r.Image.Bounds().Dx())
	assert.Equal(t, int32(1), reads.Load())
	assert.Equal(t, 1, l.Cache().Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.CacheMiss)))
}

func TestLoader_HitSkipsRead(t *testing.T) {
	l, m := newTestLoader(t, alwaysLive)
	img := newImage(5)
	l.Cache().Put("item", img)

	r := <-l.Load(context.Background(), "item", func() ([]byte, error) {
		t.Fatal("read must not be called on a cache hit")
		return nil, nil
	})

	assert.True(t, r.Cached)
	assert.Same(t, img, r.Image)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.CacheHit)))
}

func TestLoader_ReadErrorIsReported(t *testing.T) {
	l, _ := newTestLoader(t, alwaysLive)

	r := l.Get(context.Background(), "item", func() ([]byte, error) {
		return nil, imagestore.ErrNotFound
	})

	assert.ErrorIs(t, r.Err, imagestore.ErrNotFound)
	assert.Nil(t, r.Image)
	assert.Equal(t, 0, l.Cache().Len())
}

func TestLoader_UndecodableBytes(t *testing.T) {
	l, _ := newTestLoader(t, alwaysLive)

	r := l.Get(context.Background(), "item", func() ([]byte, error) {
		return []byte("nope"), nil
	})

	assert.ErrorIs(t, r.Err, imagestore.ErrInvalidImage)
	assert.Equal(t, 0, l.Cache().Len())
}

func TestLoader_DiscardsResultForDeletedItem(t *testing.T) {
	var deleted atomic.Bool
	live := func(context.Context, string) bool { return !deleted.Load() }
	l, m := newTestLoader(t, live)

	data := rtestutil.JPEGBytes(t, 4, 4)
	started := make(chan struct{})
	release := make(chan struct{})

	ch := l.Load(context.Background(), "item", func() ([]byte, error) {
		close(started)
		<-release
		return data, nil
	})

	<-started
	// The item is deleted while its image is still decoding.
	deleted.Store(true)
	l.Forget("item")
	close(release)

	select {
	case r := <-ch:
		require.NoError(t, r.Err)
		assert.True(t, r.Stale)
		assert.Nil(t, r.Image)
	case <-time.After(5 * time.Second):
		t.Fatal("loader did not deliver a result")
	}

	_, ok := l.Cache().Get("item")
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.CacheStale)))
}

func TestLoader_ForgetEvicts(t *testing.T) {
	l, _ := newTestLoader(t, alwaysLive)
	l.Cache().Put("item", newImage(1))

	l.Forget("item")

	_, ok := l.Cache().Get("item")
	assert.False(t, ok)
}

func TestLoader_GetHonoursCancelledContext(t *testing.T) {
	l, _ := newTestLoader(t, alwaysLive)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	defer close(release)

	r := l.Get(ctx, "item", func() ([]byte, error) {
		<-release
		return nil, errors.New("unreachable")
	})

	assert.ErrorIs(t, r.Err, context.Canceled)
}
