package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/roach88/ryokou/internal/imagestore"
	"github.com/roach88/ryokou/internal/itinerary"
	"github.com/roach88/ryokou/internal/metrics"
)

var errInjected = errors.New("injected failure")

// recordingImages wraps a real image store, counting writes and optionally failing them.
type recordingImages struct {
	*imagestore.Store

	mu         sync.Mutex
	saves      map[string]int
	failSave   bool
	failDelete bool
}

func (r *recordingImages) Save(id string, data []byte) error {
	r.mu.Lock()
	fail := r.failSave
	if !fail {
		r.saves[id]++
	}
	r.mu.Unlock()
	if fail {
		return errInjected
	}
	return r.Store.Save(id, data)
}

func (r *recordingImages) Delete(id string) error {
	if r.failDelete {
		return errInjected
	}
	return r.Store.Delete(id)
}

func (r *recordingImages) saveCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[id]
}

type testEnv struct {
	store   *Store
	images  *recordingImages
	metrics *metrics.Metrics
	path    string
}

// createTestStore creates a fresh store and image directory for testing.
func createTestStore(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	dir := t.TempDir()
	images := &recordingImages{
		Store: imagestore.New(filepath.Join(dir, "ItineraryImages")),
		saves: map[string]int{},
	}
	m := metrics.New()
	path := filepath.Join(dir, "test.db")

	s, err := Open(path, images, append([]Option{WithMetrics(m)}, opts...)...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return &testEnv{store: s, images: images, metrics: m, path: path}
}

var day1 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// newItem returns a valid input with the given title and timestamp.
func newItem(title string, ts time.Time) itinerary.NewItem {
	return itinerary.NewItem{
		Type:         itinerary.TypeActivity,
		Timestamp:    ts,
		Title:        title,
		LocationName: "Tokyo",
	}
}

// insertLegacyItem writes a row the way the pre-file-storage release did,
// photo bytes inline and optionally no timestamp.
func insertLegacyItem(t *testing.T, s *Store, id string, ts time.Time, photo []byte) {
	t.Helper()
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO itinerary_items (id, type, timestamp, title, location_name, price, photo_data)
		VALUES (?, 'hotel', ?, ?, '', 0, ?)
	`, id, marshalTimestamp(ts), "legacy "+id, photo)
	if err != nil {
		t.Fatalf("insert legacy item: %v", err)
	}
}

func ids(items []itinerary.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
