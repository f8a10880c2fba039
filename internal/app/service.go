package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ryokou/internal/config"
	"github.com/roach88/ryokou/internal/imagecache"
	"github.com/roach88/ryokou/internal/imagestore"
	"github.com/roach88/ryokou/internal/itinerary"
	"github.com/roach88/ryokou/internal/logger"
	"github.com/roach88/ryokou/internal/metrics"
	"github.com/roach88/ryokou/internal/prefs"
	"github.com/roach88/ryokou/internal/store"
	"github.com/roach88/ryokou/internal/view"
)

// ErrNoPhoto is returned by Photo for an item without an image.
var ErrNoPhoto = errors.New("item has no photo")

// Service is the application-scoped facade over the itinerary data layer.
type Service struct {
	store   *store.Store
	images  *imagestore.Store
	loader  *imagecache.Loader
	prefs   *prefs.Prefs
	loc     *time.Location
	log     logger.Logger
	metrics *metrics.Metrics
}

type options struct {
	log     logger.Logger
	metrics *metrics.Metrics
	ids     itinerary.IDGenerator
}

// Option configures Open.
type Option func(*options)

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithIDGenerator replaces the UUID generator (for tests).
func WithIDGenerator(g itinerary.IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// Open builds a Service from cfg: the image directory, the record database,
// the decoded image cache and the preferences file.
func Open(cfg *config.Config, opts ...Option) (*Service, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}
	if o.metrics == nil {
		o.metrics = metrics.New()
	}

	images := imagestore.New(cfg.ImageDir,
		imagestore.WithQuality(cfg.JPEGQuality),
		imagestore.WithMaxDimension(cfg.MaxImageSize),
	)

	storeOpts := []store.Option{store.WithLogger(o.log), store.WithMetrics(o.metrics)}
	if o.ids != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(o.ids))
	}
	st, err := store.Open(cfg.DBPath, images, storeOpts...)
	if err != nil {
		return nil, err
	}

	cache, err := imagecache.New(cfg.CacheSize)
	if err != nil {
		st.Close()
		return nil, err
	}

	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		st.Close()
		return nil, err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		store:   st,
		images:  images,
		loader:  imagecache.NewLoader(cache, st.Exists, o.log, o.metrics),
		prefs:   p,
		loc:     loc,
		log:     o.log,
		metrics: o.metrics,
	}, nil
}

// Close releases the record database.
func (s *Service) Close() error {
	return s.store.Close()
}

// Location is the zone calendar days are computed in.
func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) Prefs() *prefs.Prefs { return s.prefs }

func (s *Service) Metrics() *metrics.Metrics { return s.metrics }

// CreateItem validates in and stores it. An empty icon is filled from the
// per-type preference or the type's default icon.
//
// A photo that could not be written is reported in CreateResult.ImageErr;
// the record exists regardless.
func (s *Service) CreateItem(ctx context.Context, in itinerary.NewItem) (store.CreateResult, error) {
	if err := in.Validate(); err != nil {
		return store.CreateResult{}, err
	}
	if in.IconName == "" {
		in.IconName = s.prefs.Icon(in.Type)
	}

	res, err := s.store.Create(ctx, in)
	if err != nil {
		return res, err
	}
	s.log.Info("item created", "item_id", res.Item.ID, "type", res.Item.Type.String())
	return res, nil
}

// FetchItems returns every record, timestamp ascending with undated last.
func (s *Service) FetchItems(ctx context.Context) ([]itinerary.Item, error) {
	return s.store.FetchAll(ctx)
}

// GetItem returns one record. Returns store.ErrNotFound for an unknown id.
func (s *Service) GetItem(ctx context.Context, id string) (itinerary.Item, error) {
	return s.store.Get(ctx, id)
}

// DeleteItem removes the record, its image file and its cached image.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	s.loader.Forget(id)
	if err == nil {
		s.log.Info("item deleted", "item_id", id)
	}
	return err
}

// DeleteDay removes every record on day, computed in Location, with their
// images. It returns the ids removed.
func (s *Service) DeleteDay(ctx context.Context, day view.Day) ([]string, error) {
	ids, err := s.store.DeleteBetween(ctx, day.Start(s.loc), day.End(s.loc))
	for _, id := range ids {
		s.loader.Forget(id)
	}
	s.log.Info("day deleted", "day", day.String(), "count", len(ids))
	return ids, err
}

// Sections derives the grouped list under filter.
func (s *Service) Sections(items []itinerary.Item, filter view.Filter) view.Sections {
	return view.DeriveSections(items, filter, s.loc)
}

// AvailableDays lists the distinct days of items, restricted to month when set.
func (s *Service) AvailableDays(items []itinerary.Item, month view.YearMonth) []view.Day {
	return view.AvailableDays(items, month, s.loc)
}

// AvailableMonths lists the distinct months of items.
func (s *Service) AvailableMonths(items []itinerary.Item) []view.YearMonth {
	return view.AvailableMonths(items, s.loc)
}

// Filter returns the persisted list filter.
func (s *Service) Filter() view.Filter {
	return s.prefs.Filter()
}

// SaveFilter persists f for the next invocation.
func (s *Service) SaveFilter(f view.Filter) error {
	s.prefs.SetFilter(f)
	return s.prefs.Save()
}

// Migrate moves legacy inline photos to image files.
func (s *Service) Migrate(ctx context.Context) (store.MigrationReport, error) {
	report, err := s.store.MigrateInlineImages(ctx)
	s.log.Info("inline photo migration finished",
		"scanned", report.Scanned,
		"written", report.Written,
		"already_present", report.AlreadyPresent,
		"failed", report.Failed,
	)
	return report, err
}

// LoadPhoto decodes the item's photo in the background. The channel receives
// one Result. An item without a photo yields ErrNoPhoto immediately.
func (s *Service) LoadPhoto(ctx context.Context, it itinerary.Item) <-chan imagecache.Result {
	read, err := s.photoReader(it)
	if err != nil {
		out := make(chan imagecache.Result, 1)
		out <- imagecache.Result{ID: it.ID, Err: err}
		close(out)
		return out
	}
	return s.loader.Load(ctx, it.ID, read)
}

// Photo is the blocking form of LoadPhoto.
func (s *Service) Photo(ctx context.Context, it itinerary.Item) imagecache.Result {
	select {
	case r := <-s.LoadPhoto(ctx, it):
		return r
	case <-ctx.Done():
		return imagecache.Result{ID: it.ID, Err: ctx.Err()}
	}
}

func (s *Service) photoReader(it itinerary.Item) (imagecache.ReadFunc, error) {
	switch it.Photo.Kind() {
	case itinerary.PhotoFile:
		return func() ([]byte, error) { return s.images.Load(it.ID) }, nil
	case itinerary.PhotoInline:
		data, _ := it.Photo.Inline()
		return func() ([]byte, error) { return data, nil }, nil
	case itinerary.PhotoAbsent:
		return nil, ErrNoPhoto
	}
	return nil, fmt.Errorf("item %s: unknown photo kind %v", it.ID, it.Photo.Kind())
}

// Orphans lists image files that no record refers to, sorted by id.
// They are reported only; nothing is removed.
func (s *Service) Orphans(ctx context.Context) ([]string, error) {
	ids, err := s.images.IDs()
	if err != nil {
		return []string{}, err
	}
	orphans := []string{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return orphans, err
		}
		if !s.store.Exists(ctx, id) {
			orphans = append(orphans, id)
		}
	}
	return orphans, nil
}
