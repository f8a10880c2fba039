package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ryokou/internal/app"
	"github.com/roach88/ryokou/internal/config"
	"github.com/roach88/ryokou/internal/itinerary"
	"github.com/roach88/ryokou/internal/view"
)

// Outcomes recorded in the trace.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeChecked  = "checked"
)

// Result contains the outcome of running a scenario.
type Result struct {
	Pass   bool     `json:"pass"`
	Trace  []Event  `json:"trace"`
	Final  Snapshot `json:"final"`
	Errors []string `json:"errors,omitempty"`
}

// Event is one executed step.
type Event struct {
	Seq     int    `json:"seq"`
	Op      string `json:"op"`
	Arg     string `json:"arg,omitempty"`
	Outcome string `json:"outcome"`
	Filter  string `json:"filter"`
}

// Snapshot is the derived list after a step.
type Snapshot struct {
	Filter      string            `json:"filter"`
	GrandTotal  float64           `json:"grand_total"`
	ShowHeaders bool              `json:"show_headers"`
	Sections    []SnapshotSection `json:"sections"`
	Days        []string          `json:"days"`
	Months      []string          `json:"months"`
	Count       int               `json:"count"`
}

// SnapshotSection is one section of a Snapshot.
type SnapshotSection struct {
	Key    string   `json:"key"`
	Total  float64  `json:"total"`
	Titles []string `json:"titles"`
}

// nextID hands the service the id declared by the current add step.
type nextID struct {
	id string
}

func (g *nextID) Generate() string {
	if g.id == "" {
		panic("harness: no id queued")
	}
	id := g.id
	g.id = ""
	return id
}

// runner holds the state of one scenario run.
type runner struct {
	svc    *app.Service
	ids    *nextID
	loc    *time.Location
	filter view.Filter
	result *Result
}

// Run executes a scenario against a fresh service rooted at dataDir.
// Step failures and expectation mismatches are collected in Result.Errors;
// the returned error is reserved for failures to set up the run.
func Run(ctx context.Context, sc *Scenario, dataDir string) (*Result, error) {
	cfg := &config.Config{
		DataDir:      dataDir,
		CacheSize:    8,
		JPEGQuality:  80,
		MaxImageSize: 1024,
		Location:     time.UTC,
	}
	if sc.Timezone != "" {
		if err := cfg.SetTimezone(sc.Timezone); err != nil {
			return nil, err
		}
	}
	cfg.ResolvePaths()

	ids := &nextID{}
	svc, err := app.Open(cfg, app.WithIDGenerator(ids))
	if err != nil {
		return nil, fmt.Errorf("open service: %w", err)
	}
	defer svc.Close()

	r := &runner{
		svc:    svc,
		ids:    ids,
		loc:    svc.Location(),
		filter: svc.Filter(),
		result: &Result{Trace: []Event{}},
	}

	for i, step := range sc.Steps {
		op, arg := step.Op()
		outcome, err := r.apply(ctx, step)
		if err != nil {
			r.fail("steps[%d] %s %s: %v", i, op, arg, err)
			outcome = "error"
		}
		r.result.Trace = append(r.result.Trace, Event{
			Seq:     i + 1,
			Op:      op,
			Arg:     arg,
			Outcome: outcome,
			Filter:  r.filter.String(),
		})
	}

	final, err := r.snapshot(ctx)
	if err != nil {
		r.fail("final snapshot: %v", err)
	}
	r.result.Final = final
	if sc.Expect != nil {
		for _, msg := range checkExpect(final, sc.Expect) {
			r.fail("final: %s", msg)
		}
	}

	r.result.Pass = len(r.result.Errors) == 0
	return r.result, nil
}

func (r *runner) fail(format string, args ...any) {
	r.result.Errors = append(r.result.Errors, fmt.Sprintf(format, args...))
}

// apply runs one step and reconciles the filter against the remaining items.
func (r *runner) apply(ctx context.Context, step Step) (string, error) {
	outcome := OutcomeOK
	switch {
	case step.Add != nil:
		rejected, err := r.add(ctx, step.Add)
		if err != nil {
			return "", err
		}
		if rejected {
			outcome = OutcomeRejected
		}

	case step.Delete != "":
		if _, err := r.svc.GetItem(ctx, step.Delete); err != nil {
			return "", err
		}
		if err := r.svc.DeleteItem(ctx, step.Delete); err != nil {
			return "", err
		}

	case step.DeleteDay != "":
		day, _ := view.ParseDay(step.DeleteDay)
		deleted, err := r.svc.DeleteDay(ctx, day)
		if err != nil {
			return "", err
		}
		outcome = fmt.Sprintf("deleted %d", len(deleted))

	case step.SelectDay != "":
		day, _ := view.ParseDay(step.SelectDay)
		r.filter = r.filter.SelectDay(day)

	case step.SelectMonth != "":
		month, _ := view.ParseYearMonth(step.SelectMonth)
		r.filter = r.filter.SelectMonth(month)

	case step.SelectAllDays:
		r.filter = r.filter.SelectAll()

	case step.ShowAllDates:
		r.filter = r.filter.ShowAllDates()

	case step.Expect != nil:
		snap, err := r.snapshot(ctx)
		if err != nil {
			return "", err
		}
		msgs := checkExpect(snap, step.Expect)
		if len(msgs) > 0 {
			return "", errors.New(joinMessages(msgs))
		}
		return OutcomeChecked, nil
	}

	items, err := r.svc.FetchItems(ctx)
	if err != nil {
		return "", err
	}
	r.filter = r.filter.Reconcile(items, r.loc)
	if err := r.svc.SaveFilter(r.filter); err != nil {
		return "", err
	}
	return outcome, nil
}

// add creates an item. rejected reports an expected validation failure.
func (r *runner) add(ctx context.Context, a *AddStep) (rejected bool, err error) {
	in, err := a.newItem(r.loc)
	if err != nil {
		return false, err
	}

	r.ids.id = a.ID
	_, err = r.svc.CreateItem(ctx, in)
	r.ids.id = ""

	switch {
	case a.Fails && errors.Is(err, itinerary.ErrInvalidInput):
		return true, nil
	case a.Fails && err == nil:
		return false, fmt.Errorf("expected invalid input, item was created")
	default:
		return false, err
	}
}

func (a *AddStep) newItem(loc *time.Location) (itinerary.NewItem, error) {
	in := itinerary.NewItem{
		Title:             a.Title,
		LocationName:      a.Location,
		Price:             a.Price,
		LocationURL:       a.URL,
		Memo:              a.Memo,
		TransportDuration: a.Duration,
		IconName:          a.Icon,
	}
	if t, err := itinerary.ParseItemType(a.Type); err == nil {
		in.Type = t
	} else if !a.Fails {
		return in, err
	}
	if a.At != "" {
		ts, err := time.ParseInLocation("2006-01-02 15:04", a.At, loc)
		if err != nil {
			return in, fmt.Errorf("at: %w", err)
		}
		in.Timestamp = ts
	}
	return in, nil
}

// snapshot derives the list for the current filter.
func (r *runner) snapshot(ctx context.Context) (Snapshot, error) {
	items, err := r.svc.FetchItems(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	secs := r.svc.Sections(items, r.filter)

	snap := Snapshot{
		Filter:      secs.Filter.String(),
		GrandTotal:  secs.GrandTotal,
		ShowHeaders: secs.ShowHeaders,
		Sections:    make([]SnapshotSection, 0, len(secs.Sections)),
		Days:        []string{},
		Months:      []string{},
	}
	for _, s := range secs.Sections {
		ss := SnapshotSection{Key: s.Key(), Total: s.Total, Titles: make([]string, 0, len(s.Items))}
		for _, it := range s.Items {
			ss.Titles = append(ss.Titles, it.Title)
		}
		snap.Count += len(s.Items)
		snap.Sections = append(snap.Sections, ss)
	}
	for _, d := range r.svc.AvailableDays(items, secs.Filter.Month) {
		snap.Days = append(snap.Days, d.String())
	}
	for _, m := range r.svc.AvailableMonths(items) {
		snap.Months = append(snap.Months, m.String())
	}
	return snap, nil
}
