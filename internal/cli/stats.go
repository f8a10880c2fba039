package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/itinerary"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Migrate bool
	Metrics bool
}

type statsJSON struct {
	Items   int            `json:"items"`
	Undated int            `json:"undated"`
	ByType  map[string]int `json:"by_type"`
	Photos  map[string]int `json:"photos"`
	Orphans []string       `json:"orphan_images"`
	Metrics string         `json:"metrics,omitempty"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored items and images",
		Long: `Summarize stored items and images.

Reports item counts by type, how photos are stored (file, inline,
absent) and image files no item refers to. With --migrate the inline
photo migration runs first. With --metrics the counters of this run
are printed in Prometheus text format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "run the inline photo migration first")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print counters in Prometheus text format")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out
	svc := sess.svc

	if opts.Migrate {
		if _, err := svc.Migrate(ctx); err != nil {
			sess.log.Warn("migration incomplete", "error", err)
		}
	}

	items, err := svc.FetchItems(ctx)
	if err != nil {
		return out.Fail("failed to fetch items", err)
	}
	orphans, err := svc.Orphans(ctx)
	if err != nil {
		return out.Fail("failed to list images", err)
	}

	st := statsJSON{
		Items:   len(items),
		ByType:  map[string]int{},
		Photos:  map[string]int{},
		Orphans: orphans,
	}
	for _, t := range itinerary.AllTypes {
		st.ByType[t.String()] = 0
	}
	for _, k := range []itinerary.PhotoKind{itinerary.PhotoFile, itinerary.PhotoInline, itinerary.PhotoAbsent} {
		st.Photos[k.String()] = 0
	}
	for _, it := range items {
		st.ByType[it.Type.String()]++
		st.Photos[it.Photo.Kind().String()]++
		if !it.Dated() {
			st.Undated++
		}
	}

	if opts.Metrics {
		var b strings.Builder
		if err := svc.Metrics().WriteText(&b); err != nil {
			return out.Fail("failed to encode metrics", err)
		}
		st.Metrics = b.String()
	}

	if opts.Format == "json" {
		return out.Success(st)
	}

	w := out.Writer
	fmt.Fprintf(w, "Items: %d (%d undated)\n", st.Items, st.Undated)
	for _, t := range itinerary.AllTypes {
		fmt.Fprintf(w, "  %-10s %d\n", t, st.ByType[t.String()])
	}
	fmt.Fprintf(w, "Photos: %d file, %d inline, %d none\n",
		st.Photos["file"], st.Photos["inline"], st.Photos["absent"])
	fmt.Fprintf(w, "Orphan images: %d\n", len(orphans))
	for _, id := range orphans {
		fmt.Fprintf(w, "  %s\n", id)
	}
	if opts.Metrics {
		fmt.Fprintln(w)
		fmt.Fprint(w, st.Metrics)
	}
	return nil
}
