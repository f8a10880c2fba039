package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/view"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Day     string
	Month   string
	AllDays bool
	All     bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show items grouped by day",
		Long: `Show items grouped by calendar day with per-day and grand totals.

The filter is remembered between invocations. Flags change it the
same way the day and month pickers do:

  --all        clear month and day
  --month M    restrict to month M (YYYY-MM), clearing any day
  --all-days   clear the day but keep the month
  --day D      show only day D (YYYY-MM-DD), keeping the month

A remembered day or month that no longer has items is dropped.

Examples:
  ryokou list
  ryokou list --month 2024-05
  ryokou list --day 2024-05-01
  ryokou list --all --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Day, "day", "", "show a single day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Month, "month", "", "restrict to a month (YYYY-MM)")
	cmd.Flags().BoolVar(&opts.AllDays, "all-days", false, "clear the day selection, keep the month")
	cmd.Flags().BoolVar(&opts.All, "all", false, "clear month and day selections")

	return cmd
}

// apply runs the flag transitions on f in picker order.
func (o *ListOptions) apply(f view.Filter) (view.Filter, error) {
	if o.All {
		f = f.ShowAllDates()
	}
	if o.Month != "" {
		m, err := view.ParseYearMonth(o.Month)
		if err != nil {
			return f, err
		}
		f = f.SelectMonth(m)
	}
	if o.AllDays {
		f = f.SelectAll()
	}
	if o.Day != "" {
		d, err := view.ParseDay(o.Day)
		if err != nil {
			return f, err
		}
		f = f.SelectDay(d)
	}
	return f, nil
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out
	svc := sess.svc

	filter, err := opts.apply(svc.Filter())
	if err != nil {
		_ = out.Error(CodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	items, err := svc.FetchItems(ctx)
	if err != nil {
		return out.Fail("failed to fetch items", err)
	}

	res := svc.Sections(items, filter)
	if err := svc.SaveFilter(res.Filter); err != nil {
		sess.log.Warn("filter not saved", "error", err)
	}
	out.VerboseLog("filter requested %s, applied %s", filter, res.Filter)

	if opts.Format == "json" {
		return out.Success(toListJSON(res, svc.Location()))
	}
	writeSections(out.Writer, res, svc.Location())
	return nil
}
