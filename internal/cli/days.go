package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/view"
)

// NewDaysCommand creates the days command.
func NewDaysCommand(rootOpts *RootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:           "days",
		Short:         "List the calendar days that have items",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDays(rootOpts, cmd, month)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "only days of this month (YYYY-MM)")
	return cmd
}

func runDays(opts *RootOptions, cmd *cobra.Command, monthArg string) error {
	var month view.YearMonth
	if monthArg != "" {
		m, err := view.ParseYearMonth(monthArg)
		if err != nil {
			out := newFormatter(opts, cmd)
			_ = out.Error(CodeInvalidInput, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid month", err)
		}
		month = m
	}

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	items, err := sess.svc.FetchItems(context.Background())
	if err != nil {
		return out.Fail("failed to fetch items", err)
	}
	days := sess.svc.AvailableDays(items, month)

	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	if opts.Format == "json" {
		return out.Success(map[string][]string{"days": names})
	}
	for _, n := range names {
		fmt.Fprintln(out.Writer, n)
	}
	return nil
}

// NewMonthsCommand creates the months command.
func NewMonthsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "months",
		Short:         "List the months that have items",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonths(rootOpts, cmd)
		},
	}
}

func runMonths(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	items, err := sess.svc.FetchItems(context.Background())
	if err != nil {
		return out.Fail("failed to fetch items", err)
	}
	months := sess.svc.AvailableMonths(items)

	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	if opts.Format == "json" {
		return out.Success(map[string][]string{"months": names})
	}
	for _, n := range names {
		fmt.Fprintln(out.Writer, n)
	}
	return nil
}
