package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/view"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete an item and its photo",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, cmd, args[0])
		},
	}
}

func runDelete(opts *RootOptions, cmd *cobra.Command, id string) error {
	ctx := context.Background()

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	if _, err := sess.svc.GetItem(ctx, id); err != nil {
		return out.Fail("failed to delete item", err)
	}
	if err := sess.svc.DeleteItem(ctx, id); err != nil {
		return out.Fail("failed to delete item", err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]string{"deleted": id})
	}
	fmt.Fprintf(out.Writer, "Deleted %s\n", id)
	return nil
}

// NewDeleteDayCommand creates the delete-day command.
func NewDeleteDayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-day <YYYY-MM-DD>",
		Short: "Delete every item on a calendar day",
		Long: `Delete every item on a calendar day, with their photos.

The day is taken in the configured timezone. All stored items on that
day are removed, not only those visible under the current filter.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteDay(rootOpts, cmd, args[0])
		},
	}
}

func runDeleteDay(opts *RootOptions, cmd *cobra.Command, arg string) error {
	ctx := context.Background()

	day, err := view.ParseDay(arg)
	if err != nil {
		out := newFormatter(opts, cmd)
		_ = out.Error(CodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid day", err)
	}

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	deleted, err := sess.svc.DeleteDay(ctx, day)
	if err != nil {
		return out.Fail(fmt.Sprintf("deleted %d items of %s with errors", len(deleted), day), err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]interface{}{"day": day.String(), "deleted": deleted})
	}
	fmt.Fprintf(out.Writer, "Deleted %d items on %s\n", len(deleted), day)
	return nil
}
