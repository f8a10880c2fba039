package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of one item",
		Long: `Show every field of one item.

A location URL pointing at a map provider is labelled "Map".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, cmd, args[0])
		},
	}
}

func runShow(opts *RootOptions, cmd *cobra.Command, id string) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	it, err := sess.svc.GetItem(context.Background(), id)
	if err != nil {
		return out.Fail("failed to get item", err)
	}

	if opts.Format == "json" {
		return out.Success(toItemJSON(it, sess.svc.Location()))
	}
	writeItemDetail(out.Writer, it, sess.svc.Location())
	return nil
}
