package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

// PhotoOptions holds flags for the photo command.
type PhotoOptions struct {
	*RootOptions
	Out     string
	Timeout time.Duration
}

// NewPhotoCommand creates the photo command.
func NewPhotoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PhotoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "photo <id>",
		Short: "Export an item's photo",
		Long: `Decode an item's photo and write it to a file.

The output format follows the file extension (.jpg, .png, .gif, .tif, .bmp).
Legacy inline photos are exported the same way as file-backed ones.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhoto(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "decode timeout")

	return cmd
}

func runPhoto(opts *PhotoOptions, cmd *cobra.Command, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	it, err := sess.svc.GetItem(ctx, id)
	if err != nil {
		return out.Fail("failed to get item", err)
	}

	res := sess.svc.Photo(ctx, it)
	if res.Err != nil {
		return out.Fail("failed to load photo", res.Err)
	}
	if res.Stale {
		return out.Fail("failed to load photo", fmt.Errorf("item %s was deleted", id))
	}

	if err := imaging.Save(res.Image, opts.Out); err != nil {
		_ = out.Error(CodeImage, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to write photo", err)
	}

	b := res.Image.Bounds()
	if opts.Format == "json" {
		return out.Success(map[string]interface{}{
			"id": id, "out": opts.Out, "width": b.Dx(), "height": b.Dy(),
		})
	}
	fmt.Fprintf(out.Writer, "Wrote %s (%dx%d)\n", opts.Out, b.Dx(), b.Dy())
	return nil
}
