package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/store"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move legacy inline photos into image files",
		Long: `Move photos stored inside legacy records into per-item image files.

If an item already has an image file, the file is kept and only the
inline copy is dropped. Items whose file cannot be written keep their
inline photo. Running migrate again is safe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd)
		},
	}
}

type migrateJSON struct {
	Scanned        int `json:"scanned"`
	Written        int `json:"written"`
	AlreadyPresent int `json:"already_present"`
	Failed         int `json:"failed"`
}

func runMigrate(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	report, err := sess.svc.Migrate(context.Background())
	if err != nil {
		return out.Fail(fmt.Sprintf("migration incomplete: %s", formatReport(report)), err)
	}

	if opts.Format == "json" {
		return out.Success(migrateJSON(report))
	}
	fmt.Fprintf(out.Writer, "Migration complete: %s\n", formatReport(report))
	return nil
}

func formatReport(r store.MigrationReport) string {
	return fmt.Sprintf("%d scanned, %d written, %d already present, %d failed",
		r.Scanned, r.Written, r.AlreadyPresent, r.Failed)
}
