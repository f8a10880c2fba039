package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/config"
	"github.com/roach88/ryokou/internal/prefs"
)

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and change preferences",
		Long: `Read and change preferences.

Keys:
  theme.preset       color theme name
  theme.dark_mode    true | false
  filter.month       remembered month filter (YYYY-MM)
  filter.day         remembered day filter (YYYY-MM-DD)
  icons.<type>       icon used for new items of <type>

Setting a key to "" clears it.`,
	}
	cmd.AddCommand(newPrefsGetCommand(rootOpts))
	cmd.AddCommand(newPrefsSetCommand(rootOpts))
	return cmd
}

func newPrefsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get [key]",
		Short:         "Print one preference, or every set preference",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsGet(rootOpts, cmd, args)
		},
	}
}

func newPrefsSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <key> <value>",
		Short:         "Change a preference",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsSet(rootOpts, cmd, args[0], args[1])
		},
	}
}

// loadPrefs opens the preferences file without touching the database.
func loadPrefs(opts *RootOptions, out *OutputFormatter) (*prefs.Prefs, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfg, err = loadConfig(opts); err != nil {
		_ = out.Error(CodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		_ = out.Error(CodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitFailure, "failed to read preferences", err)
	}
	return p, nil
}

func runPrefsGet(opts *RootOptions, cmd *cobra.Command, args []string) error {
	out := newFormatter(opts, cmd)
	p, err := loadPrefs(opts, out)
	if err != nil {
		return err
	}

	keys := p.Keys()
	if len(args) == 1 {
		keys = args
	}

	values := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := p.Get(k)
		if err != nil {
			_ = out.Error(CodeInvalidInput, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid key", err)
		}
		values[k] = v
	}

	if opts.Format == "json" {
		return out.Success(values)
	}
	for _, k := range keys {
		fmt.Fprintf(out.Writer, "%s=%s\n", k, values[k])
	}
	return nil
}

func runPrefsSet(opts *RootOptions, cmd *cobra.Command, key, value string) error {
	out := newFormatter(opts, cmd)
	p, err := loadPrefs(opts, out)
	if err != nil {
		return err
	}

	if err := p.Set(key, value); err != nil {
		_ = out.Error(CodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid preference", err)
	}
	if err := p.Save(); err != nil {
		_ = out.Error(CodeStorage, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to save preferences", err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]string{key: value})
	}
	fmt.Fprintf(out.Writer, "%s=%s\n", key, value)
	return nil
}
