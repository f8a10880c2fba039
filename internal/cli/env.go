package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/app"
	"github.com/roach88/ryokou/internal/config"
	"github.com/roach88/ryokou/internal/logger"
)

// session is what every data command runs against.
type session struct {
	svc *app.Service
	log *logger.ZapLogger
	out *OutputFormatter
}

func (s *session) Close() {
	_ = s.svc.Close()
	_ = s.log.Sync()
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		cfg.SetDataDir(opts.DataDir)
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if opts.Timezone != "" {
		if err := cfg.SetTimezone(opts.Timezone); err != nil {
			return nil, err
		}
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// openSession loads configuration and opens the service. Diagnostics go to stderr.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		_ = out.Error(CodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		_ = out.Error(CodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	appOpts := []app.Option{app.WithLogger(log)}
	if opts.ids != nil {
		appOpts = append(appOpts, app.WithIDGenerator(opts.ids))
	}
	svc, err := app.Open(cfg, appOpts...)
	if err != nil {
		_ = out.Error(CodeStorage, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	log.Debug("session opened", "db", cfg.DBPath, "images", cfg.ImageDir, "tz", svc.Location().String())

	return &session{svc: svc, log: log, out: out}, nil
}
