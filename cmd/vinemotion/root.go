package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vinemotion"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	Verbose bool
	Format  string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vinemotion CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vinemotion",
		Short: "Scroll, trigger, spring and page-transition motion engine",
		Long: `vinemotion coordinates smoothed scrolling, scroll-triggered reveals,
pointer springs and page transitions on a single frame clock.

Use "run" for the windowed demo and "simulate" to replay an input script
headlessly and report what the engine did.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "YAML config file (defaults are used when empty)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))

	return cmd
}

// loadConfig returns the configured tuning, or the defaults.
func (o *RootOptions) loadConfig() (vinemotion.Config, error) {
	cfg := vinemotion.DefaultConfig()
	if o.Config != "" {
		var err error
		if cfg, err = vinemotion.LoadConfig(o.Config); err != nil {
			return vinemotion.Config{}, err
		}
	}
	if o.Verbose {
		cfg.Debug = true
	}
	return cfg, nil
}

// logger writes text records to w; debug level when verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
