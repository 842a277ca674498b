package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/runningwild/grapher/pkg/config"
	"github.com/runningwild/grapher/pkg/plot"
	"github.com/runningwild/grapher/pkg/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// windowFlags overrides a window bound only when its flag was given.
type windowFlags struct {
	XMin, XMax, YMin, YMax float64
}

func (f *windowFlags) register(fs *pflag.FlagSet) {
	def := analyze.DefaultWindow()
	fs.Float64Var(&f.XMin, "x-min", def.XMin, "Left edge of the view")
	fs.Float64Var(&f.XMax, "x-max", def.XMax, "Right edge of the view")
	fs.Float64Var(&f.YMin, "y-min", def.YMin, "Bottom edge of the view")
	fs.Float64Var(&f.YMax, "y-max", def.YMax, "Top edge of the view")
}

func (f *windowFlags) apply(fs *pflag.FlagSet, w *analyze.Window) {
	if fs.Changed("x-min") {
		w.XMin = f.XMin
	}
	if fs.Changed("x-max") {
		w.XMax = f.XMax
	}
	if fs.Changed("y-min") {
		w.YMin = f.YMin
	}
	if fs.Changed("y-max") {
		w.YMax = f.YMax
	}
}

func (f *windowFlags) window(fs *pflag.FlagSet) analyze.Window {
	w := analyze.DefaultWindow()
	f.apply(fs, &w)
	return w
}

type detectFlags struct {
	ConfigFile  string
	WriteConfig string
	ReportFile  string
	Watch       bool
	window      windowFlags
}

func newDetectCmd() *cobra.Command {
	f := &detectFlags{}
	cmd := &cobra.Command{
		Use:   "detect [expression...]",
		Short: "Find asymptotes and holes of one or more expressions",
		Example: `  grapher detect "1/x" "(x^2-1)/(x-1)"
  grapher detect --config session.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, f, args)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.ConfigFile, "config", "", "Load the window, functions and detector settings from this YAML file")
	fs.StringVar(&f.WriteConfig, "write-config", "", "Save the resulting session to this YAML file")
	fs.StringVar(&f.ReportFile, "report", "", "Write results to JSON file")
	fs.BoolVar(&f.Watch, "watch", false, "Re-run whenever the --config file changes")
	f.window.register(fs)
	return cmd
}

// loadConfig determines the config source (file, arguments or both) and
// returns a validated Config.
func (f *detectFlags) loadConfig(fs *pflag.FlagSet, args []string) (*config.Config, error) {
	var cfg *config.Config
	if f.ConfigFile != "" {
		loaded, err := config.Load(f.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg = loaded
	} else {
		if len(args) == 0 {
			return nil, fmt.Errorf("no expressions given (pass them as arguments or use --config)")
		}
		cfg = config.Default()
		cfg.Functions = nil
	}

	for _, a := range args {
		cfg.Functions = append(cfg.Functions, config.Function{Expression: a})
	}
	f.window.apply(fs, &cfg.Window)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDetect(cmd *cobra.Command, f *detectFlags, args []string) error {
	if f.Watch && f.ConfigFile == "" {
		return fmt.Errorf("--watch requires --config")
	}
	ctx := cmd.Context()
	out := newPrinter(cmd.OutOrStdout())

	if err := detectOnce(ctx, cmd, f, args, out); err != nil {
		return err
	}
	if !f.Watch {
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes (Ctrl-C to stop)\n", f.ConfigFile)
	err := watch.Watch(ctx, f.ConfigFile, 200*time.Millisecond, slog.Default(), func() {
		fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s changed ---\n", f.ConfigFile)
		if err := detectOnce(ctx, cmd, f, args, out); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func detectOnce(ctx context.Context, cmd *cobra.Command, f *detectFlags, args []string, out *printer) error {
	cfg, err := f.loadConfig(cmd.Flags(), args)
	if err != nil {
		return err
	}

	s, err := plot.FromConfig(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	out.Definitions(s)

	if f.ReportFile != "" {
		if err := writeReport(f.ReportFile, s); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f.ReportFile)
	}
	if f.WriteConfig != "" {
		if err := s.Config().Save(f.WriteConfig); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", f.WriteConfig)
	}
	return nil
}
