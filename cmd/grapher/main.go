package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// logFlags are shared by every subcommand.
type logFlags struct {
	Level string
	JSON  bool
}

func (f *logFlags) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.Level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", f.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if f.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

func newRootCmd() *cobra.Command {
	lf := &logFlags{}
	root := &cobra.Command{
		Use:   "grapher",
		Short: "Compile math expressions and find their asymptotes and holes",
		Long: `grapher compiles single-variable expressions such as "2x^2 + sin(x)/x"
and scans them over a view window for vertical asymptotes, horizontal
asymptotes and removable discontinuities.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := lf.logger()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&lf.Level, "log-level", "warn", "Log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&lf.JSON, "log-json", false, "Log as JSON instead of text")

	root.AddCommand(
		newDetectCmd(),
		newEvalCmd(),
		newSampleCmd(),
		newBenchCmd(),
		newServeCmd(),
		newRemoteCmd(),
	)
	return root
}
