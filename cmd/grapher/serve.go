package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runningwild/grapher/pkg/agent"
	"github.com/runningwild/grapher/pkg/config"
	"github.com/runningwild/grapher/pkg/telemetry"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		rateLimit  float64
		burst      int
		exporter   string
		configFile string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP detection agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Init(ctx, telemetry.Config{
				ServiceName: "grapher-agent",
				Exporter:    exporter,
				Writer:      cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(sctx); err != nil {
					slog.Warn("trace shutdown failed", "error", err)
				}
			}()

			opts := agent.Options{
				Logger: slog.Default(),
				Rate:   rateLimit,
				Burst:  burst,
			}
			if configFile != "" {
				cfg, err := config.Load(configFile)
				if err != nil {
					return fmt.Errorf("failed to load config file: %w", err)
				}
				opts.Detector = &cfg.Detector
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Agent listening on :%d\n", port)
			return agent.NewServer(opts).ListenAndServe(ctx, port)
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&port, "port", 9000, "Port to listen on")
	fs.Float64Var(&rateLimit, "rate", 0, "Requests per second allowed (0 disables limiting)")
	fs.IntVar(&burst, "burst", 0, "Rate limiter burst (defaults to --rate)")
	fs.StringVar(&exporter, "trace", "none", "Trace exporter: none or stdout")
	fs.StringVar(&configFile, "config", "", "Take detector thresholds from this YAML file")
	return cmd
}
