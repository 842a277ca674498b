package main

import (
	"fmt"
	"runtime"

	"github.com/runningwild/grapher/pkg/bench"
	"github.com/runningwild/grapher/pkg/expr"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		p      bench.Params
		window windowFlags
	)
	cmd := &cobra.Command{
		Use:   "bench <expression>",
		Short: "Measure evaluation throughput and latency of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := expr.Parse(args[0])
			if err != nil {
				return err
			}
			w := window.window(cmd.Flags())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Benchmarking f(x) = %s (%d evaluations, %d workers)\n", e.Source(), p.Evaluations, p.Workers)
			res, err := bench.Run(cmd.Context(), e, w, p)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\n>>> Results <<<\n")
			fmt.Fprintf(out, "Evaluations: %d (%d undefined)\n", res.Evaluations, res.Undefined)
			fmt.Fprintf(out, "Duration:    %v\n", res.Duration)
			fmt.Fprintf(out, "Throughput:  %.0f evals/s\n", res.EvalsPerSec)
			fmt.Fprintf(out, "Latency:     mean %v, p50 %v, p99 %v\n", res.Mean, res.P50, res.P99)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&p.Evaluations, "evaluations", 1_000_000, "Total evaluations")
	fs.IntVar(&p.Workers, "workers", runtime.NumCPU(), "Concurrent workers")
	fs.IntVar(&p.Samples, "samples", 1000, "Distinct x positions across the window")
	window.register(fs)
	return cmd
}
