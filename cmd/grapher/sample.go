package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/runningwild/grapher/pkg/expr"
	"github.com/spf13/cobra"
)

type sampleFlags struct {
	Output     string
	Samples    int
	Resolution float64
	window     windowFlags
}

func newSampleCmd() *cobra.Command {
	f := &sampleFlags{}
	cmd := &cobra.Command{
		Use:   "sample <expression>",
		Short: "Write the plotted curve of an expression as CSV",
		Long: `Samples the expression across the view window and writes x,y,segment rows.
A new segment starts wherever the expression is undefined, so plotting each
segment as its own line reproduces the graph without joining across poles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Samples < 1 {
				return fmt.Errorf("invalid sample count: %d", f.Samples)
			}
			if f.Resolution < 0 {
				return fmt.Errorf("invalid resolution: %g", f.Resolution)
			}
			e, err := expr.Parse(args[0])
			if err != nil {
				return err
			}
			w := f.window.window(cmd.Flags())
			if err := w.Validate(); err != nil {
				return err
			}

			segments := analyze.Sample(e, w, f.Samples)
			if f.Resolution > 0 {
				for i, s := range segments {
					segments[i] = analyze.Downsample(s, f.Resolution)
				}
			}

			if f.Output == "" || f.Output == "-" {
				return writeSegmentsCSV(cmd.OutOrStdout(), segments)
			}
			file, err := os.Create(f.Output)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := writeSegmentsCSV(file, segments); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Curve written to %s\n", f.Output)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.Output, "output", "o", "", "Output CSV file (stdout when empty)")
	fs.IntVar(&f.Samples, "samples", 1000, "Number of intervals across the window")
	fs.Float64Var(&f.Resolution, "resolution", 0, "Average points into x bins of this width (0 keeps every sample)")
	f.window.register(fs)
	return cmd
}

func writeSegmentsCSV(out io.Writer, segments []analyze.Segment) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"x", "y", "segment"}); err != nil {
		return err
	}
	for i, s := range segments {
		seg := strconv.Itoa(i)
		for _, p := range s {
			if err := w.Write([]string{
				strconv.FormatFloat(p.X, 'f', 4, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				seg,
			}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
