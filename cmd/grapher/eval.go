package main

import (
	"fmt"
	"strconv"

	"github.com/runningwild/grapher/pkg/expr"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression> <x>...",
		Short: "Evaluate an expression at one or more x values",
		Example: `  grapher eval "2x^2 + 1" 0 1.5 -3
  grapher eval "sqrt(x)" -- -1`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := expr.Parse(args[0])
			if err != nil {
				return err
			}
			xs := make([]float64, 0, len(args)-1)
			for _, a := range args[1:] {
				x, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid x value %q", a)
				}
				xs = append(xs, x)
			}

			out := cmd.OutOrStdout()
			for i, x := range xs {
				label := args[i+1]
				if v, ok := e.At(x); ok {
					fmt.Fprintf(out, "f(%s) = %s\n", label, strconv.FormatFloat(v, 'g', -1, 64))
				} else {
					fmt.Fprintf(out, "f(%s) = undefined\n", label)
				}
			}
			return nil
		},
	}
}
