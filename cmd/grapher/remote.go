package main

import (
	"fmt"
	"strings"

	"github.com/runningwild/grapher/pkg/agent"
	"github.com/runningwild/grapher/pkg/cluster"
	"github.com/runningwild/grapher/pkg/plot"
	"github.com/spf13/cobra"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run work on grapher agents",
	}
	cmd.AddCommand(newRemoteDetectCmd())
	return cmd
}

func newRemoteDetectCmd() *cobra.Command {
	var (
		nodes  string
		window windowFlags
	)
	cmd := &cobra.Command{
		Use:     "detect <expression>...",
		Short:   "Detect features on remote agents, spreading expressions across nodes",
		Example: `  grapher remote detect --nodes a:9000,b:9000 "1/x" "tan(x)"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nodes == "" {
				return fmt.Errorf("--nodes is required")
			}
			var list []string
			for _, n := range strings.Split(nodes, ",") {
				if n = strings.TrimSpace(n); n != "" {
					list = append(list, n)
				}
			}

			w := window.window(cmd.Flags())
			reqs := make([]agent.DetectRequest, len(args))
			for i, a := range args {
				reqs[i] = agent.DetectRequest{Expression: a, Window: &w}
			}

			results, err := cluster.New(list).Detect(cmd.Context(), reqs)
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			for i, r := range results {
				title := fmt.Sprintf("%s  [%s]", plot.Title(args[i]), r.Node)
				if r.Err != nil {
					fmt.Fprintf(out.w, "%s\n  %s\n", title, out.render(errorStyle, "Error: "+r.Err.Error))
					continue
				}
				out.Features(title, r.Response.Features())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&nodes, "nodes", "", "Comma-separated agent addresses (host:port)")
	window.register(cmd.Flags())
	return cmd
}
