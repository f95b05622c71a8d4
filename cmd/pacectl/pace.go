package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/2beens/pacelink/internal/misc"
	"github.com/2beens/pacelink/internal/pace"
)

var paceP1K string

var paceCmd = &cobra.Command{
	Use:   "pace",
	Short: "Print the suggested pace range of every intensity for a P1K",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p1k, err := pace.Parse(paceP1K)
		if err != nil {
			return fmt.Errorf("invalid p1k %q: %w", paceP1K, err)
		}

		ranges, err := misc.PaceRanges(p1k)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("output") {
			return printValue(cmd.OutOrStdout(), ranges)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "INTENSITY\tRANGE\tMIN (s/km)\tMAX (s/km)")
		for _, r := range ranges {
			fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\n", r.Intensity, r.Display, r.MinSecPerKm, r.MaxSecPerKm)
		}
		return tw.Flush()
	},
}

func init() {
	paceCmd.Flags().StringVar(&paceP1K, "p1k", "", "reference pace (P1K) as M:SS")
	_ = paceCmd.MarkFlagRequired("p1k")
}
