package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/pacelink/internal/slug"
)

var (
	slugCount  int
	slugLength int
)

var slugCmd = &cobra.Command{
	Use:   "slug",
	Short: "Print fresh share slugs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if slugCount < 1 {
			return fmt.Errorf("invalid count: %d", slugCount)
		}

		gen := slug.NewGenerator(slugLength, 1, nil)
		for i := 0; i < slugCount; i++ {
			fmt.Fprintln(cmd.OutOrStdout(), gen.Generate())
		}
		return nil
	},
}

func init() {
	slugCmd.Flags().IntVarP(&slugCount, "count", "n", 1, "number of slugs")
	slugCmd.Flags().IntVar(&slugLength, "length", slug.DefaultLength, "slug length")
}
