package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/verdantworks/plantation-cli/internal/raster"
)

var rasterCmd = &cobra.Command{
	Use:   "raster",
	Short: "Inspect suitability rasters",
}

var rasterInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print raster dimensions and score statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grid, err := raster.Load(args[0])
		if err != nil {
			return eris.Wrapf(err, "raster info: load %s", args[0])
		}

		s := grid.Summarize()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dimensions:  %dx%d (%d pixels)\n", s.Width, s.Height, s.Width*s.Height)
		fmt.Fprintf(out, "Score range: %.1f - %.1f (mean %.1f)\n", s.Min, s.Max, s.Mean)
		fmt.Fprintf(out, "Above 50:    %d pixels (primary selection threshold)\n", s.Above50)
		fmt.Fprintf(out, "Above 30:    %d pixels (relaxed selection threshold)\n", s.Above30)
		return nil
	},
}

func init() {
	rasterCmd.AddCommand(rasterInfoCmd)
	rootCmd.AddCommand(rasterCmd)
}
