package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/verdantworks/plantation-cli/internal/export"
	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved plantation plans",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plans",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		source, _ := cmd.Flags().GetString("source")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		plans, err := st.ListPlans(ctx, store.PlanFilter{
			Source: model.PlanSource(source),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(plans) == 0 {
			fmt.Fprintln(os.Stderr, "No saved plans found.")
			return nil
		}

		formatPlansList(cmd.OutOrStdout(), plans)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a saved plan, optionally re-exporting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		plan, err := st.GetPlan(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		formatName, _ := cmd.Flags().GetString("format")
		if formatName != "" {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			return writePlan(plan, format, out)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	},
}

func init() {
	runsListCmd.Flags().String("source", "", "filter by plan source (raster, spiral)")
	runsListCmd.Flags().Int("limit", 50, "max number of plans to display")
	runsListCmd.Flags().Int("offset", 0, "number of plans to skip")

	runsShowCmd.Flags().String("format", "", "re-export in a format (csv, geojson, kml, shp, xlsx, table)")
	runsShowCmd.Flags().String("out", "", "output file path (defaults to stdout for stream formats)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatPlansList writes a tabular list of plan summaries to w.
func formatPlansList(out io.Writer, plans []store.PlanSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSOURCE\tCENTER\tPOINTS\tCREATED")
	for _, p := range plans {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.4f,%.4f\t%d\t%s\n",
			p.ID, p.Source, p.Center.Lat, p.Center.Lon, p.PointCount, p.CreatedAt)
	}
	_ = w.Flush()
}
