package main

import (
	"math/rand"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verdantworks/plantation-cli/internal/export"
	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/planner"
	"github.com/verdantworks/plantation-cli/internal/raster"
	"github.com/verdantworks/plantation-cli/internal/species"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a plantation plan around a coordinate",
	Long:  "Generates candidate plantation points around --lat/--lon, scored and annotated with native species. With --raster, points are selected from the suitability grid; otherwise a spiral sampling pattern is used.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		count, _ := cmd.Flags().GetInt("count")
		rasterPath, _ := cmd.Flags().GetString("raster")
		seed, _ := cmd.Flags().GetInt64("seed")
		formatName, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		save, _ := cmd.Flags().GetBool("save")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		// Flag overrides for config-backed planner knobs.
		if radius, _ := cmd.Flags().GetFloat64("radius"); radius > 0 {
			cfg.Planner.RadiusDeg = radius
		}
		if spacing, _ := cmd.Flags().GetFloat64("spacing"); spacing > 0 {
			cfg.Planner.MinPixelSpacing = spacing
		}

		log := zap.L().With(zap.String("command", "plan"))

		var grid *raster.Grid
		if rasterPath != "" {
			grid, err = raster.Load(rasterPath)
			if err != nil {
				return eris.Wrapf(err, "plan: load raster %s", rasterPath)
			}
			log.Info("raster loaded",
				zap.String("path", rasterPath),
				zap.Int("width", grid.Width),
				zap.Int("height", grid.Height),
			)
		}

		p, err := newPlanner(seed)
		if err != nil {
			return err
		}

		plan, err := p.Plan(ctx, planner.Request{
			Center: model.Coordinate{Lat: lat, Lon: lon},
			Count:  count,
			Raster: grid,
		})
		if err != nil {
			return eris.Wrap(err, "plan: generate")
		}

		log.Info("plan generated",
			zap.String("plan_id", plan.ID),
			zap.String("source", string(plan.Source)),
			zap.Int("points", len(plan.Points)),
		)

		if save {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			if err := st.SavePlan(ctx, plan); err != nil {
				return eris.Wrap(err, "plan: save")
			}
			log.Info("plan saved", zap.String("plan_id", plan.ID))
		}

		return writePlan(plan, format, outPath)
	},
}

// newPlanner builds a Planner from config, the optional species table, and
// an optional fixed seed.
func newPlanner(seed int64) (*planner.Planner, error) {
	var tiers []species.Tier
	if cfg.Species.TablePath != "" {
		var err error
		tiers, err = species.LoadTiers(cfg.Species.TablePath)
		if err != nil {
			return nil, err
		}
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	return planner.New(planner.Options{
		RadiusDeg:       cfg.Planner.RadiusDeg,
		FootprintDeg:    cfg.Planner.FootprintDeg,
		MinPixelSpacing: cfg.Planner.MinPixelSpacing,
	}, tiers, rng), nil
}

// writePlan serializes a plan to the output path, or stdout when none is
// given. Shapefile output always needs a path.
func writePlan(plan *model.Plan, format export.Format, outPath string) error {
	if outPath == "" && format == export.FormatShapefile {
		outPath = export.OutputPath(".", plan, format)
	}
	if outPath != "" {
		return export.WriteFile(outPath, plan, format)
	}
	return export.Write(os.Stdout, plan, format)
}

func init() {
	planCmd.Flags().Float64("lat", 0, "center latitude in decimal degrees")
	planCmd.Flags().Float64("lon", 0, "center longitude in decimal degrees")
	planCmd.Flags().Int("count", 0, "number of points (50-200, default from config)")
	planCmd.Flags().String("raster", "", "path to a suitability raster (.csv, .png, .jpg)")
	planCmd.Flags().Int64("seed", 0, "random seed for reproducible output (0 = nondeterministic)")
	planCmd.Flags().Float64("radius", 0, "spiral sampling radius in degrees (default from config)")
	planCmd.Flags().Float64("spacing", 0, "minimum pixel spacing for raster selection (default from config)")
	planCmd.Flags().String("format", "table", "output format: csv, geojson, kml, shp, xlsx, table")
	planCmd.Flags().String("out", "", "output file path (default stdout)")
	planCmd.Flags().Bool("save", false, "persist the plan to the store")
	_ = planCmd.MarkFlagRequired("lat")
	_ = planCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(planCmd)
}
