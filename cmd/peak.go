package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carvebench/cmd/util"
	"carvebench/config"
	"carvebench/model"
)

var peakCmd = &cobra.Command{
	Use:   "peak",
	Short: "Print the theoretical peak cycle model as CSV",
	Long: `peak evaluates the theoretical peak cycle model over the reference
resolutions and the same seam schedule bench uses, and prints the result in
the bench CSV layout with testname peak-<variant>. Cycle counts stand in
for nanoseconds; grey and malloc are not modelled and print as 0.`,
	Args: cobra.NoArgs,
	RunE: peak,
}

var (
	variantName string
	peakWidth   int
	peakHeight  int
	peakSeams   int
)

func init() {
	peakCmd.Flags().StringVar(&variantName, "variant", "", "constant or scaled (default from config)")
	peakCmd.Flags().IntVar(&peakWidth, "width", 0, "evaluate a single resolution of this width")
	peakCmd.Flags().IntVar(&peakHeight, "height", 0, "evaluate a single resolution of this height")
	peakCmd.Flags().IntVar(&peakSeams, "seams", -1, "evaluate a single seam count")
	RootCmd.AddCommand(peakCmd)
}

func peak(cmd *cobra.Command, args []string) error {
	name := cfg.Peak.Variant
	if variantName != "" {
		name = variantName
	}
	variant, err := model.ParseVariant(name)
	if err != nil {
		return err
	}

	resolutions := cfg.Peak.Resolutions
	if peakWidth != 0 || peakHeight != 0 {
		if peakWidth <= 0 || peakHeight <= 0 {
			return errors.New("--width and --height must both be positive")
		}
		resolutions = []config.Resolution{{Width: peakWidth, Height: peakHeight}}
	}

	rows := peakRows(resolutions, peakSeams, cfg.Bench.Divisions, variant)
	logger.Debug("evaluated peak model", zap.Stringer("variant", variant), zap.Int("rows", len(rows)))

	out := util.NewCSVWriter(cmd.OutOrStdout())
	if err := out.WriteHeader(); err != nil {
		return err
	}
	for _, r := range rows {
		if err := out.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// peakRows evaluates the model for every resolution, either at the single
// seam count seams or, when seams is negative, over the bench schedule.
func peakRows(resolutions []config.Resolution, seams, divisions int, v model.Variant) []util.Row {
	var rows []util.Row
	for _, res := range resolutions {
		counts := []int{seams}
		if seams < 0 {
			counts = model.SeamCounts(res.Width, divisions)
		}
		for _, k := range counts {
			rows = append(rows, peakRow(res, k, v))
		}
	}
	return rows
}

func peakRow(res config.Resolution, k int, v model.Variant) util.Row {
	e := model.TheoreticalPeak(res.Width, res.Height, k, v)
	return util.Row{
		TestName: "peak-" + v.String(),
		Width:    res.Width,
		Height:   res.Height,
		Seams:    k,
		Breakdown: util.Breakdown{
			Conv:    e.Conv,
			ConvP:   e.ConvPartial,
			PathSum: e.PathSum,
			MinPath: e.MinPath,
			RmPath:  e.Movement,
			Total:   e.Total(),
		},
	}
}
