package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carvebench/cmd/util"
)

var plotCmd = &cobra.Command{
	Use:   "plot <csv>",
	Short: "Plot one column of bench or peak output against the seam count",
	Args:  cobra.ExactArgs(1),
	RunE:  plot,
}

var (
	plotImageWidth  int
	plotImageHeight int
	plotColumn      string
	plotOutput      string
	plotSize        []int
)

func init() {
	plotCmd.Flags().IntVar(&plotImageWidth, "width", 0, "image width to plot (default: first row)")
	plotCmd.Flags().IntVar(&plotImageHeight, "height", 0, "image height to plot (default: first row)")
	plotCmd.Flags().StringVar(&plotColumn, "column", "total", "stage column to plot")
	plotCmd.Flags().StringVar(&plotOutput, "out", "plot.png", "PNG file to write")
	plotCmd.Flags().IntSliceVar(&plotSize, "size", []int{800, 600}, "plot width,height in pixels")
	RootCmd.AddCommand(plotCmd)
}

func plot(cmd *cobra.Command, args []string) error {
	if len(plotSize) != 2 {
		return errors.New("--size takes width,height")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := util.ReadRows(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s has no rows", args[0])
	}

	w, h := plotImageWidth, plotImageHeight
	if w == 0 && h == 0 {
		w, h = rows[0].Width, rows[0].Height
	}
	series, err := util.SelectSeries(rows, w, h, plotColumn)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no rows for %dx%d", w, h)
	}

	ctx, err := util.Plot(series, fmt.Sprintf("%dx%d", w, h), plotColumn, plotSize[0], plotSize[1])
	if err != nil {
		return err
	}
	if err := ctx.SavePNG(plotOutput); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	logger.Info("wrote plot", zap.String("path", plotOutput), zap.Int("series", len(series)))
	return nil
}
