package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carvebench/cmd/util"
	"carvebench/config"
)

var benchCmd = &cobra.Command{
	Use:     "bench",
	Short:   "Run the carvers over every image and print one CSV row per trial",
	Aliases: []string{"b"},
	Args:    cobra.NoArgs,
	RunE:    bench,
}

var (
	binaries    []string
	imageDir    string
	trials      int
	outImage    string
	divisions   int
	csvOutput   string
	stage       bool
	keepScratch bool
	sarifOutput string
)

func init() {
	benchCmd.Flags().StringArrayVarP(&binaries, "binary", "b", nil, "carver binary to run, repeatable (default from config)")
	benchCmd.Flags().StringVarP(&imageDir, "dir", "d", "", "directory holding the .jpg inputs")
	benchCmd.Flags().IntVarP(&trials, "trials", "n", 0, "trials per invocation")
	benchCmd.Flags().StringVar(&outImage, "out-image", "", "output image path handed to the carver")
	benchCmd.Flags().IntVar(&divisions, "divisions", 0, "seam step is max(width/divisions, 1)")
	benchCmd.Flags().StringVarP(&csvOutput, "output", "o", "", "write CSV to this file instead of stdout")
	benchCmd.Flags().BoolVar(&stage, "stage", false, "copy the images into a scratch folder first")
	benchCmd.Flags().BoolVar(&keepScratch, "keep-scratch", false, "leave the scratch folder in place")
	benchCmd.Flags().StringVar(&sarifOutput, "sarif", "", "write a SARIF report of skipped work to this file")
	RootCmd.AddCommand(benchCmd)
}

// applyBenchFlags overrides the loaded configuration with the flags set
// on the command line.
func applyBenchFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("binary") {
		c.Bench.Binaries = c.Bench.Binaries[:0]
		for _, b := range binaries {
			c.Bench.Binaries = append(c.Bench.Binaries, config.Binary{Path: b})
		}
	}
	if flags.Changed("dir") {
		c.Images.Dir = imageDir
	}
	if flags.Changed("trials") {
		c.Bench.Trials = trials
	}
	if flags.Changed("out-image") {
		c.Bench.OutputPath = outImage
	}
	if flags.Changed("divisions") {
		c.Bench.Divisions = divisions
	}
	if flags.Changed("stage") {
		c.Bench.Stage = stage
	}
}

func bench(cmd *cobra.Command, args []string) error {
	c := *cfg
	c.Bench.Binaries = append([]config.Binary(nil), cfg.Bench.Binaries...)
	applyBenchFlags(cmd, &c)
	if err := c.Validate(); err != nil {
		return err
	}

	runID := uuid.New().String()
	log := logger.With(zap.String("run", runID))

	dir := c.Images.Dir
	if c.Bench.Stage {
		names, err := util.ListImages(dir, c.Images.Extension, c.Images.ExcludePrefix)
		if err != nil {
			return err
		}
		scratch := filepath.Join(c.Bench.ScratchDir, runID)
		if !keepScratch {
			defer func() {
				if err := os.RemoveAll(scratch); err != nil {
					log.Warn("removing scratch folder", zap.Error(err))
				}
			}()
		}
		if err := util.StageImages(dir, scratch, names); err != nil {
			return err
		}
		log.Info("staged images", zap.String("from", dir), zap.String("to", scratch), zap.Int("count", len(names)))
		dir = scratch
	}

	var diag *util.Diagnostics
	if sarifOutput != "" {
		diag = util.NewDiagnostics()
	}

	images, err := util.LoadImages(dir, c.Images.Extension, c.Images.ExcludePrefix, log, diag)
	if err != nil {
		return err
	}
	log.Info("found images", zap.String("dir", dir), zap.Int("count", len(images)))

	var out io.Writer = cmd.OutOrStdout()
	if csvOutput != "" {
		f, err := os.Create(csvOutput)
		if err != nil {
			return fmt.Errorf("creating CSV output: %w", err)
		}
		defer f.Close()
		out = f
	}

	var progress *util.Spinner
	if !verbose {
		progress = util.TerminalSpinner(os.Stderr)
	}

	h := &util.Harness{
		Binaries:   c.Bench.Binaries,
		Images:     images,
		Trials:     c.Bench.Trials,
		OutputPath: c.Bench.OutputPath,
		Divisions:  c.Bench.Divisions,
		Out:        util.NewCSVWriter(out),
		Log:        log,
		Diag:       diag,
		Progress:   progress,
	}
	stats, err := h.Bench()
	if err != nil {
		return err
	}
	log.Info("benchmark finished",
		zap.Int("invocations", stats.Invocations),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))

	if diag != nil {
		if err := diag.WriteFile(sarifOutput); err != nil {
			return err
		}
		log.Info("wrote diagnostics", zap.String("path", sarifOutput), zap.Int("results", diag.Count()))
	}
	return nil
}
