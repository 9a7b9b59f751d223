// Command carve removes vertical seams from an image and reports the time
// spent in each stage on stderr, in the layout carvebench bench parses.
//
//	carve <in> <out> <num_seams> [<trials>]
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"carvebench/seam"
)

var cpuProfile string

var rootCmd = &cobra.Command{
	Use:          "carve <in> <out> <num_seams> [<trials>]",
	Short:        "Remove vertical seams from an image",
	Args:         cobra.RangeArgs(3, 4),
	SilenceUsage: true,
	RunE:         carve,
}

func init() {
	rootCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile of the run to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger writes bare messages to stderr so timing lines keep their tabs.
func newLogger() *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	})
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.InfoLevel))
}

func carve(cmd *cobra.Command, args []string) error {
	log := newLogger().Sugar()
	defer log.Sync()

	seams, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("num_seams: %w", err)
	}
	trials := 0
	if len(args) == 4 {
		if trials, err = strconv.Atoi(args[3]); err != nil {
			return fmt.Errorf("trials: %w", err)
		}
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	src, err := readImage(args[0])
	if err != nil {
		return err
	}
	b := src.Bounds()
	log.Infof("Opened image %s (%dx%d)", args[0], b.Dx(), b.Dy())

	var res *seam.Result
	if trials < 1 {
		if res, err = run(log, src, seams); err != nil {
			return err
		}
	}
	for n := 1; n <= trials; n++ {
		log.Infof("Running iteration %d", n)
		if res, err = run(log, src, seams); err != nil {
			return err
		}
	}
	return writeImage(args[1], res.Image)
}

func run(log *zap.SugaredLogger, src image.Image, seams int) (*seam.Result, error) {
	log.Infof("Carving %d seams", seams)
	start := time.Now()
	res, err := seam.Carve(src, seams)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if res.Timing.PathSum > 0 {
		log.Infof("pathsum %.2f gb/s", float64(res.PathSumBytes)/res.Timing.PathSum.Seconds()/1e9)
	}
	log.Info("Seam carving completed")
	for _, line := range res.Timing.Lines() {
		log.Info(line)
	}
	log.Infof("Completed in %d ns (%.2fs)", elapsed.Nanoseconds(), elapsed.Seconds())
	return res, nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
