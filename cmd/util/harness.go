package util

import (
	"fmt"

	"go.uber.org/zap"

	"carvebench/config"
	"carvebench/model"
)

// RunFunc runs a carver and returns its stderr.
type RunFunc func(binary string, args ...string) (string, error)

// Harness benchmarks carver binaries over a set of images, one invocation
// at a time.
type Harness struct {
	Binaries   []config.Binary
	Images     []Image
	Trials     int
	OutputPath string
	Divisions  int

	Out      *CSVWriter
	Log      *zap.Logger
	Diag     *Diagnostics
	Progress *Spinner

	// Run defaults to RunCarver.
	Run RunFunc
}

// Stats summarises a finished run.
type Stats struct {
	Invocations int
	Rows        int
	Skipped     int
	Failed      int
}

// Bench runs every binary on every image for every seam count of the
// image's schedule and writes one row per parsed trial.
func (h *Harness) Bench() (Stats, error) {
	var stats Stats
	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}
	run := h.Run
	if run == nil {
		run = RunCarver
	}

	if err := h.Out.WriteHeader(); err != nil {
		return stats, fmt.Errorf("writing header: %w", err)
	}

	for _, bin := range h.Binaries {
		name := bin.DisplayName()
		for _, img := range h.Images {
			for _, seams := range model.SeamCounts(img.Width, h.Divisions) {
				log.Debug("invoking carver",
					zap.String("binary", bin.Path),
					zap.String("image", img.Name),
					zap.Int("seams", seams))

				h.Progress.Start(fmt.Sprintf("%s %s k=%d", name, img.Name, seams))
				stderr, err := run(bin.Path, CarverArgs(img.Path, h.OutputPath, seams, h.Trials)...)
				h.Progress.Stop()
				stats.Invocations++
				if err != nil {
					stats.Failed++
					log.Warn("carver failed",
						zap.String("binary", bin.Path),
						zap.String("image", img.Name),
						zap.Int("seams", seams),
						zap.Error(err))
					h.Diag.Add(RuleInvokeFailed, img.Path,
						fmt.Sprintf("%s with %d seams: %v", name, seams, err))
				}

				trials, skipped := ParseTrials(stderr)
				for _, s := range skipped {
					stats.Skipped++
					log.Debug("skipping trial",
						zap.String("image", img.Name),
						zap.Int("seams", seams),
						zap.Int("trial", s.Index),
						zap.Error(s.Err))
					h.Diag.Add(RuleSkippedTrial, img.Path,
						fmt.Sprintf("%s with %d seams, trial %d: %v", name, seams, s.Index, s.Err))
				}
				for _, b := range trials {
					row := Row{TestName: name, Width: img.Width, Height: img.Height, Seams: seams, Breakdown: b}
					if err := h.Out.Write(row); err != nil {
						return stats, fmt.Errorf("writing row: %w", err)
					}
					stats.Rows++
				}
			}
		}
	}
	return stats, nil
}

// LoadImages lists the benchmark inputs of dir and reads their sizes.
// Images whose header cannot be read are logged, reported and left out.
func LoadImages(dir, ext, excludePrefix string, log *zap.Logger, diag *Diagnostics) ([]Image, error) {
	if log == nil {
		log = zap.NewNop()
	}
	names, err := ListImages(dir, ext, excludePrefix)
	if err != nil {
		return nil, err
	}
	images := make([]Image, 0, len(names))
	for _, name := range names {
		img, err := ReadImage(dir, name)
		if err != nil {
			log.Warn("skipping unreadable image", zap.String("image", name), zap.Error(err))
			diag.Add(RuleUnreadableImage, name, err.Error())
			continue
		}
		images = append(images, img)
	}
	return images, nil
}
