package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Markers in the carver's stderr.
const (
	IterationMarker = "Running iteration"
	TimingMarker    = "grey"
	CompletedMarker = "Completed in"
)

// StageCount is the number of values in a timing table, total included.
const StageCount = 8

var (
	// ErrNoTiming means a trial printed no timing table.
	ErrNoTiming = errors.New("no timing table in trial output")
	// ErrMalformed means the timing table could not be read.
	ErrMalformed = errors.New("malformed timing table")
)

// Breakdown is the per-stage timing of one trial.
type Breakdown struct {
	Grey    float64
	Conv    float64
	ConvP   float64
	PathSum float64
	MinPath float64
	RmPath  float64
	Malloc  float64
	Total   float64
}

func (b Breakdown) values() []float64 {
	return []float64{b.Grey, b.Conv, b.ConvP, b.PathSum, b.MinPath, b.RmPath, b.Malloc, b.Total}
}

func breakdownOf(v []float64) Breakdown {
	return Breakdown{
		Grey: v[0], Conv: v[1], ConvP: v[2], PathSum: v[3],
		MinPath: v[4], RmPath: v[5], Malloc: v[6], Total: v[7],
	}
}

// SkippedTrial records a trial that produced no row.
type SkippedTrial struct {
	Index int
	Err   error
}

// ParseTrials splits carver output into trials and reads the timing table
// of each. Trials without a table, or with an unreadable one, are returned
// in skipped instead. Text before the first iteration marker is a
// preamble and is dropped silently.
func ParseTrials(output string) (trials []Breakdown, skipped []SkippedTrial) {
	chunks := strings.Split(output, IterationMarker)
	for i, chunk := range chunks {
		b, err := ParseTrial(chunk)
		if err != nil {
			if i == 0 && len(chunks) > 1 {
				continue
			}
			skipped = append(skipped, SkippedTrial{Index: i, Err: err})
			continue
		}
		trials = append(trials, b)
	}
	return trials, skipped
}

// ParseTrial reads one timing table. It starts at the first occurrence of
// TimingMarker and stops at the line holding CompletedMarker. Each line
// with a tab contributes the field between its first and second tab.
func ParseTrial(chunk string) (Breakdown, error) {
	start := strings.Index(chunk, TimingMarker)
	if start == -1 {
		return Breakdown{}, ErrNoTiming
	}

	values := make([]float64, 0, StageCount)
	for _, line := range strings.Split(chunk[start:], "\n") {
		if strings.Contains(line, CompletedMarker) {
			break
		}
		tab := strings.IndexByte(line, '\t')
		if tab == -1 {
			continue
		}
		field := line[tab+1:]
		if end := strings.IndexByte(field, '\t'); end != -1 {
			field = field[:end]
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Breakdown{}, fmt.Errorf("%w: %q is not a number", ErrMalformed, strings.TrimSpace(field))
		}
		values = append(values, v)
	}
	if len(values) != StageCount {
		return Breakdown{}, fmt.Errorf("%w: want %d values, got %d", ErrMalformed, StageCount, len(values))
	}
	return breakdownOf(values), nil
}
