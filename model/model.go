// Package model estimates the theoretical peak cycle count of seam carving.
//
// The estimate is a closed-form sum over the same stages the carver times:
// an initial full-frame pass (convolution, path sums, seam search, data
// movement) followed by the incremental work of every further seam, where
// convolution is limited to a band of BandWidth columns and path sums and
// data movement work on the average remaining width.
package model

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

const (
	// SIMDWidth is the number of 32-bit lanes per vector instruction.
	SIMDWidth = 8
	// PathSumLanes is the path-sum throughput in pixels per cycle pair.
	PathSumLanes = 16
	// BandWidth is the number of columns reconvolved per removed seam.
	BandWidth = 8
	// SobelXOps and SobelYOps are the operations per pixel of each kernel.
	SobelXOps = 9
	SobelYOps = 5
	// MoveFraction of the remaining pixels is moved per seam, MoveLanes at a time.
	MoveFraction = 1.0 / 4
	MoveLanes    = 2 * 8
)

// Variant selects how per-seam work is accounted.
type Variant int

const (
	// Constant adds the per-seam terms once.
	Constant Variant = iota
	// Scaled multiplies every per-seam term by the number of seams.
	Scaled
)

func (v Variant) String() string {
	switch v {
	case Constant:
		return "constant"
	case Scaled:
		return "scaled"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant parses the name produced by Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "constant":
		return Constant, nil
	case "scaled":
		return Scaled, nil
	}
	return 0, fmt.Errorf("unknown model variant %q", s)
}

// Estimate is the cycle breakdown of one (width, height, k) evaluation.
type Estimate struct {
	Conv        float64 // initial full-frame convolution
	ConvPartial float64 // banded convolution of the following seams
	PathSum     float64
	MinPath     float64
	Movement    float64
}

// Total is the sum of all stages.
func (e Estimate) Total() float64 {
	return Sum(e.Conv, e.ConvPartial, e.PathSum, e.MinPath, e.Movement)
}

// TheoreticalPeak estimates the cycles needed to remove k vertical seams
// from a width x height image. Negative arguments count as zero and k is
// capped at width, so the estimate is never negative.
func TheoreticalPeak(width, height, k int, v Variant) Estimate {
	w := float64(max(width, 0))
	h := float64(max(height, 0))
	seams := float64(min(max(k, 0), max(width, 0)))

	avgWidth := (w + w - seams) / 2

	var e Estimate
	e.Conv = 2 * (SobelXOps*w*h + SobelYOps*w*h) / SIMDWidth
	e.PathSum = 2 * w * h / PathSumLanes
	e.MinPath = 2 * h
	e.Movement = MoveFraction * avgWidth * h / MoveLanes

	scale := 1.0
	if v == Scaled {
		scale = seams
	}
	e.ConvPartial = scale * 2 * (SobelXOps*BandWidth*h + SobelYOps*BandWidth*h) / SIMDWidth
	e.PathSum += scale * 0.5 * 2 * avgWidth * h / PathSumLanes
	e.MinPath += scale * 2 * h
	e.Movement += scale * MoveFraction * avgWidth * h / MoveLanes
	return e
}

// Cycles is TheoreticalPeak(...).Total().
func Cycles(width, height, k int, v Variant) float64 {
	return TheoreticalPeak(width, height, k, v).Total()
}

// Sum adds up its arguments.
func Sum[T constraints.Integer | constraints.Float](xs ...T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}
