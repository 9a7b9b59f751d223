// Package seam removes vertical seams from images by content-aware
// carving, timing each stage of the work.
package seam

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"
)

// MinWidth is the narrowest image Carve will produce.
const MinWidth = 10

var (
	ErrTooManySeams = errors.New("seam: more seams than columns")
	ErrTooNarrow    = errors.New("seam: output narrower than minimum width")
)

type rgb struct {
	r, g, b uint8
}

// Result is the outcome of one Carve call.
type Result struct {
	Image  *image.RGBA
	Timing Timing
	// PathSumBytes is the memory traffic of the incremental path sums.
	PathSumBytes int
}

// Carve removes remove vertical seams from src.
func Carve(src image.Image, remove int) (*Result, error) {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	if remove < 0 || remove > width {
		return nil, fmt.Errorf("%w: image width %d, can't remove %d seams", ErrTooManySeams, width, remove)
	}
	if width-remove < MinWidth {
		return nil, fmt.Errorf("%w: %d-%d < %d", ErrTooNarrow, width, remove, MinWidth)
	}

	var t Timing
	res := &Result{}

	tic := time.Now()
	colour := fromImage(src)
	gray := newPlane[uint8](width, height)
	t.Malloc += time.Since(tic)

	tic = time.Now()
	toGray(colour, gray)
	t.Grey += time.Since(tic)

	tic = time.Now()
	energy := newPlane[int32](width, height)
	pathsum := newPlane[int32](width, height)
	seam := make([]int, height)
	t.Malloc += time.Since(tic)

	for n := 0; n < remove; n++ {
		if n == 0 {
			tic = time.Now()
			computeEnergy(gray, energy)
			t.Conv += time.Since(tic)

			tic = time.Now()
			computePathSum(energy, pathsum)
			t.PathSum += time.Since(tic)
		} else {
			tic = time.Now()
			computeEnergyPartial(gray, energy, seam)
			t.ConvPartial += time.Since(tic)

			tic = time.Now()
			res.PathSumBytes += computePathSumPartial(energy, pathsum, seam)
			t.PathSum += time.Since(tic)
		}

		tic = time.Now()
		findMinSeam(pathsum, seam)
		t.MinPath += time.Since(tic)

		tic = time.Now()
		gray.removeSeam(seam)
		colour.removeSeam(seam)
		energy.removeSeam(seam)
		pathsum.removeSeam(seam)
		t.RmPath += time.Since(tic)
	}

	tic = time.Now()
	res.Image = toImage(colour)
	t.Malloc += time.Since(tic)

	res.Timing = t
	return res, nil
}

// fromImage copies src into a fresh colour plane.
func fromImage(src image.Image) *plane[rgb] {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	p := newPlane[rgb](b.Dx(), b.Dy())
	for i := 0; i < p.height; i++ {
		row := p.row(i)
		off := rgba.PixOffset(0, i)
		for j := range row {
			px := rgba.Pix[off+4*j : off+4*j+3]
			row[j] = rgb{px[0], px[1], px[2]}
		}
	}
	return p
}

func toImage(p *plane[rgb]) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for i := 0; i < p.height; i++ {
		for j, px := range p.row(i) {
			img.SetRGBA(j, i, color.RGBA{R: px.r, G: px.g, B: px.b, A: 0xff})
		}
	}
	return img
}

func toGray(in *plane[rgb], out *plane[uint8]) {
	for i := 0; i < in.height; i++ {
		dst := out.row(i)
		for j, px := range in.row(i) {
			dst[j] = px.r/3 + px.g/3 + px.b/3
		}
	}
}
