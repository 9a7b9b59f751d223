package seam

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomGray(rng *rand.Rand, w, h int) *plane[uint8] {
	p := newPlane[uint8](w, h)
	for i := range p.data {
		p.data[i] = uint8(rng.Intn(256))
	}
	return p
}

// randomSeam returns an 8-connected seam inside a plane of width w.
func randomSeam(rng *rand.Rand, w, h int) []int {
	s := make([]int, h)
	s[0] = rng.Intn(w)
	for i := 1; i < h; i++ {
		s[i] = min(max(s[i-1]+rng.Intn(3)-1, 0), w-1)
	}
	return s
}

// compact copies the logical view of p into a fresh plane.
func compact[T any](p *plane[T]) *plane[T] {
	out := newPlane[T](p.width, p.height)
	for i := 0; i < p.height; i++ {
		copy(out.row(i), p.row(i))
	}
	return out
}

func rows[T any](p *plane[T]) [][]T {
	var out [][]T
	for i := 0; i < p.height; i++ {
		out = append(out, append([]T(nil), p.row(i)...))
	}
	return out
}

func TestPlane_RemoveSeam(t *testing.T) {
	build := func() *plane[int] {
		p := newPlane[int](6, 2)
		for i := range p.data {
			p.data[i] = i
		}
		return p
	}

	// seam in the right half shifts the right side left
	p := build()
	p.removeSeam([]int{4, 5})
	assert.Equal(t, 5, p.width)
	assert.Equal(t, 0, p.start)
	assert.Equal(t, [][]int{{0, 1, 2, 3, 5}, {6, 7, 8, 9, 10}}, rows(p))

	// seam in the left half shifts the left side right
	p = build()
	p.removeSeam([]int{1, 0})
	assert.Equal(t, 5, p.width)
	assert.Equal(t, 1, p.start)
	assert.Equal(t, [][]int{{0, 2, 3, 4, 5}, {7, 8, 9, 10, 11}}, rows(p))

	p.set(1, 0, 99)
	assert.Equal(t, 99, p.at(1, 0))
}

func TestComputeEnergy_FlatImageIsZero(t *testing.T) {
	g := newPlane[uint8](12, 5)
	for i := range g.data {
		g.data[i] = 200
	}
	e := newPlane[int32](12, 5)
	computeEnergy(g, e)
	for _, v := range e.data {
		assert.Zero(t, v)
	}
}

func TestComputeEnergy_VerticalEdge(t *testing.T) {
	g := newPlane[uint8](6, 3)
	for i := 0; i < 3; i++ {
		for j := 3; j < 6; j++ {
			g.set(i, j, 160)
		}
	}
	e := newPlane[int32](6, 3)
	computeEnergy(g, e)
	// y = 160*2 + 160 + 160 = 640 -> 40; x cancels
	assert.Equal(t, int32(40), e.at(1, 2))
	assert.Equal(t, int32(40), e.at(1, 3))
	assert.Equal(t, int32(0), e.at(1, 0))
	assert.Equal(t, int32(0), e.at(1, 5))
}

func TestComputeEnergyPartial_MatchesFull(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		w, h := 10+rng.Intn(30), 1+rng.Intn(20)
		gray := randomGray(rng, w, h)
		energy := newPlane[int32](w, h)
		computeEnergy(gray, energy)

		for n := 0; n < 5 && gray.width > 3; n++ {
			s := randomSeam(rng, gray.width, h)
			gray.removeSeam(s)
			energy.removeSeam(s)
			computeEnergyPartial(gray, energy, s)

			fresh := compact(gray)
			want := newPlane[int32](fresh.width, h)
			computeEnergy(fresh, want)
			require.Equal(t, rows(want), rows(energy), "trial %d seam %d", trial, n)
		}
	}
}

func TestComputePathSum_Small(t *testing.T) {
	e := newPlane[int32](3, 3)
	copy(e.data, []int32{
		1, 2, 3,
		4, 1, 6,
		7, 8, 1,
	})
	ps := newPlane[int32](3, 3)
	computePathSum(e, ps)
	assert.Equal(t, [][]int32{{1, 2, 3}, {5, 2, 8}, {9, 10, 3}}, rows(ps))

	seam := make([]int, 3)
	findMinSeam(ps, seam)
	assert.Equal(t, []int{0, 1, 2}, seam)
}

func TestFindMinSeam_TiesPreferCentreThenLeft(t *testing.T) {
	ps := newPlane[int32](3, 3)
	copy(ps.data, []int32{
		0, 0, 0,
		5, 5, 5,
		9, 1, 9,
	})
	seam := make([]int, 3)
	findMinSeam(ps, seam)
	assert.Equal(t, []int{1, 1, 1}, seam)

	copy(ps.data, []int32{
		2, 3, 2,
		9, 9, 9,
		9, 9, 1,
	})
	findMinSeam(ps, seam)
	assert.Equal(t, []int{2, 2, 2}, seam)

	copy(ps.data, []int32{
		2, 3, 2,
		1, 9, 1,
		9, 0, 9,
	})
	findMinSeam(ps, seam)
	assert.Equal(t, []int{0, 0, 1}, seam)
}

func TestComputePathSumPartial_MatchesFull(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		w, h := 12+rng.Intn(40), 1+rng.Intn(25)
		gray := randomGray(rng, w, h)
		energy := newPlane[int32](w, h)
		pathsum := newPlane[int32](w, h)
		computeEnergy(gray, energy)
		computePathSum(energy, pathsum)
		seam := make([]int, h)

		for n := 0; n < 6 && gray.width > MinWidth; n++ {
			findMinSeam(pathsum, seam)
			gray.removeSeam(seam)
			energy.removeSeam(seam)
			pathsum.removeSeam(seam)
			computeEnergyPartial(gray, energy, seam)
			touched := computePathSumPartial(energy, pathsum, seam)
			assert.Positive(t, touched)

			want := newPlane[int32](energy.width, h)
			computePathSum(compact(energy), want)
			require.Equal(t, rows(want), rows(pathsum), "trial %d seam %d", trial, n)
		}
	}
}

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 250, G: 40, B: 40, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{R: 10, G: 10, B: 200, A: 255})
			}
		}
	}
	return img
}

func TestCarve_RemovesSeams(t *testing.T) {
	src := checker(40, 17)
	res, err := Carve(src, 12)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 28, 17), res.Image.Bounds())
	assert.Positive(t, res.PathSumBytes)
	assert.Equal(t, res.Timing.Total(), res.Timing.Grey+res.Timing.Conv+res.Timing.ConvPartial+
		res.Timing.PathSum+res.Timing.MinPath+res.Timing.RmPath+res.Timing.Malloc)
}

func TestCarve_ZeroSeamsCopiesImage(t *testing.T) {
	src := checker(16, 8)
	res, err := Carve(src, 0)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			r2, g2, b2, _ := res.Image.At(x, y).RGBA()
			assert.Equal(t, [3]uint32{r, g, b}, [3]uint32{r2, g2, b2})
		}
	}
	assert.Zero(t, res.PathSumBytes)
}

func TestCarve_OffsetBounds(t *testing.T) {
	src := checker(30, 10).SubImage(image.Rect(5, 2, 25, 9))
	res, err := Carve(src, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 17, 7), res.Image.Bounds())
}

func TestCarve_Errors(t *testing.T) {
	src := checker(20, 4)

	_, err := Carve(src, 21)
	assert.True(t, errors.Is(err, ErrTooManySeams))

	_, err = Carve(src, 11)
	assert.True(t, errors.Is(err, ErrTooNarrow))

	_, err = Carve(src, 10)
	assert.NoError(t, err)
}

func TestTiming_Lines(t *testing.T) {
	tm := Timing{
		Grey:        10,
		Conv:        20,
		ConvPartial: 30,
		PathSum:     40,
		MinPath:     0,
		RmPath:      0,
		Malloc:      100,
	}
	lines := tm.Lines()
	require.Len(t, lines, 8)
	assert.Equal(t, "grey   \t10\t5.00%", lines[0])
	assert.Equal(t, "pathsum\t40\t20.00%", lines[3])
	assert.Equal(t, "total  \t200", lines[7])
	for _, l := range lines {
		assert.Equal(t, 1, strings.Count(l[:8], "\t"), l)
	}

	empty := Timing{}.Lines()
	assert.Equal(t, "malloc \t0\t0.00%", empty[6])
	assert.Equal(t, time.Duration(0), Timing{}.Total())
}

func BenchmarkCarve(b *testing.B) {
	src := checker(320, 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Carve(src, 100); err != nil {
			b.Fatalf("carve failed: %v", err)
		}
	}
}
