package util

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Point is one (seams, value) sample of a series.
type Point struct {
	Seams int
	Value float64
}

// Series is the points of one testname, ordered by seam count.
type Series struct {
	Name   string
	Points []Point
}

// ColumnIndex returns the position of a stage column in Breakdown order.
func ColumnIndex(column string) (int, error) {
	for i, name := range Header[4:] {
		if name == column {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", column)
}

// SelectSeries groups the rows of one image size by testname. Repeated
// trials of the same seam count are averaged.
func SelectSeries(rows []Row, width, height int, column string) ([]Series, error) {
	col, err := ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	type key struct {
		name  string
		seams int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	var names []string
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.Width != width || r.Height != height {
			continue
		}
		k := key{r.TestName, r.Seams}
		sums[k] += r.values()[col]
		counts[k]++
		if !seen[r.TestName] {
			seen[r.TestName] = true
			names = append(names, r.TestName)
		}
	}

	series := make([]Series, 0, len(names))
	for _, name := range names {
		s := Series{Name: name}
		for k, sum := range sums {
			if k.name == name {
				s.Points = append(s.Points, Point{Seams: k.seams, Value: sum / float64(counts[k])})
			}
		}
		sort.Slice(s.Points, func(i, j int) bool { return s.Points[i].Seams < s.Points[j].Seams })
		series = append(series, s)
	}
	return series, nil
}

var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

const plotMargin = 60

// Plot draws every series as a line of value against seam count.
func Plot(series []Series, title, yLabel string, width, height int) (*gg.Context, error) {
	if width <= 2*plotMargin || height <= 2*plotMargin {
		return nil, fmt.Errorf("plot size %dx%d too small", width, height)
	}
	maxX, maxY := 1.0, 0.0
	for _, s := range series {
		for _, p := range s.Points {
			maxX = math.Max(maxX, float64(p.Seams))
			maxY = math.Max(maxY, p.Value)
		}
	}
	if maxY == 0 {
		maxY = 1
	}

	ctx := gg.NewContext(width, height)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetFontFace(basicfont.Face7x13)

	left, right := float64(plotMargin), float64(width-plotMargin/2)
	top, bottom := float64(plotMargin/2), float64(height-plotMargin)
	px := func(x float64) float64 { return left + x/maxX*(right-left) }
	py := func(y float64) float64 { return bottom - y/maxY*(bottom-top) }

	// axes and ticks
	ctx.SetColor(color.Black)
	ctx.SetLineWidth(1)
	ctx.DrawLine(left, top, left, bottom)
	ctx.DrawLine(left, bottom, right, bottom)
	ctx.Stroke()
	for i := 0; i <= 4; i++ {
		x := maxX * float64(i) / 4
		y := maxY * float64(i) / 4
		ctx.DrawStringAnchored(strconv.Itoa(int(x)), px(x), bottom+4, 0.5, 1)
		ctx.DrawStringAnchored(strconv.FormatFloat(y, 'g', 3, 64), left-4, py(y), 1, 0.5)
	}
	ctx.DrawStringAnchored("num_seams_removed", (left+right)/2, float64(height)-8, 0.5, 0)
	ctx.DrawStringAnchored(yLabel, 4, top-12, 0, 0.5)
	ctx.DrawStringAnchored(title, (left+right)/2, top-12, 0.5, 0.5)

	for i, s := range series {
		c := palette[i%len(palette)]
		ctx.SetColor(c)
		ctx.SetLineWidth(2)
		for j, p := range s.Points {
			if j == 0 {
				ctx.MoveTo(px(float64(p.Seams)), py(p.Value))
			} else {
				ctx.LineTo(px(float64(p.Seams)), py(p.Value))
			}
		}
		ctx.Stroke()

		ly := top + 16*float64(i)
		ctx.DrawLine(right-110, ly, right-90, ly)
		ctx.Stroke()
		ctx.DrawStringAnchored(s.Name, right-84, ly, 0, 0.5)
	}
	return ctx, nil
}
