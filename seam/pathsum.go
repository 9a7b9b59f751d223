package seam

// computePathSum fills result with the cost of the cheapest 8-connected
// path from the top row down to every pixel.
func computePathSum(en, result *plane[int32]) {
	copy(result.row(0), en.row(0))
	for i := 1; i < en.height; i++ {
		prev, cur, e := result.row(i-1), result.row(i), en.row(i)
		for j := range cur {
			cur[j] = e[j] + minAbove(prev, j)
		}
	}
}

// computePathSumPartial brings result up to date after a seam removal,
// recomputing only the cone below the columns whose energy or
// neighbourhood changed. It returns the number of bytes it touched.
func computePathSumPartial(en, result *plane[int32], removed []int) int {
	w := en.width
	touched := 0
	lo, hi := -1, -1
	for i := 0; i < en.height; i++ {
		a, b := removed[i], removed[i]
		if i > 0 {
			a, b = min(a, removed[i-1]), max(b, removed[i-1])
		}
		from, to := a-partialLead, b-partialLead+partialBand-1
		if lo >= 0 {
			from, to = min(from, lo-1), max(to, hi+1)
		}
		from, to = max(from, 0), min(to, w-1)

		var prev []int32
		if i > 0 {
			prev = result.row(i - 1)
		}
		cur, e := result.row(i), en.row(i)
		lo, hi = -1, -1
		for j := from; j <= to; j++ {
			v := e[j]
			if prev != nil {
				v += minAbove(prev, j)
			}
			if v != cur[j] {
				cur[j] = v
				if lo < 0 {
					lo = j
				}
				hi = j
			}
		}
		if to >= from {
			// one energy read, three path-sum reads and one write per pixel
			touched += (to - from + 1) * 5 * 4
		}
	}
	return touched
}

// minAbove is the smallest of prev[j-1], prev[j], prev[j+1] that exist.
func minAbove(prev []int32, j int) int32 {
	cc := prev[j]
	ll, rr := cc, cc
	if j > 0 {
		ll = prev[j-1]
	}
	if j < len(prev)-1 {
		rr = prev[j+1]
	}
	return min3(ll, cc, rr)
}

// findMinSeam writes into result the column of the cheapest seam in each
// row, ending at the cheapest (leftmost on ties) pixel of the bottom row.
// Going up, the centre pixel wins ties, then the left one.
func findMinSeam(pathsum *plane[int32], result []int) {
	h, w := pathsum.height, pathsum.width

	last := pathsum.row(h - 1)
	minIdx := 0
	for j, v := range last {
		if v < last[minIdx] {
			minIdx = j
		}
	}
	result[h-1] = minIdx

	for i := h - 2; i >= 0; i-- {
		r := pathsum.row(i)
		prev := result[i+1]
		delta := 0
		switch {
		case w == 1:
		case prev == 0:
			delta = min2idx(r[prev], r[prev+1])
		case prev == w-1:
			delta = -min2idx(r[prev], r[prev-1])
		default:
			delta = min3idx(r[prev-1], r[prev], r[prev+1])
		}
		result[i] = prev + delta
	}
}

func min3(a, b, c int32) int32 {
	if b <= a && b <= c {
		return b
	}
	if a <= c {
		return a
	}
	return c
}

func min3idx(a, b, c int32) int {
	if b <= a && b <= c {
		return 0
	}
	if a <= c {
		return -1
	}
	return 1
}

func min2idx(a, b int32) int {
	if a <= b {
		return 0
	}
	return 1
}
