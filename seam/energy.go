package seam

// partialBand is the number of columns around a removed pixel whose
// energy is recomputed; the left edge sits partialLead columns before it.
const (
	partialBand = 8
	partialLead = 4
)

// computeEnergy fills out with the Sobel gradient magnitude of gray.
func computeEnergy(gray *plane[uint8], out *plane[int32]) {
	for i := 0; i < gray.height; i++ {
		energyRow(gray, out, i, 0, gray.width)
	}
}

// computeEnergyPartial refreshes the energy around the seam that was just
// removed from both gray and out.
func computeEnergyPartial(gray *plane[uint8], out *plane[int32], removed []int) {
	for i := 0; i < gray.height; i++ {
		j0 := max(removed[i]-partialLead, 0)
		j1 := min(removed[i]-partialLead+partialBand, gray.width)
		if j0 < j1 {
			energyRow(gray, out, i, j0, j1)
		}
	}
}

// energyRow computes columns [j0, j1) of row i.
func energyRow(gray *plane[uint8], out *plane[int32], i, j0, j1 int) {
	h, w := gray.height, gray.width
	if i == 0 || i == h-1 || w < 3 {
		for j := j0; j < j1; j++ {
			out.set(i, j, sobelClamped(gray, i, j))
		}
		return
	}

	upper, mid, lower := gray.row(i-1), gray.row(i), gray.row(i+1)
	res := out.row(i)
	j := j0
	if j == 0 {
		res[0] = sobelClamped(gray, i, 0)
		j++
	}
	for ; j < j1 && j < w-1; j++ {
		p00, p01, p02 := int32(upper[j-1]), int32(upper[j]), int32(upper[j+1])
		p10, p12 := int32(mid[j-1]), int32(mid[j+1])
		p20, p21, p22 := int32(lower[j-1]), int32(lower[j]), int32(lower[j+1])
		res[j] = sobel(p00, p01, p02, p10, p12, p20, p21, p22)
	}
	if j < j1 {
		res[j] = sobelClamped(gray, i, j)
	}
}

// sobelClamped evaluates the kernel with out-of-range taps replaced by the
// nearest edge pixel.
func sobelClamped(gray *plane[uint8], i, j int) int32 {
	px := func(r, c int) int32 {
		r = min(max(r, 0), gray.height-1)
		c = min(max(c, 0), gray.width-1)
		return int32(gray.at(r, c))
	}
	return sobel(
		px(i-1, j-1), px(i-1, j), px(i-1, j+1),
		px(i, j-1), px(i, j+1),
		px(i+1, j-1), px(i+1, j), px(i+1, j+1),
	)
}

// sobel combines the x and y kernels:
//
//	x = (21-01)*2 + (22-00) + (20-02)
//	y = (12-10)*2 + (22-00) + (02-20)
//
// and returns |x|/16 + |y|/16.
func sobel(p00, p01, p02, p10, p12, p20, p21, p22 int32) int32 {
	corners := p22 - p00
	x := (p21-p01)*2 + corners + (p20 - p02)
	y := (p12-p10)*2 + corners + (p02 - p20)
	return abs32(x)>>4 + abs32(y)>>4
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
