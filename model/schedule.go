package model

// SeamCounts is the list of seam counts benchmarked for an image of the
// given width: 1, 1+step, ... while below width/2, with
// step = max(width/divisions, 1).
func SeamCounts(width, divisions int) []int {
	if divisions < 1 {
		divisions = 1
	}
	step := max(width/divisions, 1)
	var counts []int
	for k := 1; k < width/2; k += step {
		counts = append(counts, k)
	}
	return counts
}
