package seam

// plane is a row-major pixel buffer whose logical width shrinks as seams
// are removed. Removing a seam shifts whichever side of it is shorter, so
// the left edge of the logical rows may move right inside the buffer.
type plane[T any] struct {
	data   []T
	stride int
	start  int
	width  int
	height int
}

func newPlane[T any](width, height int) *plane[T] {
	return &plane[T]{
		data:   make([]T, width*height),
		stride: width,
		width:  width,
		height: height,
	}
}

func (p *plane[T]) row(i int) []T {
	off := i*p.stride + p.start
	return p.data[off : off+p.width]
}

func (p *plane[T]) at(i, j int) T {
	return p.data[i*p.stride+p.start+j]
}

func (p *plane[T]) set(i, j int, v T) {
	p.data[i*p.stride+p.start+j] = v
}

// removeSeam deletes column seam[i] from row i, for every row.
func (p *plane[T]) removeSeam(seam []int) {
	if (seam[0]+seam[p.height-1])/2 > p.width/2 {
		for i := 0; i < p.height; i++ {
			r := p.row(i)
			copy(r[seam[i]:], r[seam[i]+1:])
		}
	} else {
		for i := 0; i < p.height; i++ {
			r := p.row(i)
			copy(r[1:seam[i]+1], r[:seam[i]])
		}
		p.start++
	}
	p.width--
}
