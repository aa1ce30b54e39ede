package mesh

import (
	"github.com/notargets/dolfin/utils"
)

// Locator answers point location queries against a mesh by linear scan
// over cells. It satisfies the point location contract used by the fem
// package: unlocated points map to cell index -1.
//
// For production-sized meshes a bounding box tree should sit behind the
// same contract; the scan is adequate for the mesh sizes in the test
// suite and the CLI.
type Locator struct {
	msh *Mesh
}

func NewLocator(msh *Mesh) (l *Locator) {
	l = &Locator{msh: msh}
	return
}

// Locate returns, per row of the Npts x 3 points matrix, the index of a
// cell containing the point, or -1 when no cell does.
func (l *Locator) Locate(points utils.Matrix) (cells []int) {
	var (
		npts, _ = points.Dims()
		x       = make([]float64, 3)
	)
	cells = make([]int, npts)
	for p := 0; p < npts; p++ {
		x[0], x[1], x[2] = points.At(p, 0), points.At(p, 1), points.At(p, 2)
		cells[p] = -1
		for k := 0; k < l.msh.NumCells(); k++ {
			if l.msh.Contains(k, x) {
				cells[p] = k
				break
			}
		}
	}
	return
}
