package fem

import (
	"fmt"

	"github.com/notargets/dolfin/utils"
)

// Vector is the coefficient storage contract. A distributed backend (e.g.
// a PETSc vector) plugs in behind this interface; indices are local dof
// indices.
type Vector interface {
	Size() int
	// Get gathers the values at the given dof indices.
	Get(I utils.Index) []float64
	// Set scatters vals to the given dof indices.
	Set(I utils.Index, vals []float64)
}

// DenseVector is the in-process Vector backend over contiguous storage.
type DenseVector struct {
	V utils.Vector
}

func NewDenseVector(n int) (v *DenseVector) {
	v = &DenseVector{V: utils.NewVector(n)}
	return
}

func (v *DenseVector) Size() int { return v.V.Len() }

func (v *DenseVector) Get(I utils.Index) (vals []float64) {
	vals = make([]float64, len(I))
	for i, g := range I {
		v.checkIndex(g)
		vals[i] = v.V.DataP[g]
	}
	return
}

func (v *DenseVector) Set(I utils.Index, vals []float64) {
	if len(I) != len(vals) {
		panic(fmt.Errorf("mismatched scatter lengths: %d indices, %d values", len(I), len(vals)))
	}
	for i, g := range I {
		v.checkIndex(g)
		v.V.DataP[g] = vals[i]
	}
}

func (v *DenseVector) checkIndex(g int) {
	if g < 0 || g >= v.V.Len() {
		panic(fmt.Errorf("dof index out of bounds: index = %d, size = %d", g, v.V.Len()))
	}
}

// Data exposes the backing storage for direct read/write access.
func (v *DenseVector) Data() []float64 { return v.V.DataP }
