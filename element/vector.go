package element

import (
	"fmt"

	"github.com/notargets/dolfin/utils"
)

// VectorElement is a blocked element: NumComponents copies of a scalar
// base element sharing one set of nodal points. Dofs are ordered with the
// value component fastest-varying, matching the codegen buffer layout.
type VectorElement struct {
	Base          *Nodal
	NumComponents int
}

func NewVectorElement(base *Nodal, numComponents int) (el *VectorElement) {
	if numComponents < 1 {
		panic(fmt.Errorf("vector element requires at least 1 component, have %d", numComponents))
	}
	el = &VectorElement{
		Base:          base,
		NumComponents: numComponents,
	}
	return
}

func (el *VectorElement) CellType() CellType { return el.Base.cell }
func (el *VectorElement) Family() Family     { return el.Base.family }
func (el *VectorElement) Degree() int        { return el.Base.N }
func (el *VectorElement) NumDofs() int       { return el.Base.Np * el.NumComponents }
func (el *VectorElement) ValueShape() []int  { return []int{el.NumComponents} }
func (el *VectorElement) ValueSize() int     { return el.NumComponents }

func (el *VectorElement) DofPoints() (X utils.Matrix) {
	var (
		base = el.Base.DofPoints()
		nc   = el.NumComponents
	)
	X = utils.NewMatrix(el.NumDofs(), 3)
	for i := 0; i < el.Base.Np; i++ {
		for c := 0; c < nc; c++ {
			X.SetRow(i*nc+c, base.Row(i).DataP)
		}
	}
	return
}

func (el *VectorElement) DofComponents() (C utils.Index) {
	var (
		nc = el.NumComponents
	)
	C = utils.NewIndex(el.NumDofs())
	for i := 0; i < el.Base.Np; i++ {
		for c := 0; c < nc; c++ {
			C[i*nc+c] = c
		}
	}
	return
}

func (el *VectorElement) SubElements() (subs []Element) {
	subs = make([]Element, el.NumComponents)
	for c := range subs {
		subs[c] = el.Base
	}
	return
}

func (el *VectorElement) TabulateDof(X utils.Matrix) (B utils.Matrix) {
	var (
		npts, _ = X.Dims()
		nc      = el.NumComponents
		Np      = el.Base.Np
		scalar  = el.Base.Tabulate(X)
	)
	B = utils.NewMatrix(npts*nc, el.NumDofs())
	for p := 0; p < npts; p++ {
		for c := 0; c < nc; c++ {
			for i := 0; i < Np; i++ {
				B.Set(p*nc+c, i*nc+c, scalar.At(p, i))
			}
		}
	}
	return
}
