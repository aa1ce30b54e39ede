package fem

import (
	"fmt"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/mesh"
	"github.com/notargets/dolfin/utils"
)

// FunctionSpace binds a mesh, a finite element and a dof map. It is
// immutable once constructed and shared between any number of Functions.
//
// A FunctionSpace obtained through Sub is a view: its dof map indexes into
// the parent's coefficient layout. Collapse is the only path from a view
// back to a standalone space.
type FunctionSpace struct {
	Msh  *mesh.Mesh
	El   element.Element
	Dofs *DofMap
	view bool
}

func NewFunctionSpace(msh *mesh.Mesh, el element.Element) (V *FunctionSpace) {
	if msh.Cell != el.CellType() {
		panic(fmt.Errorf("mesh cell type %v does not match element cell type %v",
			msh.Cell, el.CellType()))
	}
	V = &FunctionSpace{
		Msh:  msh,
		El:   el,
		Dofs: NewDofMap(msh, el),
	}
	return
}

func (V *FunctionSpace) IsView() bool { return V.view }

func (V *FunctionSpace) ValueSize() int    { return V.El.ValueSize() }
func (V *FunctionSpace) ValueRank() int    { return element.ValueRank(V.El) }
func (V *FunctionSpace) ValueShape() []int { return V.El.ValueShape() }

func (V *FunctionSpace) ValueDimension(i int) int {
	shape := V.El.ValueShape()
	if i < 0 || i >= len(shape) {
		return 1
	}
	return shape[i]
}

// NumSubSpaces returns the number of extractable sub-spaces.
func (V *FunctionSpace) NumSubSpaces() int { return len(V.El.SubElements()) }

// Sub extracts sub-space i as a view sharing the parent's dof numbering.
func (V *FunctionSpace) Sub(i int) (S *FunctionSpace) {
	subs := V.El.SubElements()
	if i < 0 || i >= len(subs) {
		panic(fmt.Errorf("sub-space index out of bounds: index = %d, sub-spaces = %d",
			i, len(subs)))
	}
	var local utils.Index
	switch e := V.El.(type) {
	case *element.MixedElement:
		off := e.DofOffset(i)
		local = utils.NewRange(off, off+subs[i].NumDofs()-1)
	case *element.VectorElement:
		local = utils.NewIndex(e.Base.NumDofs())
		for j := range local {
			local[j] = j*e.NumComponents + i
		}
	default:
		panic(fmt.Errorf("element type %T has no sub-spaces", V.El))
	}
	S = &FunctionSpace{
		Msh:  V.Msh,
		El:   subs[i],
		Dofs: V.Dofs.View(local),
		view: true,
	}
	return
}

// Collapse builds a standalone space with its own contiguous dof
// numbering, plus the map from collapsed global dofs to the parent global
// dofs this view aliases.
func (V *FunctionSpace) Collapse() (C *FunctionSpace, toParent utils.Index) {
	C = NewFunctionSpace(V.Msh, V.El)
	toParent = utils.NewIndex(C.Dofs.GlobalSize())
	for k := 0; k < V.Msh.NumCells(); k++ {
		var (
			newDofs = C.Dofs.CellDofs(k)
			oldDofs = V.Dofs.CellDofs(k)
		)
		for i, g := range newDofs {
			toParent[g] = oldDofs[i]
		}
	}
	return
}

// DofPoints returns, per global dof covered by this space, the physical
// coordinates of its interpolation point (rows indexed by global dof) and
// the value component it controls.
func (V *FunctionSpace) DofPoints() (X utils.Matrix, comps utils.Index) {
	var (
		refX  = V.El.DofPoints()
		ecomp = V.El.DofComponents()
	)
	X = utils.NewMatrix(V.Dofs.GlobalSize(), 3)
	comps = utils.NewIndex(V.Dofs.GlobalSize())
	for k := 0; k < V.Msh.NumCells(); k++ {
		var (
			P    = V.Msh.XFromRS(k, refX)
			dofs = V.Dofs.CellDofs(k)
		)
		for i, g := range dofs {
			X.SetRow(g, P.Row(i).DataP)
			comps[g] = ecomp[i]
		}
	}
	return
}

// compatible reports whether dof values can be copied directly between
// the two spaces.
func compatible(V, W *FunctionSpace) bool {
	return V.Msh == W.Msh &&
		V.El.Family() == W.El.Family() &&
		V.El.CellType() == W.El.CellType() &&
		V.El.Degree() == W.El.Degree() &&
		V.El.ValueSize() == W.El.ValueSize() &&
		V.El.NumDofs() == W.El.NumDofs()
}
