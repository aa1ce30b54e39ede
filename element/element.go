package element

import (
	"fmt"

	"github.com/notargets/dolfin/utils"
)

type CellType uint8

const (
	Interval CellType = iota
	Triangle
)

func (ct CellType) String() string {
	switch ct {
	case Interval:
		return "interval"
	case Triangle:
		return "triangle"
	}
	return "unknown"
}

func (ct CellType) Dim() int {
	switch ct {
	case Interval:
		return 1
	case Triangle:
		return 2
	}
	return 0
}

func (ct CellType) NumVertices() int { return ct.Dim() + 1 }

// VertexCoordinates returns the reference cell vertices as an Nv x 3
// matrix. The reference interval is [-1,1], the reference triangle is the
// bi-unit simplex with vertices (-1,-1), (1,-1), (-1,1).
func (ct CellType) VertexCoordinates() (VC utils.Matrix) {
	switch ct {
	case Interval:
		VC = utils.NewMatrix(2, 3, []float64{
			-1, 0, 0,
			1, 0, 0,
		})
	case Triangle:
		VC = utils.NewMatrix(3, 3, []float64{
			-1, -1, 0,
			1, -1, 0,
			-1, 1, 0,
		})
	}
	return
}

type Family string

const (
	Lagrange              = Family("Lagrange")
	DiscontinuousLagrange = Family("Discontinuous Lagrange")
	MixedFamily           = Family("Mixed")
)

// IsContinuous reports whether dofs of this family are shared between
// cells that touch geometrically.
func (f Family) IsContinuous() bool { return f == Lagrange }

// Element describes a reference-cell basis: its value shape, its dofs and
// where they live on the reference cell, and a tabulation of the basis at
// arbitrary reference coordinates.
type Element interface {
	CellType() CellType
	Family() Family
	Degree() int
	// NumDofs is the dof count per cell, including value components.
	NumDofs() int
	ValueShape() []int
	ValueSize() int
	// DofPoints returns the NumDofs x 3 reference coordinates at which
	// each dof's value is defined (nodal points, duplicated across
	// components for non-scalar elements).
	DofPoints() utils.Matrix
	// DofComponents returns, per dof, the value component it controls.
	DofComponents() utils.Index
	// TabulateDof evaluates the full basis at the Npts x 3 reference
	// coordinates X, returning a (Npts*ValueSize) x NumDofs matrix with
	// value components fastest-varying over rows.
	TabulateDof(X utils.Matrix) utils.Matrix
	// SubElements returns the constituent elements of a product element,
	// or nil for simple elements.
	SubElements() []Element
}

// ValueRank returns the tensor rank of the element's values.
func ValueRank(e Element) int { return len(e.ValueShape()) }

// Nodal is a scalar nodal (Lagrange-type) element on a simplex reference
// cell. The basis is constructed from the orthonormal simplex basis via
// the inverse Vandermonde matrix, the same device the reference-element
// interpolation matrices use: B(X) = P(X) * Vinv.
type Nodal struct {
	family Family
	cell   CellType
	N, Np  int
	R, S   utils.Vector
	V      utils.Matrix
	Vinv   utils.Matrix
}

// NewLagrange creates a continuous Lagrange element of the given degree
// (>= 1) on the given reference cell.
func NewLagrange(cell CellType, degree int) (el *Nodal) {
	if degree < 1 {
		panic(fmt.Errorf("continuous Lagrange requires degree >= 1, have %d", degree))
	}
	el = newNodal(Lagrange, cell, degree)
	return
}

// NewDiscontinuousLagrange creates a discontinuous Lagrange element of the
// given degree (>= 0) on the given reference cell.
func NewDiscontinuousLagrange(cell CellType, degree int) (el *Nodal) {
	if degree < 0 {
		panic(fmt.Errorf("polynomial degree must be >= 0, have %d", degree))
	}
	el = newNodal(DiscontinuousLagrange, cell, degree)
	return
}

func newNodal(family Family, cell CellType, degree int) (el *Nodal) {
	el = &Nodal{
		family: family,
		cell:   cell,
		N:      degree,
	}
	switch cell {
	case Interval:
		el.Np = degree + 1
		if degree == 0 {
			el.R = utils.NewVector(1) // cell midpoint
			el.S = utils.NewVector(1)
			return
		}
		el.R = JacobiGL(0, 0, degree)
		el.S = utils.NewVector(el.Np)
		el.V = Vandermonde1D(degree, el.R)
	case Triangle:
		el.Np = (degree + 1) * (degree + 2) / 2
		if degree == 0 {
			el.R = utils.NewVector(1).Set(-1. / 3.) // centroid
			el.S = utils.NewVector(1).Set(-1. / 3.)
			return
		}
		el.R, el.S = XYtoRS(Nodes2D(degree))
		el.V = Vandermonde2D(degree, el.R, el.S)
	default:
		panic(fmt.Errorf("unsupported cell type %v", cell))
	}
	el.Vinv = el.V.InverseWithCheck()
	el.V.SetReadOnly("V")
	el.Vinv.SetReadOnly("Vinv")
	return
}

func (el *Nodal) CellType() CellType { return el.cell }
func (el *Nodal) Family() Family     { return el.family }
func (el *Nodal) Degree() int        { return el.N }
func (el *Nodal) NumDofs() int       { return el.Np }
func (el *Nodal) ValueShape() []int  { return nil }
func (el *Nodal) ValueSize() int     { return 1 }

func (el *Nodal) DofPoints() (X utils.Matrix) {
	X = utils.NewMatrix(el.Np, 3)
	for i := 0; i < el.Np; i++ {
		X.Set(i, 0, el.R.AtVec(i))
		X.Set(i, 1, el.S.AtVec(i))
	}
	return
}

func (el *Nodal) DofComponents() (C utils.Index) {
	C = utils.NewIndex(el.Np)
	return
}

func (el *Nodal) SubElements() []Element { return nil }

// Tabulate evaluates the Np basis functions at the Npts x 3 reference
// coordinates X, returning an Npts x Np matrix.
func (el *Nodal) Tabulate(X utils.Matrix) (B utils.Matrix) {
	var (
		npts, _ = X.Dims()
	)
	if el.N == 0 {
		B = utils.NewMatrix(npts, 1, utils.ConstArray(1, npts))
		return
	}
	R := X.Col(0)
	switch el.cell {
	case Interval:
		B = Vandermonde1D(el.N, R).Mul(el.Vinv)
	case Triangle:
		B = Vandermonde2D(el.N, R, X.Col(1)).Mul(el.Vinv)
	}
	return
}

// TabulateGradients evaluates the reference-coordinate derivatives of the
// basis at X, one Npts x Np matrix per reference direction. The second
// return is zero for 1D cells.
func (el *Nodal) TabulateGradients(X utils.Matrix) (Dr, Ds utils.Matrix) {
	var (
		npts, _ = X.Dims()
	)
	if el.N == 0 {
		Dr = utils.NewMatrix(npts, 1)
		Ds = utils.NewMatrix(npts, 1)
		return
	}
	R := X.Col(0)
	switch el.cell {
	case Interval:
		Dr = GradVandermonde1D(el.N, R).Mul(el.Vinv)
		Ds = utils.NewMatrix(npts, el.Np)
	case Triangle:
		Vr, Vs := GradVandermonde2D(el.N, R, X.Col(1))
		Dr, Ds = Vr.Mul(el.Vinv), Vs.Mul(el.Vinv)
	}
	return
}

func (el *Nodal) TabulateDof(X utils.Matrix) utils.Matrix {
	return el.Tabulate(X)
}
