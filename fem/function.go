package fem

import (
	"fmt"

	"github.com/notargets/dolfin/mesh"
	"github.com/notargets/dolfin/utils"
)

// PointLocator is the point location contract consumed by interpolation:
// given Npts x 3 physical coordinates, return per point the index of an
// owning cell, or -1 for points outside the mesh.
type PointLocator interface {
	Locate(points utils.Matrix) []int
}

// Function is a finite element field: a FunctionSpace paired with a
// coefficient Vector,
//
//	u_h = sum_i U_i phi_i
//
// where phi_i is the basis of the space and U the expansion coefficients.
// Functions are not copyable; duplication goes through Interpolate or
// Collapse. A Function obtained through Sub aliases its parent's
// coefficient storage.
type Function struct {
	Name string

	space *FunctionSpace
	vec   Vector
	id    uint64
}

// NewFunction creates a zero Function on the given space with freshly
// allocated coefficient storage.
func NewFunction(V *FunctionSpace) (f *Function) {
	f = NewFunctionOnVector(V, NewDenseVector(V.Dofs.GlobalSize()))
	return
}

// NewFunctionOnVector creates a Function over existing coefficient
// storage. The vector length must match the space's global dof count.
func NewFunctionOnVector(V *FunctionSpace, x Vector) (f *Function) {
	if x.Size() != V.Dofs.GlobalSize() {
		panic(fmt.Errorf("coefficient vector size %d does not match global dof count %d",
			x.Size(), V.Dofs.GlobalSize()))
	}
	f = &Function{
		Name:  "u",
		space: V,
		vec:   x,
		id:    nextID(),
	}
	return
}

func (f *Function) ID() uint64            { return f.id }
func (f *Function) Space() *FunctionSpace { return f.space }
func (f *Function) Vector() Vector        { return f.vec }

func (f *Function) ValueSize() int           { return f.space.ValueSize() }
func (f *Function) ValueRank() int           { return f.space.ValueRank() }
func (f *Function) ValueShape() []int        { return f.space.ValueShape() }
func (f *Function) ValueDimension(i int) int { return f.space.ValueDimension(i) }

// Sub extracts sub-function i as a view aliasing this Function's
// coefficient storage. Use Collapse on the result for independent storage.
func (f *Function) Sub(i int) (s *Function) {
	s = &Function{
		Name:  fmt.Sprintf("%s-%d", f.Name, i),
		space: f.space.Sub(i),
		vec:   f.vec,
		id:    nextID(),
	}
	return
}

// Collapse copies the aliased dof values of a sub-function view into a
// standalone Function on a collapsed space.
func (f *Function) Collapse() (c *Function) {
	var (
		C, toParent = f.space.Collapse()
	)
	c = NewFunction(C)
	c.Name = f.Name
	vals := f.vec.Get(toParent)
	c.vec.Set(utils.NewRange(0, len(toParent)-1), vals)
	return
}

// Eval evaluates the Function at physical points. x has shape Npts x 3;
// cells[i] is the index of a cell containing x row i, with negative
// indices marking unlocated points whose output rows are left untouched.
// u must be pre-sized to exactly Npts x ValueSize.
//
// Points are batched per cell: each cell's coefficients are gathered once
// and reused for all of its points.
func (f *Function) Eval(x utils.Matrix, cells []int, u utils.Matrix) (err error) {
	var (
		npts, nxc = x.Dims()
		nr, nc    = u.Dims()
		vs        = f.ValueSize()
	)
	if nxc != 3 {
		return fmt.Errorf("points must have shape Npts x 3, have %d x %d: %w",
			npts, nxc, ErrDimensionMismatch)
	}
	if len(cells) != npts {
		return fmt.Errorf("have %d points but %d cell indices: %w",
			npts, len(cells), ErrDimensionMismatch)
	}
	if nr != npts || nc != vs {
		return fmt.Errorf("output must have shape %d x %d, have %d x %d: %w",
			npts, vs, nr, nc, ErrDimensionMismatch)
	}
	var (
		el  = f.space.El
		msh = f.space.Msh
		pt  = make([]float64, 3)
	)
	for _, batch := range batchByCell(cells) {
		var (
			dofs   = f.space.Dofs.CellDofs(batch.cell)
			coeffs = f.vec.Get(dofs)
			refX   = utils.NewMatrix(len(batch.points), 3)
		)
		for pi, p := range batch.points {
			pt[0], pt[1], pt[2] = x.At(p, 0), x.At(p, 1), x.At(p, 2)
			refX.SetRow(pi, msh.RSFromX(batch.cell, pt))
		}
		B := el.TabulateDof(refX)
		for pi, p := range batch.points {
			for c := 0; c < vs; c++ {
				var val float64
				for j, cj := range coeffs {
					val += B.At(pi*vs+c, j) * cj
				}
				u.Set(p, c, val)
			}
		}
	}
	return
}

// EvalReference evaluates the Function at the same reference coordinates
// X (Npts x 3) on every cell. u must be pre-sized to exactly
// (NumCells*Npts) x ValueSize; output rows are ordered by cell, all points
// of cell 0 first.
//
// Only affine (straight-sided) cell geometry is supported, which holds
// for every mesh this package constructs.
func (f *Function) EvalReference(X utils.Matrix, u utils.Matrix) (err error) {
	var (
		npts, _ = X.Dims()
		nr, nc  = u.Dims()
		vs      = f.ValueSize()
		K       = f.space.Msh.NumCells()
	)
	if nr != K*npts || nc != vs {
		return fmt.Errorf("output must have shape %d x %d, have %d x %d: %w",
			K*npts, vs, nr, nc, ErrDimensionMismatch)
	}
	// One tabulation serves all cells
	B := f.space.El.TabulateDof(X)
	for k := 0; k < K; k++ {
		var (
			dofs   = f.space.Dofs.CellDofs(k)
			coeffs = f.vec.Get(dofs)
		)
		for p := 0; p < npts; p++ {
			for c := 0; c < vs; c++ {
				var val float64
				for j, cj := range coeffs {
					val += B.At(p*vs+c, j) * cj
				}
				u.Set(k*npts+p, c, val)
			}
		}
	}
	return
}

// ComputePointValues evaluates the Function at every geometric vertex of
// the mesh, cell by cell. Vertices shared between cells appear once per
// incident cell, so discontinuous fields keep their per-cell values at
// shared vertices. Rows are ordered by cell, vertices in cell-local
// order.
func (f *Function) ComputePointValues() (u utils.Matrix) {
	var (
		X       = f.space.Msh.Cell.VertexCoordinates()
		npts, _ = X.Dims()
		K       = f.space.Msh.NumCells()
	)
	u = utils.NewMatrix(K*npts, f.ValueSize())
	if err := f.EvalReference(X, u); err != nil {
		panic(err)
	}
	return
}

// Interpolate overwrites this Function's coefficients with an
// interpolation of v. Matching spaces copy dof values directly; otherwise
// v is evaluated at this space's interpolation points, locating them in
// v's mesh (which may be a different mesh).
func (f *Function) Interpolate(v *Function) (err error) {
	if compatible(f.space, v.space) {
		for k := 0; k < f.space.Msh.NumCells(); k++ {
			f.vec.Set(f.space.Dofs.CellDofs(k), v.vec.Get(v.space.Dofs.CellDofs(k)))
		}
		return
	}
	return f.InterpolateLocated(v, mesh.NewLocator(v.space.Msh))
}

// InterpolateLocated interpolates v using the supplied point location
// service to find v's cells owning this space's interpolation points.
// Points not located are skipped, leaving their dof values unchanged.
func (f *Function) InterpolateLocated(v *Function, loc PointLocator) (err error) {
	var (
		vs = f.ValueSize()
	)
	if v.ValueSize() != vs {
		return fmt.Errorf("source value size %d does not match target value size %d: %w",
			v.ValueSize(), vs, ErrDimensionMismatch)
	}
	var (
		X, comps = f.space.DofPoints()
		nr, _    = X.Dims()
		cells    = loc.Locate(X)
		vals     = utils.NewMatrix(nr, vs)
	)
	if err = v.Eval(X, cells, vals); err != nil {
		return
	}
	// Scatter cell by cell so view spaces touch only their own dofs
	one := utils.NewIndex(1)
	val := make([]float64, 1)
	for k := 0; k < f.space.Msh.NumCells(); k++ {
		for _, g := range f.space.Dofs.CellDofs(k) {
			if cells[g] < 0 {
				continue
			}
			one[0] = g
			val[0] = vals.At(g, comps[g])
			f.vec.Set(one, val)
		}
	}
	return
}

// InterpolateFunc overwrites this Function's coefficients by evaluating
// the callable at the space's full set of interpolation points. fn
// receives Npts x 3 physical coordinates and must return Npts x ValueSize
// values.
func (f *Function) InterpolateFunc(fn func(points utils.Matrix) utils.Matrix) (err error) {
	var (
		X, comps = f.space.DofPoints()
		nr, _    = X.Dims()
		vs       = f.ValueSize()
	)
	vals := fn(X)
	vr, vc := vals.Dims()
	if vr != nr || vc != vs {
		return fmt.Errorf("callable returned %d x %d values, want %d x %d: %w",
			vr, vc, nr, vs, ErrDimensionMismatch)
	}
	one := utils.NewIndex(1)
	val := make([]float64, 1)
	for k := 0; k < f.space.Msh.NumCells(); k++ {
		for _, g := range f.space.Dofs.CellDofs(k) {
			one[0] = g
			val[0] = vals.At(g, comps[g])
			f.vec.Set(one, val)
		}
	}
	return
}
