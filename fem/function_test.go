package fem

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/mesh"
	"github.com/notargets/dolfin/utils"
)

// referenceTriangleMesh builds a single-cell mesh whose physical cell is
// the reference triangle itself, so physical and reference coordinates
// coincide.
func referenceTriangleMesh() *mesh.Mesh {
	var (
		VX   = utils.NewVector(3, []float64{-1, 1, -1})
		VY   = utils.NewVector(3, []float64{-1, -1, 1})
		EToV = utils.NewMatrix(1, 3, []float64{0, 1, 2})
	)
	return mesh.NewMesh(element.Triangle, VX, VY, EToV)
}

func TestEvalScalar(t *testing.T) {
	var (
		msh = referenceTriangleMesh()
		V   = NewFunctionSpace(msh, element.NewLagrange(element.Triangle, 1))
		f   = NewFunction(V)
	)
	// A single vertex basis function takes value 1/3 at the centroid
	f.Vector().Set(utils.Index{0}, []float64{1})
	var (
		x     = utils.NewMatrix(1, 3, []float64{-1. / 3., -1. / 3., 0})
		cells = []int{0}
		u     = utils.NewMatrix(1, 1)
	)
	assert.NoError(t, f.Eval(x, cells, u))
	assert.True(t, near(1./3., u.At(0, 0), 0.00001))

	// Nodal interpolation of a linear field is exact everywhere
	assert.NoError(t, f.InterpolateFunc(func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 1)
		for p := 0; p < nr; p++ {
			vals.Set(p, 0, 2*points.At(p, 0)-points.At(p, 1)+1)
		}
		return vals
	}))
	probe := utils.NewMatrix(2, 3, []float64{
		-0.2, -0.5, 0,
		-1. / 3., -1. / 3., 0,
	})
	u2 := utils.NewMatrix(2, 1)
	assert.NoError(t, f.Eval(probe, []int{0, 0}, u2))
	assert.True(t, near(2*(-0.2)-(-0.5)+1, u2.At(0, 0), 0.00001))
	assert.True(t, near(2*(-1./3.)-(-1./3.)+1, u2.At(1, 0), 0.00001))
}

func TestEvalSkipsUnlocatedPoints(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(1, 1)
		V   = NewFunctionSpace(msh, element.NewLagrange(element.Triangle, 1))
		f   = NewFunction(V)
	)
	assert.NoError(t, f.InterpolateFunc(func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 1)
		for p := 0; p < nr; p++ {
			vals.Set(p, 0, points.At(p, 0))
		}
		return vals
	}))
	var (
		x = utils.NewMatrix(3, 3, []float64{
			0.25, 0.25, 0,
			5, 5, 0, // Unlocated
			0.75, 0.25, 0,
		})
		cells    = []int{0, -1, 0}
		sentinel = -999.
		u        = utils.NewMatrix(3, 1, []float64{sentinel, sentinel, sentinel})
	)
	assert.NoError(t, f.Eval(x, cells, u))
	assert.True(t, near(0.25, u.At(0, 0), 0.00001))
	assert.Equal(t, sentinel, u.At(1, 0)) // Row left bit-identical
	assert.True(t, near(0.75, u.At(2, 0), 0.00001))
}

func TestEvalDimensionChecks(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(1, 1)
		V   = NewFunctionSpace(msh, element.NewLagrange(element.Triangle, 1))
		f   = NewFunction(V)
		x   = utils.NewMatrix(1, 3)
	)
	// Wrong output shape
	err := f.Eval(x, []int{0}, utils.NewMatrix(2, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	// Cell count mismatch
	err = f.Eval(x, []int{0, 0}, utils.NewMatrix(1, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	// Points not Npts x 3
	err = f.Eval(utils.NewMatrix(1, 2), []int{0}, utils.NewMatrix(1, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	// Coefficient storage must match the space
	assert.Panics(t, func() { NewFunctionOnVector(V, NewDenseVector(V.Dofs.GlobalSize()+1)) })
}

func TestEvalReferenceAndPointValues(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(1, 1)
		V   = NewFunctionSpace(msh, element.NewDiscontinuousLagrange(element.Triangle, 0))
		f   = NewFunction(V)
	)
	// Piecewise constants 2 and 5 on the two cells
	f.Vector().Set(utils.Index{0, 1}, []float64{2, 5})

	X := utils.NewMatrix(1, 3, []float64{-1. / 3., -1. / 3., 0})
	u := utils.NewMatrix(2, 1)
	assert.NoError(t, f.EvalReference(X, u))
	assert.True(t, nearVec([]float64{2, 5}, u.DataP, 0.00001))

	// Vertex values keep the per-cell value at shared vertices
	pv := f.ComputePointValues()
	nr, nc := pv.Dims()
	assert.Equal(t, 6, nr)
	assert.Equal(t, 1, nc)
	assert.True(t, nearVec([]float64{2, 2, 2, 5, 5, 5}, pv.DataP, 0.00001))

	// Output shape is checked before any write
	assert.ErrorIs(t, f.EvalReference(X, utils.NewMatrix(3, 1)), ErrDimensionMismatch)
}

func TestInterpolateMatchingSpaces(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(2, 2)
		V   = NewFunctionSpace(msh, element.NewLagrange(element.Triangle, 2))
		f   = NewFunction(V)
		g   = NewFunction(V)
	)
	assert.NoError(t, f.InterpolateFunc(func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 1)
		for p := 0; p < nr; p++ {
			x, y := points.At(p, 0), points.At(p, 1)
			vals.Set(p, 0, x*x+y)
		}
		return vals
	}))
	assert.NoError(t, g.Interpolate(f))
	fd := f.Vector().(*DenseVector).Data()
	gd := g.Vector().(*DenseVector).Data()
	assert.True(t, nearVec(fd, gd, 0.0000001))

	// Self interpolation is the identity
	assert.NoError(t, f.Interpolate(f))
	assert.True(t, nearVec(gd, f.Vector().(*DenseVector).Data(), 0.0000001))
}

func TestInterpolateAcrossMeshes(t *testing.T) {
	var (
		coarse = mesh.NewUnitSquareMesh(1, 1)
		fine   = mesh.NewUnitSquareMesh(2, 2)
		Vc     = NewFunctionSpace(coarse, element.NewLagrange(element.Triangle, 1))
		Vf     = NewFunctionSpace(fine, element.NewLagrange(element.Triangle, 1))
		fc     = NewFunction(Vc)
		ff     = NewFunction(Vf)
	)
	linear := func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 1)
		for p := 0; p < nr; p++ {
			vals.Set(p, 0, 3*points.At(p, 0)+points.At(p, 1)-0.5)
		}
		return vals
	}
	assert.NoError(t, fc.InterpolateFunc(linear))
	// Cross-mesh interpolation of a linear field reproduces it exactly
	assert.NoError(t, ff.Interpolate(fc))

	want := NewFunction(Vf)
	assert.NoError(t, want.InterpolateFunc(linear))
	assert.True(t, nearVec(
		want.Vector().(*DenseVector).Data(),
		ff.Vector().(*DenseVector).Data(), 0.0000001))

	// Value size mismatch is rejected up front
	Vv := NewFunctionSpace(fine, element.NewVectorElement(element.NewLagrange(element.Triangle, 1), 2))
	err := NewFunction(Vv).InterpolateLocated(fc, mesh.NewLocator(coarse))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestVectorFunctionSubCollapse(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(2, 2)
		el  = element.NewVectorElement(element.NewLagrange(element.Triangle, 1), 2)
		V   = NewFunctionSpace(msh, el)
		f   = NewFunction(V)
	)
	assert.Equal(t, 2, V.NumSubSpaces())
	assert.Equal(t, 2, f.ValueSize())
	assert.NoError(t, f.InterpolateFunc(func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 2)
		for p := 0; p < nr; p++ {
			vals.Set(p, 0, points.At(p, 0))
			vals.Set(p, 1, points.At(p, 1))
		}
		return vals
	}))
	// Component views alias parent storage
	fx := f.Sub(0)
	assert.True(t, fx.Space().IsView())
	assert.Equal(t, 1, fx.ValueSize())
	x := utils.NewMatrix(1, 3, []float64{0.3, 0.7, 0})
	u := utils.NewMatrix(1, 1)
	cells := mesh.NewLocator(msh).Locate(x)
	assert.NoError(t, fx.Eval(x, cells, u))
	assert.True(t, near(0.3, u.At(0, 0), 0.00001))

	// Writing through the view is visible in the parent
	full := utils.NewMatrix(1, 2)
	assert.NoError(t, f.Eval(x, cells, full))
	assert.True(t, near(0.7, full.At(0, 1), 0.00001))

	// Collapse detaches storage
	cx := fx.Collapse()
	assert.False(t, cx.Space().IsView())
	assert.Equal(t, 9, cx.Space().Dofs.GlobalSize())
	uc := utils.NewMatrix(1, 1)
	assert.NoError(t, cx.Eval(x, cells, uc))
	assert.True(t, near(0.3, uc.At(0, 0), 0.00001))
	// Mutating the parent afterwards does not touch the collapsed copy
	f.Vector().Set(utils.NewRange(0, f.Vector().Size()-1),
		make([]float64, f.Vector().Size()))
	assert.NoError(t, cx.Eval(x, cells, uc))
	assert.True(t, near(0.3, uc.At(0, 0), 0.00001))
}

func TestMixedFunctionSubCollapse(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(2, 2)
		s0  = element.NewLagrange(element.Triangle, 1)
		s1  = element.NewLagrange(element.Triangle, 1)
		V   = NewFunctionSpace(msh, element.NewMixedElement(s0, s1))
		f   = NewFunction(V)
	)
	assert.Equal(t, 2, V.NumSubSpaces())
	assert.NoError(t, f.InterpolateFunc(func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 2)
		for p := 0; p < nr; p++ {
			x, y := points.At(p, 0), points.At(p, 1)
			vals.Set(p, 0, x+y)
			vals.Set(p, 1, x-y)
		}
		return vals
	}))
	var (
		x     = utils.NewMatrix(1, 3, []float64{0.4, 0.1, 0})
		cells = mesh.NewLocator(msh).Locate(x)
		u     = utils.NewMatrix(1, 1)
	)
	f1 := f.Sub(1).Collapse()
	assert.NoError(t, f1.Eval(x, cells, u))
	assert.True(t, near(0.4-0.1, u.At(0, 0), 0.00001))

	f0 := f.Sub(0)
	assert.NoError(t, f0.Eval(x, cells, u))
	assert.True(t, near(0.4+0.1, u.At(0, 0), 0.00001))
	assert.Equal(t, fmt.Sprintf("%s-0", f.Name), f0.Name)
	assert.NotEqual(t, f.ID(), f0.ID())
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			fmt.Printf("Diff = %v, Left[%d] = %v, Right[%d] = %v\n", math.Abs(val-b[i]), i, val, i, b[i])
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
