package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/mesh"
	"github.com/notargets/dolfin/utils"
)

func TestPointEvaluationOperator(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(2, 2)
		V   = NewFunctionSpace(msh, element.NewLagrange(element.Triangle, 2))
		f   = NewFunction(V)
	)
	assert.NoError(t, f.InterpolateFunc(func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 1)
		for p := 0; p < nr; p++ {
			x, y := points.At(p, 0), points.At(p, 1)
			vals.Set(p, 0, x+2*y)
		}
		return vals
	}))
	// Centroid plus an off-center point
	X := utils.NewMatrix(2, 3, []float64{
		-1. / 3., -1. / 3., 0,
		-0.5, -0.25, 0,
	})
	op := NewPointEvaluationOperator(V, X)
	assert.Equal(t, 2, op.Npts)

	// The assembled operator reproduces direct evaluation
	var (
		K    = msh.NumCells()
		want = utils.NewMatrix(K*2, 1)
	)
	assert.NoError(t, f.EvalReference(X, want))
	u := op.Apply(f.Vector())
	assert.True(t, nearVec(want.DataP, u.DataP, 0.0000001))

	// Width mismatch is a programming error
	assert.Panics(t, func() { op.Apply(NewDenseVector(3)) })
}

func TestPointEvaluationOperatorVector(t *testing.T) {
	var (
		msh = mesh.NewUnitSquareMesh(1, 1)
		el  = element.NewVectorElement(element.NewLagrange(element.Triangle, 1), 2)
		V   = NewFunctionSpace(msh, el)
		f   = NewFunction(V)
	)
	assert.NoError(t, f.InterpolateFunc(func(points utils.Matrix) utils.Matrix {
		nr, _ := points.Dims()
		vals := utils.NewMatrix(nr, 2)
		for p := 0; p < nr; p++ {
			vals.Set(p, 0, points.At(p, 0))
			vals.Set(p, 1, points.At(p, 1))
		}
		return vals
	}))
	X := utils.NewMatrix(1, 3, []float64{-1. / 3., -1. / 3., 0})
	op := NewPointEvaluationOperator(V, X)
	assert.Equal(t, 2, op.ValueSize)

	u := op.Apply(f.Vector())
	nr, nc := u.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 2, nc)
	want := utils.NewMatrix(2, 2)
	assert.NoError(t, f.EvalReference(X, want))
	assert.True(t, nearVec(want.DataP, u.DataP, 0.0000001))
}
