package mesh

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/utils"
)

func TestUnitMeshes(t *testing.T) {
	{
		msh := NewUnitIntervalMesh(4)
		assert.Equal(t, 4, msh.NumCells())
		assert.Equal(t, 5, msh.NumVertices())
		assert.True(t, near(0, msh.VX.AtVec(0)))
		assert.True(t, near(1, msh.VX.AtVec(4)))
	}
	{
		msh := NewUnitSquareMesh(2, 2)
		assert.Equal(t, 8, msh.NumCells())
		assert.Equal(t, 9, msh.NumVertices())
		// Total area covers the unit square
		var area float64
		for k := 0; k < msh.K; k++ {
			VC := msh.CellCoordinates(k)
			var (
				ux, uy = VC.At(1, 0) - VC.At(0, 0), VC.At(1, 1) - VC.At(0, 1)
				vx, vy = VC.At(2, 0) - VC.At(0, 0), VC.At(2, 1) - VC.At(0, 1)
			)
			det := ux*vy - uy*vx
			assert.True(t, det > 0, fmt.Sprintf("cell %d not counterclockwise", k))
			area += 0.5 * det
		}
		assert.True(t, near(1, area, 0.0000001))
	}
}

func TestAffineMap(t *testing.T) {
	var (
		msh = NewUnitSquareMesh(3, 3)
	)
	// Vertex images: reference vertices map onto the cell's vertices
	RV := element.Triangle.VertexCoordinates()
	for k := 0; k < msh.K; k++ {
		VC := msh.CellCoordinates(k)
		P := msh.XFromRS(k, RV)
		for i := 0; i < 3; i++ {
			assert.True(t, near(VC.At(i, 0), P.At(i, 0), 0.0000001))
			assert.True(t, near(VC.At(i, 1), P.At(i, 1), 0.0000001))
		}
	}
	// Roundtrip through the pullback
	X := utils.NewMatrix(3, 3, []float64{
		-1. / 3., -1. / 3., 0,
		-0.8, -0.1, 0,
		0.2, -0.9, 0,
	})
	for k := 0; k < msh.K; k++ {
		P := msh.XFromRS(k, X)
		for p := 0; p < 3; p++ {
			rs := msh.RSFromX(k, []float64{P.At(p, 0), P.At(p, 1), 0})
			assert.True(t, near(X.At(p, 0), rs[0], 0.0000001))
			assert.True(t, near(X.At(p, 1), rs[1], 0.0000001))
		}
	}
}

func TestContains(t *testing.T) {
	var (
		msh = NewUnitSquareMesh(1, 1)
	)
	// Cell 0 is the lower triangle (below the diagonal), cell 1 the upper
	assert.True(t, msh.Contains(0, []float64{0.6, 0.2, 0}))
	assert.False(t, msh.Contains(1, []float64{0.6, 0.2, 0}))
	assert.True(t, msh.Contains(1, []float64{0.2, 0.6, 0}))
	assert.False(t, msh.Contains(0, []float64{0.2, 0.6, 0}))
	// The shared diagonal belongs to both, within tolerance
	assert.True(t, msh.Contains(0, []float64{0.5, 0.5, 0}))
	assert.True(t, msh.Contains(1, []float64{0.5, 0.5, 0}))
	// Outside the domain
	assert.False(t, msh.Contains(0, []float64{1.5, 0.5, 0}))
	assert.False(t, msh.Contains(1, []float64{1.5, 0.5, 0}))
}

func TestLocator(t *testing.T) {
	var (
		msh = NewUnitSquareMesh(2, 2)
		loc = NewLocator(msh)
	)
	points := utils.NewMatrix(3, 3, []float64{
		0.1, 0.1, 0,
		0.9, 0.9, 0,
		2.0, 2.0, 0, // Outside
	})
	cells := loc.Locate(points)
	assert.Equal(t, 3, len(cells))
	assert.True(t, cells[0] >= 0)
	assert.True(t, cells[1] >= 0)
	assert.Equal(t, -1, cells[2])
	assert.True(t, msh.Contains(cells[0], []float64{0.1, 0.1, 0}))
	assert.True(t, msh.Contains(cells[1], []float64{0.9, 0.9, 0}))
}

func TestIntervalMap(t *testing.T) {
	var (
		msh = NewUnitIntervalMesh(2)
	)
	X := utils.NewMatrix(1, 3, []float64{0, 0, 0}) // Reference midpoint
	P := msh.XFromRS(0, X)
	assert.True(t, near(0.25, P.At(0, 0), 0.0000001))
	rs := msh.RSFromX(1, []float64{0.75, 0, 0})
	assert.True(t, near(0, rs[0], 0.0000001))
	assert.True(t, msh.Contains(0, []float64{0.3, 0, 0}))
	assert.False(t, msh.Contains(0, []float64{0.7, 0, 0}))
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
