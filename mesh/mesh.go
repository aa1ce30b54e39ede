package mesh

import (
	"fmt"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/utils"
)

// Mesh is a simplex mesh: vertex coordinates plus cell to vertex
// connectivity. Geometry is affine per cell (straight-sided cells), which
// is the restriction under which reference-coordinate evaluation is exact.
type Mesh struct {
	Cell   element.CellType
	VX, VY utils.Vector
	EToV   utils.Matrix
	K, Nv  int // Number of cells, number of vertices
}

func NewMesh(cell element.CellType, VX, VY utils.Vector, EToV utils.Matrix) (msh *Mesh) {
	var (
		K, nc = EToV.Dims()
	)
	if nc != cell.NumVertices() {
		panic(fmt.Errorf("connectivity has %d vertices per cell, cell type %v requires %d",
			nc, cell, cell.NumVertices()))
	}
	if cell.Dim() > 1 && VY.Len() != VX.Len() {
		panic(fmt.Errorf("mismatched vertex coordinate lengths: %d, %d", VX.Len(), VY.Len()))
	}
	msh = &Mesh{
		Cell: cell,
		VX:   VX,
		VY:   VY,
		EToV: EToV,
		K:    K,
		Nv:   VX.Len(),
	}
	return
}

func (msh *Mesh) NumCells() int    { return msh.K }
func (msh *Mesh) NumVertices() int { return msh.Nv }

// CellVertices returns the vertex indices of cell k.
func (msh *Mesh) CellVertices(k int) (verts utils.Index) {
	var (
		nc = msh.Cell.NumVertices()
	)
	verts = utils.NewIndex(nc)
	for i := 0; i < nc; i++ {
		verts[i] = int(msh.EToV.At(k, i))
	}
	return
}

// CellCoordinates returns the physical vertex coordinates of cell k as an
// Nv x 3 matrix.
func (msh *Mesh) CellCoordinates(k int) (VC utils.Matrix) {
	var (
		verts = msh.CellVertices(k)
	)
	VC = utils.NewMatrix(len(verts), 3)
	for i, v := range verts {
		VC.Set(i, 0, msh.VX.AtVec(v))
		if msh.Cell.Dim() > 1 {
			VC.Set(i, 1, msh.VY.AtVec(v))
		}
	}
	return
}

// XFromRS maps reference coordinates (Npts x 3) to physical coordinates in
// cell k through the affine vertex blend.
func (msh *Mesh) XFromRS(k int, X utils.Matrix) (P utils.Matrix) {
	var (
		npts, _ = X.Dims()
		VC      = msh.CellCoordinates(k)
	)
	P = utils.NewMatrix(npts, 3)
	switch msh.Cell {
	case element.Interval:
		for p := 0; p < npts; p++ {
			r := X.At(p, 0)
			P.Set(p, 0, 0.5*((1-r)*VC.At(0, 0)+(1+r)*VC.At(1, 0)))
		}
	case element.Triangle:
		for p := 0; p < npts; p++ {
			r, s := X.At(p, 0), X.At(p, 1)
			for d := 0; d < 2; d++ {
				P.Set(p, d, 0.5*(-(r+s)*VC.At(0, d)+(1+r)*VC.At(1, d)+(1+s)*VC.At(2, d)))
			}
		}
	}
	return
}

// RSFromX pulls the physical point x (len 3) back to reference coordinates
// in cell k by inverting the affine map.
func (msh *Mesh) RSFromX(k int, x []float64) (rs []float64) {
	var (
		VC = msh.CellCoordinates(k)
	)
	rs = make([]float64, 3)
	switch msh.Cell {
	case element.Interval:
		a, b := VC.At(0, 0), VC.At(1, 0)
		rs[0] = 2*(x[0]-a)/(b-a) - 1
	case element.Triangle:
		var (
			ux, uy = VC.At(1, 0) - VC.At(0, 0), VC.At(1, 1) - VC.At(0, 1)
			vx, vy = VC.At(2, 0) - VC.At(0, 0), VC.At(2, 1) - VC.At(0, 1)
			dx, dy = x[0] - VC.At(0, 0), x[1] - VC.At(0, 1)
			det    = ux*vy - uy*vx
		)
		if det == 0 {
			panic(fmt.Errorf("degenerate cell %d in reference coordinate pullback", k))
		}
		p := (dx*vy - dy*vx) / det
		q := (ux*dy - uy*dx) / det
		rs[0] = 2*p - 1
		rs[1] = 2*q - 1
	}
	return
}

const containmentTol = 1.e-12

// Contains reports whether the physical point x lies in cell k, within a
// small geometric tolerance.
func (msh *Mesh) Contains(k int, x []float64) bool {
	rs := msh.RSFromX(k, x)
	switch msh.Cell {
	case element.Interval:
		return rs[0] >= -1-containmentTol && rs[0] <= 1+containmentTol
	case element.Triangle:
		return rs[0] >= -1-containmentTol && rs[1] >= -1-containmentTol &&
			rs[0]+rs[1] <= containmentTol
	}
	return false
}
