package mesh

import (
	"fmt"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/utils"
)

// NewUnitIntervalMesh creates a mesh of K interval cells on [0,1].
func NewUnitIntervalMesh(K int) (msh *Mesh) {
	if K < 1 {
		panic(fmt.Errorf("interval mesh requires at least 1 cell, have %d", K))
	}
	var (
		VX   = utils.NewVector(K + 1).Linspace(0, 1)
		EToV = utils.NewMatrix(K, 2)
	)
	for k := 0; k < K; k++ {
		EToV.Set(k, 0, float64(k))
		EToV.Set(k, 1, float64(k+1))
	}
	msh = NewMesh(element.Interval, VX, utils.NewVector(K+1), EToV)
	return
}

// NewUnitSquareMesh creates a triangulated mesh of the unit square with
// Nx x Ny quads, each split along its (0,0)-(1,1) diagonal into two
// triangles, 2*Nx*Ny cells in total.
func NewUnitSquareMesh(Nx, Ny int) (msh *Mesh) {
	if Nx < 1 || Ny < 1 {
		panic(fmt.Errorf("square mesh requires at least 1x1 cells, have %dx%d", Nx, Ny))
	}
	var (
		nvx  = Nx + 1
		nvy  = Ny + 1
		VX   = utils.NewVector(nvx * nvy)
		VY   = utils.NewVector(nvx * nvy)
		EToV = utils.NewMatrix(2*Nx*Ny, 3)
	)
	for j := 0; j < nvy; j++ {
		for i := 0; i < nvx; i++ {
			v := i + j*nvx
			VX.DataP[v] = float64(i) / float64(Nx)
			VY.DataP[v] = float64(j) / float64(Ny)
		}
	}
	var k int
	for j := 0; j < Ny; j++ {
		for i := 0; i < Nx; i++ {
			var (
				v00 = i + j*nvx
				v10 = v00 + 1
				v01 = v00 + nvx
				v11 = v01 + 1
			)
			// Counterclockwise orientation for both triangles
			EToV.Set(k, 0, float64(v00))
			EToV.Set(k, 1, float64(v10))
			EToV.Set(k, 2, float64(v11))
			k++
			EToV.Set(k, 0, float64(v00))
			EToV.Set(k, 1, float64(v11))
			EToV.Set(k, 2, float64(v01))
			k++
		}
	}
	msh = NewMesh(element.Triangle, VX, VY, EToV)
	return
}
