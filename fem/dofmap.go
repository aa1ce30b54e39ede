package fem

import (
	"fmt"
	"math"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/mesh"
	"github.com/notargets/dolfin/utils"
)

// DofMap maps (cell, local dof index) to global coefficient indices.
// Continuous families share dofs between cells whose interpolation points
// coincide geometrically; discontinuous families number cell by cell.
type DofMap struct {
	cellDofs   []utils.Index
	numCell    int
	globalSize int
}

func NewDofMap(msh *mesh.Mesh, el element.Element) (dm *DofMap) {
	cd, size := buildCellDofs(msh, el)
	dm = &DofMap{
		cellDofs:   cd,
		numCell:    el.NumDofs(),
		globalSize: size,
	}
	return
}

// CellDofs returns the ordered global dof indices of cell k. The returned
// slice is owned by the DofMap.
func (dm *DofMap) CellDofs(k int) utils.Index { return dm.cellDofs[k] }

// NumCellDofs is the per-cell dof count, equal to the element's NumDofs.
func (dm *DofMap) NumCellDofs() int { return dm.numCell }

// GlobalSize is the coefficient vector length this map indexes into.
func (dm *DofMap) GlobalSize() int { return dm.globalSize }

func (dm *DofMap) NumCells() int { return len(dm.cellDofs) }

// View restricts the map to the given local dof indices per cell. The
// global numbering (and GlobalSize) remains that of the parent, so views
// index into the parent's coefficient vector.
func (dm *DofMap) View(local utils.Index) (sub *DofMap) {
	sub = &DofMap{
		cellDofs:   make([]utils.Index, len(dm.cellDofs)),
		numCell:    len(local),
		globalSize: dm.globalSize,
	}
	for k, dofs := range dm.cellDofs {
		view := utils.NewIndex(len(local))
		for i, li := range local {
			if li < 0 || li >= len(dofs) {
				panic(fmt.Errorf("local dof index out of bounds: index = %d, cell dofs = %d",
					li, len(dofs)))
			}
			view[i] = dofs[li]
		}
		sub.cellDofs[k] = view
	}
	return
}

func buildCellDofs(msh *mesh.Mesh, el element.Element) (cd []utils.Index, size int) {
	switch e := el.(type) {
	case *element.MixedElement:
		var (
			K = msh.NumCells()
		)
		cd = make([]utils.Index, K)
		for k := range cd {
			cd[k] = make(utils.Index, 0, el.NumDofs())
		}
		for _, s := range e.Subs {
			sub, n := buildCellDofs(msh, s)
			for k := range cd {
				cd[k] = append(cd[k], sub[k].Add(size)...)
			}
			size += n
		}
	case *element.VectorElement:
		var (
			scalar, n = buildCellDofs(msh, e.Base)
			nc        = e.NumComponents
		)
		cd = make([]utils.Index, len(scalar))
		for k, sdofs := range scalar {
			cd[k] = utils.NewIndex(len(sdofs) * nc)
			for i, g := range sdofs {
				for c := 0; c < nc; c++ {
					cd[k][i*nc+c] = g*nc + c
				}
			}
		}
		size = n * nc
	case *element.Nodal:
		cd, size = buildScalarCellDofs(msh, e)
	default:
		panic(fmt.Errorf("unsupported element type %T in dofmap construction", el))
	}
	return
}

// Interpolation points closer than this merge into a shared dof.
const dofGeomScale = 1.e10

type pointKey [2]int64

func quantize(x, y float64) (key pointKey) {
	key[0] = int64(math.Round(x * dofGeomScale))
	key[1] = int64(math.Round(y * dofGeomScale))
	return
}

func buildScalarCellDofs(msh *mesh.Mesh, el *element.Nodal) (cd []utils.Index, size int) {
	var (
		K  = msh.NumCells()
		Np = el.NumDofs()
	)
	cd = make([]utils.Index, K)
	if !el.Family().IsContinuous() {
		for k := 0; k < K; k++ {
			cd[k] = utils.NewRange(k*Np, (k+1)*Np-1)
		}
		size = K * Np
		return
	}
	var (
		X      = el.DofPoints()
		shared = make(map[pointKey]int)
	)
	for k := 0; k < K; k++ {
		P := msh.XFromRS(k, X)
		cd[k] = utils.NewIndex(Np)
		for i := 0; i < Np; i++ {
			key := quantize(P.At(i, 0), P.At(i, 1))
			g, ok := shared[key]
			if !ok {
				g = size
				shared[key] = g
				size++
			}
			cd[k][i] = g
		}
	}
	return
}
