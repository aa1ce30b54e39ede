package fem

import (
	"fmt"

	"github.com/notargets/dolfin/utils"
)

// PointEvaluationOperator is a sparse linear map from coefficient vectors
// to field values at a fixed set of reference points replicated over
// every cell. Assembling it once pays off when the same point set is
// sampled repeatedly (time series output, repeated post-processing): each
// application is a single sparse matrix-vector product.
//
// Row ordering matches EvalReference: by cell, then point, then value
// component.
type PointEvaluationOperator struct {
	E         utils.CSR
	Npts      int
	ValueSize int
	numCells  int
}

// NewPointEvaluationOperator assembles the operator for the given space
// at the Npts x 3 reference coordinates X.
func NewPointEvaluationOperator(V *FunctionSpace, X utils.Matrix) (op *PointEvaluationOperator) {
	var (
		npts, _ = X.Dims()
		vs      = V.ValueSize()
		K       = V.Msh.NumCells()
		B       = V.El.TabulateDof(X)
		D       = utils.NewDOK(K*npts*vs, V.Dofs.GlobalSize())
	)
	for k := 0; k < K; k++ {
		dofs := V.Dofs.CellDofs(k)
		for r := 0; r < npts*vs; r++ {
			for j, g := range dofs {
				if val := B.At(r, j); val != 0 {
					D.Set(k*npts*vs+r, g, val)
				}
			}
		}
	}
	op = &PointEvaluationOperator{
		E:         D.ToCSR(),
		Npts:      npts,
		ValueSize: vs,
		numCells:  K,
	}
	return
}

// Apply evaluates the coefficients x at every operator point, returning a
// (NumCells*Npts) x ValueSize matrix.
func (op *PointEvaluationOperator) Apply(x Vector) (u utils.Matrix) {
	var (
		_, nc = op.E.Dims()
	)
	if x.Size() != nc {
		panic(fmt.Errorf("coefficient vector size %d does not match operator width %d",
			x.Size(), nc))
	}
	y := op.E.MulVec(x.Get(utils.NewRange(0, nc-1)))
	u = utils.NewMatrix(op.numCells*op.Npts, op.ValueSize, y)
	return
}
