package fem

import (
	"fmt"

	"github.com/notargets/dolfin/mesh"
	"github.com/notargets/dolfin/utils"
)

// TabulateCallback is the externally generated per-cell kernel. The
// buffers are contiguous and row-major with value components
// fastest-varying: values is one output row, coefficients holds each
// registered coefficient's cell dof values in registration order,
// constants holds all constant values flattened in declaration order, and
// geometry holds the cell vertex coordinates as Nv x 3 rows.
type TabulateCallback func(values, coefficients, constants, geometry []float64)

type coefficientSlot struct {
	name string
	f    *Function
}

type constantSlot struct {
	name string
	c    *Constant
}

// Expression is a mathematical expression over coefficients and named
// constants, evaluated through a late-bound tabulation callback against
// per-cell coefficient and geometry data.
//
// Construction and binding are two separate phases: an Expression is
// created with its coefficient and constant declarations, then a
// codegen-aware caller binds the callback and mesh. Evaluation is
// rejected with ErrNotReady until every constant is set and the callback
// is bound.
type Expression struct {
	// Strict makes positional constant binding fail on a count mismatch
	// instead of resizing the declaration list.
	Strict bool

	coefficients []coefficientSlot
	constants    []constantSlot
	fn           TabulateCallback
	msh          *mesh.Mesh
}

// NewExpression declares an Expression with named coefficient and
// constant slots, all initially unbound.
func NewExpression(coefficientNames, constantNames []string) (e *Expression) {
	e = &Expression{
		coefficients: make([]coefficientSlot, len(coefficientNames)),
		constants:    make([]constantSlot, len(constantNames)),
	}
	for i, name := range coefficientNames {
		e.coefficients[i].name = name
	}
	for i, name := range constantNames {
		e.constants[i].name = name
	}
	return
}

func (e *Expression) NumCoefficients() int { return len(e.coefficients) }

// SetCoefficients binds coefficients by declaration index.
func (e *Expression) SetCoefficients(coefficients map[int]*Function) (err error) {
	for i, f := range coefficients {
		if i < 0 || i >= len(e.coefficients) {
			return fmt.Errorf("coefficient index out of bounds: index = %d, declared = %d",
				i, len(e.coefficients))
		}
		e.coefficients[i].f = f
	}
	return
}

// SetCoefficientsByName binds coefficients by declared name.
func (e *Expression) SetCoefficientsByName(coefficients map[string]*Function) (err error) {
	for name, f := range coefficients {
		var found bool
		for i := range e.coefficients {
			if e.coefficients[i].name == name {
				e.coefficients[i].f = f
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("coefficient %q not declared on expression", name)
		}
	}
	return
}

// SetConstants binds constants by declared name.
func (e *Expression) SetConstants(constants map[string]*Constant) (err error) {
	for name, c := range constants {
		var found bool
		for i := range e.constants {
			if e.constants[i].name == name {
				e.constants[i].c = c
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("constant %q: %w", name, ErrUnknownConstant)
		}
	}
	return
}

// SetConstantsList binds constants positionally, without names. By
// default a count mismatch resizes the declaration list to match, for
// callers that attach constants in expression order without declaring
// them first; with Strict set the mismatch is an error.
func (e *Expression) SetConstantsList(constants []*Constant) (err error) {
	if len(constants) != len(e.constants) {
		if e.Strict {
			return fmt.Errorf("have %d constants for %d declared slots: %w",
				len(constants), len(e.constants), ErrDimensionMismatch)
		}
		e.constants = make([]constantSlot, len(constants))
	}
	for i, c := range constants {
		e.constants[i].c = c
	}
	return
}

// AllConstantsSet reports whether every declared constant is bound.
func (e *Expression) AllConstantsSet() bool {
	for i := range e.constants {
		if e.constants[i].c == nil {
			return false
		}
	}
	return true
}

// UnsetConstants returns the names of declared constants not yet bound.
func (e *Expression) UnsetConstants() (unset []string) {
	for i := range e.constants {
		if e.constants[i].c == nil {
			unset = append(unset, e.constants[i].name)
		}
	}
	return
}

// SetTabulate registers the generated tabulation kernel.
func (e *Expression) SetTabulate(fn TabulateCallback) { e.fn = fn }

func (e *Expression) CallbackSet() bool { return e.fn != nil }

func (e *Expression) SetMesh(msh *mesh.Mesh) { e.msh = msh }

func (e *Expression) Mesh() (msh *mesh.Mesh) {
	if e.msh != nil {
		return e.msh
	}
	// Fall back to any bound coefficient's mesh
	for i := range e.coefficients {
		if e.coefficients[i].f != nil {
			return e.coefficients[i].f.Space().Msh
		}
	}
	return nil
}

// Ready reports whether the Expression can be evaluated.
func (e *Expression) Ready() bool {
	return e.fn != nil && e.AllConstantsSet() && e.Mesh() != nil
}

// Eval invokes the tabulation kernel once per active cell, writing one
// row of values per cell in order. Duplicate cell indices are allowed.
// Evaluation is all-or-nothing: precondition failures (unset constants,
// unbound callback or mesh, wrong buffer shape) are reported before any
// row is written.
func (e *Expression) Eval(activeCells []int, values utils.Matrix) (err error) {
	if e.fn == nil {
		return fmt.Errorf("tabulation callback not set: %w", ErrNotReady)
	}
	if !e.AllConstantsSet() {
		return fmt.Errorf("unset constants %v: %w", e.UnsetConstants(), ErrNotReady)
	}
	msh := e.Mesh()
	if msh == nil {
		return fmt.Errorf("no mesh bound: %w", ErrNotReady)
	}
	nr, nc := values.Dims()
	if nr != len(activeCells) {
		return fmt.Errorf("output has %d rows for %d active cells: %w",
			nr, len(activeCells), ErrDimensionMismatch)
	}
	for i := range e.coefficients {
		if e.coefficients[i].f == nil {
			return fmt.Errorf("coefficient %q not bound: %w", e.coefficients[i].name, ErrNotReady)
		}
	}
	var constSize int
	for i := range e.constants {
		constSize += e.constants[i].c.ValueSize()
	}
	constData := make([]float64, 0, constSize)
	for i := range e.constants {
		constData = append(constData, e.constants[i].c.Value...)
	}
	var (
		nv       = msh.Cell.NumVertices()
		geometry = make([]float64, nv*3)
	)
	for ci, k := range activeCells {
		var coeffData []float64
		for i := range e.coefficients {
			f := e.coefficients[i].f
			coeffData = append(coeffData, f.Vector().Get(f.Space().Dofs.CellDofs(k))...)
		}
		VC := msh.CellCoordinates(k)
		for v := 0; v < nv; v++ {
			geometry[v*3+0] = VC.At(v, 0)
			geometry[v*3+1] = VC.At(v, 1)
			geometry[v*3+2] = VC.At(v, 2)
		}
		row := values.DataP[ci*nc : (ci+1)*nc]
		e.fn(row, coeffData, constData, geometry)
	}
	return
}
