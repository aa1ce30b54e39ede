package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix      { return m.M.T() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only sparse matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m DOK) ToCSR() (R CSR) {
	R = CSR{M: m.M.ToCSR()}
	return
}

type CSR struct {
	M *sparse.CSR
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix      { return m.M.T() }
func (m CSR) NNZ() int           { return m.M.NNZ() }

// MulVec forms y = M*x without densifying the operator.
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		err := fmt.Errorf("mismatched dimensions in sparse MulVec: nc = %v, len(x) = %v", nc, len(x))
		panic(err)
	}
	y = make([]float64, nr)
	m.M.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
	return
}
