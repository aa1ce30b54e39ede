package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M        *mat.Dense
	DataP    []float64
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v",
				nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		M:     m,
		DataP: m.RawMatrix().Data,
		name:  "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.DataP }

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Matrix) SetWritable() Matrix {
	m.readOnly = false
	return *m
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) Row(i int) (R Vector) { // Does not change receiver
	var (
		_, nc = m.Dims()
		data  = make([]float64, nc)
	)
	copy(data, m.M.RawRowView(i))
	R = NewVector(nc, data)
	return
}

func (m Matrix) Col(j int) (R Vector) { // Does not change receiver
	var (
		nr, _ = m.Dims()
		data  = make([]float64, nr)
	)
	for i := 0; i < nr; i++ {
		data[i] = m.M.At(i, j)
	}
	R = NewVector(nr, data)
	return
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.DataP)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			R.M.Set(j, i, m.M.At(i, j))
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) MulVec(v Vector) (R Vector) { // Does not change receiver
	var (
		nr, _ = m.Dims()
	)
	R = NewVector(nr)
	R.V.MulVec(m.M, v.V)
	return
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] += val
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] *= val
	}
	return m
}

func (m Matrix) ElDiv(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		if val != 0 {
			m.DataP[i] /= val
		}
	}
	return m
}

func (m Matrix) InverseWithCheck() (R Matrix) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err := fmt.Errorf("matrix must be square for inverse, have nr,nc = %v,%v", nr, nc)
		panic(err)
	}
	if det := mat.Det(m.M); det == 0 {
		panic("matrix is singular, unable to invert")
	}
	R = NewMatrix(nr, nc)
	if err := R.M.Inverse(m.M); err != nil {
		panic(err)
	}
	return
}

func (m Matrix) LUSolve(B Matrix) (X Matrix) {
	var (
		err error
		lu  mat.LU
	)
	lu.Factorize(m.M)
	nr, nc := B.Dims()
	X = NewMatrix(nr, nc)
	if err = lu.SolveTo(X.M, false, B.M); err != nil {
		panic(err)
	}
	return
}

func NewSymTriDiagonal(d0, d1 []float64) (J *mat.SymDense) {
	var (
		N = len(d0)
	)
	J = mat.NewSymDense(N, nil)
	for i := 0; i < N; i++ {
		J.SetSym(i, i, d0[i])
		if i < N-1 {
			J.SetSym(i, i+1, d1[i])
		}
	}
	return
}
