package utils

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{ // Storage aliasing: DataP is the backing store
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		A.DataP[3] = 10
		assert.Equal(t, 10., A.At(1, 1))
		A.Set(0, 0, -1)
		assert.Equal(t, -1., A.DataP[0])
	}
	{ // Mul does not change the receiver
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := NewMatrix(2, 2, []float64{0, 1, 1, 0})
		C := A.Mul(B)
		assert.True(t, nearVec([]float64{2, 1, 4, 3}, C.DataP, 0.0000001))
		assert.True(t, nearVec([]float64{1, 2, 3, 4}, A.DataP, 0.0000001))
	}
	{ // Inverse
		A := NewMatrix(2, 2, []float64{4, 7, 2, 6})
		Ainv := A.InverseWithCheck()
		I := A.Mul(Ainv)
		assert.True(t, nearVec([]float64{1, 0, 0, 1}, I.DataP, 0.0000001))
		// Singular matrices are a programming error
		S := NewMatrix(2, 2, []float64{1, 2, 2, 4})
		assert.Panics(t, func() { S.InverseWithCheck() })
	}
	{ // MulVec
		A := NewMatrix(2, 3, []float64{1, 0, 2, 0, 1, 1})
		v := NewVector(3, []float64{1, 2, 3})
		r := A.MulVec(v)
		assert.True(t, nearVec([]float64{7, 5}, r.DataP, 0.0000001))
	}
	{ // LUSolve
		A := NewMatrix(2, 2, []float64{2, 0, 0, 4})
		B := NewMatrix(2, 1, []float64{6, 8})
		X := A.LUSolve(B)
		assert.True(t, nearVec([]float64{3, 2}, X.DataP, 0.0000001))
	}
	{ // Transpose and rows/cols
		A := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
		At := A.Transpose()
		nr, nc := At.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 2, nc)
		assert.True(t, nearVec([]float64{2, 5}, A.Col(1).DataP, 0.0000001))
		assert.True(t, nearVec([]float64{4, 5, 6}, A.Row(1).DataP, 0.0000001))
	}
	{ // Read-only guard
		A := NewMatrix(2, 2)
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.Set(0, 0, 1) })
		A.SetWritable()
		A.Set(0, 0, 1)
		assert.Equal(t, 1., A.At(0, 0))
	}
}

func TestVector(t *testing.T) {
	v := NewVector(5).Linspace(-1, 1)
	assert.True(t, nearVec([]float64{-1, -0.5, 0, 0.5, 1}, v.DataP, 0.0000001))
	assert.Equal(t, -1., v.Min())
	assert.Equal(t, 1., v.Max())

	w := v.Copy().Scale(2).AddScalar(1)
	assert.True(t, nearVec([]float64{-1, 0, 1, 2, 3}, w.DataP, 0.0000001))
	assert.True(t, nearVec([]float64{-1, -0.5, 0, 0.5, 1}, v.DataP, 0.0000001))

	p := NewVector(3, []float64{1, 2, 3}).POW(2)
	assert.True(t, nearVec([]float64{1, 4, 9}, p.DataP, 0.0000001))
}

func TestIndex(t *testing.T) {
	r := NewRange(2, 5)
	assert.Equal(t, Index{2, 3, 4, 5}, r)
	assert.Equal(t, Index{4, 5, 6, 7}, r.Add(2))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(6))
}

func TestSparse(t *testing.T) {
	D := NewDOK(2, 3)
	D.Set(0, 0, 2)
	D.Set(0, 2, 1)
	D.Set(1, 1, 3)
	R := D.ToCSR()
	assert.Equal(t, 3, R.NNZ())
	y := R.MulVec([]float64{1, 2, 3})
	assert.True(t, nearVec([]float64{5, 6}, y, 0.0000001))
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
