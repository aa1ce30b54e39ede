package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

func NewVector(N int, dataO ...[]float64) (V Vector) {
	var data []float64
	if len(dataO) != 0 {
		if len(dataO[0]) != N {
			err := fmt.Errorf("mismatch in allocation: NewVector N = %v, len(data[0]) = %v",
				N, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]float64, N)
	}
	V = Vector{
		V:     mat.NewVecDense(N, data),
		DataP: data,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.DataP }

// Chainable methods, mutating the receiver unless noted.
func (v Vector) Set(val float64) Vector {
	for i := range v.DataP {
		v.DataP[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

func (v Vector) Add(a Vector) Vector {
	for i, val := range a.DataP {
		v.DataP[i] += val
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector {
	for i, val := range a.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) ElMul(a Vector) Vector {
	for i, val := range a.DataP {
		v.DataP[i] *= val
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector {
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) Linspace(xmin, xmax float64) Vector {
	var (
		N = v.Len()
	)
	if N == 1 {
		v.DataP[0] = xmin
		return v
	}
	h := (xmax - xmin) / float64(N-1)
	for i := range v.DataP {
		v.DataP[i] = xmin + h*float64(i)
	}
	return v
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	var (
		data = make([]float64, v.Len())
	)
	copy(data, v.DataP)
	R = NewVector(v.Len(), data)
	return
}

func (v Vector) ToMatrix() (R Matrix) { // Does not change receiver
	R = NewMatrix(v.Len(), 1, v.Copy().DataP)
	return
}

func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}
