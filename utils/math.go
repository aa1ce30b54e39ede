package utils

func POW(x float64, pp int) (y float64) {
	y = 1
	for i := 0; i < pp; i++ {
		y *= x
	}
	return
}

func ConstArray(val float64, N int) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}
