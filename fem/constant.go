package fem

// Constant is a named-slot value bound into an Expression: a scalar or a
// flat array of scalars.
type Constant struct {
	Value []float64
}

func NewConstant(vals ...float64) (c *Constant) {
	v := make([]float64, len(vals))
	copy(v, vals)
	c = &Constant{Value: v}
	return
}

func (c *Constant) ValueSize() int { return len(c.Value) }
