package element

import (
	"fmt"

	"github.com/notargets/dolfin/utils"
)

// MixedElement concatenates sub-elements on a common reference cell. Cell
// dofs are ordered sub-element by sub-element; value components stack in
// the same order.
type MixedElement struct {
	Subs []Element
	cell CellType
}

func NewMixedElement(subs ...Element) (el *MixedElement) {
	if len(subs) == 0 {
		panic("mixed element requires at least one sub-element")
	}
	cell := subs[0].CellType()
	for _, s := range subs[1:] {
		if s.CellType() != cell {
			panic(fmt.Errorf("mixed element requires a common cell type, have %v and %v",
				cell, s.CellType()))
		}
	}
	el = &MixedElement{
		Subs: subs,
		cell: cell,
	}
	return
}

func (el *MixedElement) CellType() CellType { return el.cell }
func (el *MixedElement) Family() Family     { return MixedFamily }

func (el *MixedElement) Degree() (deg int) {
	for _, s := range el.Subs {
		if s.Degree() > deg {
			deg = s.Degree()
		}
	}
	return
}

func (el *MixedElement) NumDofs() (n int) {
	for _, s := range el.Subs {
		n += s.NumDofs()
	}
	return
}

func (el *MixedElement) ValueShape() []int { return []int{el.ValueSize()} }

func (el *MixedElement) ValueSize() (vs int) {
	for _, s := range el.Subs {
		vs += s.ValueSize()
	}
	return
}

func (el *MixedElement) SubElements() []Element { return el.Subs }

// DofOffset returns the local dof offset of sub-element i within a cell.
func (el *MixedElement) DofOffset(i int) (off int) {
	for j := 0; j < i; j++ {
		off += el.Subs[j].NumDofs()
	}
	return
}

// ValueOffset returns the value component offset of sub-element i.
func (el *MixedElement) ValueOffset(i int) (off int) {
	for j := 0; j < i; j++ {
		off += el.Subs[j].ValueSize()
	}
	return
}

func (el *MixedElement) DofPoints() (X utils.Matrix) {
	X = utils.NewMatrix(el.NumDofs(), 3)
	var row int
	for _, s := range el.Subs {
		sub := s.DofPoints()
		for i := 0; i < s.NumDofs(); i++ {
			X.SetRow(row, sub.Row(i).DataP)
			row++
		}
	}
	return
}

func (el *MixedElement) DofComponents() (C utils.Index) {
	C = utils.NewIndex(el.NumDofs())
	var row, voff int
	for _, s := range el.Subs {
		sub := s.DofComponents()
		for i := 0; i < s.NumDofs(); i++ {
			C[row] = voff + sub[i]
			row++
		}
		voff += s.ValueSize()
	}
	return
}

func (el *MixedElement) TabulateDof(X utils.Matrix) (B utils.Matrix) {
	var (
		npts, _ = X.Dims()
		vs      = el.ValueSize()
	)
	B = utils.NewMatrix(npts*vs, el.NumDofs())
	var doff, voff int
	for _, s := range el.Subs {
		var (
			sub = s.TabulateDof(X)
			svs = s.ValueSize()
		)
		for p := 0; p < npts; p++ {
			for c := 0; c < svs; c++ {
				for j := 0; j < s.NumDofs(); j++ {
					B.Set(p*vs+voff+c, doff+j, sub.At(p*svs+c, j))
				}
			}
		}
		doff += s.NumDofs()
		voff += svs
	}
	return
}
