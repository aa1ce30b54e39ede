package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML case file
type EvalParameters struct {
	Title           string      `yaml:"Title"`
	MeshFile        string      `yaml:"MeshFile"` // SU2 grid, overrides MeshNx/MeshNy
	MeshNx          int         `yaml:"MeshNx"`
	MeshNy          int         `yaml:"MeshNy"`
	ElementFamily   string      `yaml:"ElementFamily"` // Lagrange or DG
	PolynomialOrder int         `yaml:"PolynomialOrder"`
	Components      int         `yaml:"Components"` // 1 = scalar field
	Field           string      `yaml:"Field"`      // Linear, SineWave, Gaussian
	SamplePoints    [][]float64 `yaml:"SamplePoints"`
	PointValues     bool        `yaml:"PointValues"` // emit per-cell vertex values
	OutputFile      string      `yaml:"OutputFile"`
}

func (ep *EvalParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ep)
}

func (ep *EvalParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ep.Title)
	if ep.MeshFile != "" {
		fmt.Printf("[%s]\t\t= Mesh File\n", ep.MeshFile)
	} else {
		fmt.Printf("[%dx%d]\t\t\t= Mesh\n", ep.MeshNx, ep.MeshNy)
	}
	fmt.Printf("[%s]\t\t= Element Family\n", ep.ElementFamily)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ep.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Components\n", ep.Components)
	fmt.Printf("[%s]\t\t\t= Field\n", ep.Field)
	fmt.Printf("[%d]\t\t\t\t= Sample Points\n", len(ep.SamplePoints))
}
