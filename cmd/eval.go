/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/dolfin/InputParameters"
	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/fem"
	"github.com/notargets/dolfin/mesh"
	"github.com/notargets/dolfin/utils"
)

// EvalCmd represents the eval command
var EvalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Interpolate an analytic field and evaluate it",
	Long: `
Builds a function space on a unit square mesh, interpolates one of the
named analytic fields into it and evaluates the result at the sample
points of the case file,

dolfin eval -f case.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			ep = &InputParameters.EvalParameters{}
		)
		fileName, _ := cmd.Flags().GetString("file")
		prof, _ := cmd.Flags().GetBool("profile")
		if prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		data, err := os.ReadFile(fileName)
		if err != nil {
			fmt.Printf("unable to read case file [%s]: %v\n", fileName, err)
			os.Exit(1)
		}
		if err = ep.Parse(data); err != nil {
			fmt.Printf("unable to parse case file [%s]: %v\n", fileName, err)
			os.Exit(1)
		}
		ep.Print()
		if err = RunEval(ep); err != nil {
			fmt.Printf("evaluation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(EvalCmd)
	EvalCmd.Flags().StringP("file", "f", "case.yaml", "YAML case file")
	EvalCmd.Flags().Bool("profile", false, "write a CPU profile of the evaluation")
}

type EvalOutput struct {
	Title        string      `yaml:"Title"`
	SamplePoints [][]float64 `yaml:"SamplePoints,omitempty"`
	SampleValues [][]float64 `yaml:"SampleValues,omitempty"`
	PointValues  [][]float64 `yaml:"PointValues,omitempty"`
}

func RunEval(ep *InputParameters.EvalParameters) (err error) {
	var (
		msh *mesh.Mesh
		el  element.Element
	)
	if ep.MeshFile != "" {
		if msh, _, err = mesh.ReadSU2(ep.MeshFile); err != nil {
			return
		}
	} else {
		msh = mesh.NewUnitSquareMesh(ep.MeshNx, ep.MeshNy)
	}
	switch ep.ElementFamily {
	case "Lagrange", "":
		el = element.NewLagrange(element.Triangle, ep.PolynomialOrder)
	case "DG":
		el = element.NewDiscontinuousLagrange(element.Triangle, ep.PolynomialOrder)
	default:
		return fmt.Errorf("unknown element family [%s]", ep.ElementFamily)
	}
	if ep.Components > 1 {
		el = element.NewVectorElement(el.(*element.Nodal), ep.Components)
	}
	var (
		V = fem.NewFunctionSpace(msh, el)
		f = fem.NewFunction(V)
	)
	fmt.Printf("[%d]\t\t\t= Global dofs\n", V.Dofs.GlobalSize())

	field, err := analyticField(ep.Field, f.ValueSize())
	if err != nil {
		return
	}
	if err = f.InterpolateFunc(field); err != nil {
		return
	}

	out := &EvalOutput{Title: ep.Title}
	if len(ep.SamplePoints) != 0 {
		var (
			npts = len(ep.SamplePoints)
			x    = utils.NewMatrix(npts, 3)
		)
		for i, p := range ep.SamplePoints {
			for d := 0; d < len(p) && d < 3; d++ {
				x.Set(i, d, p[d])
			}
		}
		cells := mesh.NewLocator(msh).Locate(x)
		u := utils.NewMatrix(npts, f.ValueSize())
		if err = f.Eval(x, cells, u); err != nil {
			return
		}
		out.SamplePoints = ep.SamplePoints
		out.SampleValues = matrixRows(u)
	}
	if ep.PointValues {
		// Assembled once, cheap to reapply if the case is extended to
		// time-series output
		op := fem.NewPointEvaluationOperator(V, msh.Cell.VertexCoordinates())
		out.PointValues = matrixRows(op.Apply(f.Vector()))
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return
	}
	if ep.OutputFile == "" {
		fmt.Print(string(data))
		return
	}
	return os.WriteFile(ep.OutputFile, data, 0644)
}

func analyticField(name string, vs int) (fn func(points utils.Matrix) utils.Matrix, err error) {
	var scalar func(x, y float64) float64
	switch name {
	case "Linear", "":
		scalar = func(x, y float64) float64 { return x + 2*y }
	case "SineWave":
		scalar = func(x, y float64) float64 {
			return math.Sin(2*math.Pi*x) * math.Sin(2*math.Pi*y)
		}
	case "Gaussian":
		scalar = func(x, y float64) float64 {
			return math.Exp(-((x-0.5)*(x-0.5) + (y-0.5)*(y-0.5)) / 0.02)
		}
	default:
		err = fmt.Errorf("unknown field [%s]", name)
		return
	}
	fn = func(points utils.Matrix) (vals utils.Matrix) {
		npts, _ := points.Dims()
		vals = utils.NewMatrix(npts, vs)
		for i := 0; i < npts; i++ {
			base := scalar(points.At(i, 0), points.At(i, 1))
			for c := 0; c < vs; c++ {
				// Components scale the base field so they stay distinct
				vals.Set(i, c, base*float64(c+1))
			}
		}
		return
	}
	return
}

func matrixRows(m utils.Matrix) (rows [][]float64) {
	nr, nc := m.Dims()
	rows = make([][]float64, nr)
	for i := 0; i < nr; i++ {
		rows[i] = make([]float64, nc)
		for j := 0; j < nc; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return
}
