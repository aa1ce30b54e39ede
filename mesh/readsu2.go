package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notargets/dolfin/element"
	"github.com/notargets/dolfin/utils"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE     SU2ElementType = 3
	ELType_Triangle                = 5
)

// BoundaryEdges maps an SU2 marker tag to its vertex index pairs.
type BoundaryEdges map[string][][2]int

// ReadSU2 reads a 2D triangular mesh in SU2 format, returning the mesh
// and its boundary markers. Malformed file content panics, mirroring the
// parse helpers below.
func ReadSU2(filename string) (msh *Mesh, bcs BoundaryEdges, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return nil, nil, fmt.Errorf("unable to open mesh file %s: %w", filename, err)
	}
	defer file.Close()
	return readSU2(bufio.NewReader(file))
}

func readSU2(reader *bufio.Reader) (msh *Mesh, bcs BoundaryEdges, err error) {
	dimensionality := readNumber(reader)
	if dimensionality != 2 {
		return nil, nil, fmt.Errorf("mesh is %d dimensional, only 2D meshes are supported",
			dimensionality)
	}
	EToV := readElements(reader)
	VX, VY := readVertices(reader)
	bcs = readBCs(reader)
	msh = NewMesh(element.Triangle, VX, VY, EToV)
	return
}

func readElements(reader *bufio.Reader) (EToV utils.Matrix) {
	var (
		n          int
		nType      int
		v1, v2, v3 int
		err        error
	)
	K := readNumber(reader)
	EToV = utils.NewMatrix(K, 3)
	for k := 0; k < K; k++ {
		line := getLine(reader)
		if n, err = fmt.Sscanf(line, "%d %d %d %d", &nType, &v1, &v2, &v3); err != nil {
			panic(err)
		}
		if n != 4 {
			panic("unable to read vertices")
		}
		if SU2ElementType(nType) != ELType_Triangle {
			panic("unable to deal with non-triangular elements right now")
		}
		EToV.Set(k, 0, float64(v1))
		EToV.Set(k, 1, float64(v2))
		EToV.Set(k, 2, float64(v3))
	}
	return
}

func readVertices(reader *bufio.Reader) (VX, VY utils.Vector) {
	var (
		n    int
		x, y float64
		err  error
	)
	Nv := readNumber(reader)
	VX, VY = utils.NewVector(Nv), utils.NewVector(Nv)
	for i := 0; i < Nv; i++ {
		line := getLine(reader)
		if n, err = fmt.Sscanf(line, "%f %f", &x, &y); err != nil {
			panic(err)
		}
		if n != 2 {
			panic("unable to read coordinates")
		}
		VX.DataP[i], VY.DataP[i] = x, y
	}
	return
}

func readBCs(reader *bufio.Reader) (bcs BoundaryEdges) {
	var (
		nType  int
		v1, v2 int
		err    error
	)
	NBCs := readNumber(reader)
	bcs = make(BoundaryEdges, NBCs)
	for n := 0; n < NBCs; n++ {
		label := readLabel(reader)
		nEdges := readNumber(reader)
		edges := make([][2]int, 0, nEdges)
		for i := 0; i < nEdges; i++ {
			line := getLine(reader)
			if _, err = fmt.Sscanf(line, "%d %d %d", &nType, &v1, &v2); err != nil {
				panic(err)
			}
			if SU2ElementType(nType) != ELType_LINE {
				panic("BCs should only contain line elements in 2D")
			}
			edges = append(edges, [2]int{v1, v2})
		}
		// Duplicate tagged markers accumulate onto the shared label, e.g.
		// paired periodic markers
		bcs[label] = append(bcs[label], edges...)
	}
	return
}

func getToken(reader *bufio.Reader) (token string) {
	var (
		line string
		err  error
	)
	line = getLineNoComments(reader)
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = fmt.Errorf("badly formed input line [%s], should have an =", line)
		panic(err)
	}
	token = line[ind+1:]
	return
}

func readLabel(reader *bufio.Reader) (label string) {
	var (
		err error
	)
	token := getToken(reader)
	if _, err = fmt.Sscanf(token, "%s", &label); err != nil {
		err = fmt.Errorf("unable to read label from token: [%s]", token)
		panic(err)
	}
	label = strings.Trim(label, " ")
	return
}

func readNumber(reader *bufio.Reader) (num int) {
	var (
		err error
	)
	token := getToken(reader)
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
		panic(err)
	}
	return
}

func getLineNoComments(reader *bufio.Reader) (line string) {
	for {
		line = strings.Trim(getLine(reader), " ")
		ind := strings.Index(line, "%")
		if ind != 0 {
			return
		}
	}
}

func getLine(reader *bufio.Reader) (line string) {
	var (
		err error
	)
	line, err = reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("early end of file")
		}
		panic(err)
	}
	line = line[:len(line)-1] // Strip away the newline
	return
}
