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
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/notargets/gocpg/cpgrid"
	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

type MeshExport struct {
	Report   *cpgrid.Report    `json:"report"`
	Dims     [3]int            `json:"dims"`
	Vertices []r3.Vec          `json:"vertices"`
	Faces    []mesh.Face       `json:"faces"`
	Cells    []mesh.Cell       `json:"cells"`
	CellMap  []int             `json:"cellMap"`
	NNCs     []mesh.Connection `json:"nncs"`
	Regions  map[string][]int  `json:"regions,omitempty"` // per mesh cell

	Adjacency []Adjacency      `json:"adjacency"`
	Located   map[string][]int `json:"located,omitempty"` // cells containing each query point
}

// Adjacency is the total face area shared by two cells, Cells[0] < Cells[1].
type Adjacency struct {
	Cells [2]int  `json:"cells"`
	Area  float64 `json:"area"`
}

type RegionExport struct {
	Name   string `json:"name"`
	Tables int    `json:"tables"`
	Cells  []int  `json:"cells"` // region of every mesh cell
}

func newMeshExport(sec *grid.Section, m *mesh.Mesh, rep *cpgrid.Report, regions []string) (*MeshExport, error) {
	out := &MeshExport{
		Report:   rep,
		Dims:     m.Dims,
		Vertices: m.Vertices,
		Faces:    m.Faces,
		Cells:    m.Cells,
		CellMap:  m.CellMap,
		NNCs:     m.NNCs,
	}
	m.ConnectionMatrix().DoNonZero(func(i, j int, v float64) {
		if i < j {
			out.Adjacency = append(out.Adjacency, Adjacency{Cells: [2]int{i, j}, Area: v})
		}
	})
	if len(regions) > 0 {
		out.Regions = make(map[string][]int, len(regions))
		for _, r := range regions {
			vals, err := sec.CellRegion(r, m.CellMap)
			if err != nil {
				return nil, err
			}
			out.Regions[r] = vals
		}
	}
	return out, nil
}

// locate finds the cells containing each "x,y,z" query point.
func (me *MeshExport) locate(m *mesh.Mesh, points []string) error {
	if len(points) == 0 {
		return nil
	}
	loc := mesh.NewCellLocator(m)
	me.Located = make(map[string][]int, len(points))
	for _, q := range points {
		var p r3.Vec
		if _, err := fmt.Sscanf(q, "%g,%g,%g", &p.X, &p.Y, &p.Z); err != nil {
			return errors.Wrapf(err, "bad query point %q, want x,y,z", q)
		}
		me.Located[q] = loc.Locate(p)
	}
	return nil
}

// writeJSON stores v at path, or on w when path is empty or "-".
func writeJSON(w io.Writer, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding output")
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = w.Write(data)
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
}
