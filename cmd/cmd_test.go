package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/notargets/gocpg/InputParameters"
	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/horizons"
	"github.com/notargets/gocpg/mesh"
	"github.com/notargets/gocpg/readfiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const faultedHorizons = `
Title: faulted block
XCoords: [0, 1]
YCoords: [0, 1]
Horizons:
  - [[0, 0], [0, 0]]
  - [[10, 10], [10, 10]]
  - [[20, 20], [20, 20]]
  - [[30, 30], [30, 30]]
Faults:
  - {Point: [0.5, 0], Normal: [1, 0], Throw: 5}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExampleHorizonFile(t *testing.T) {
	hp := &InputParameters.HorizonParameters{}
	require.NoError(t, hp.Parse([]byte(exampleHorizonFile)))
	assert.Equal(t, []float64{0, 100, 200}, hp.XCoords)
	assert.Equal(t, []float64{0, 100}, hp.YCoords)
	require.Len(t, hp.Faults, 1)
	assert.Equal(t, [2]float64{150, 0}, hp.Faults[0].Point)
	assert.Equal(t, [2]float64{1, 0}, hp.Faults[0].Normal)
	sec, err := horizons.GridFromHorizons(hp.XCoords, hp.YCoords, hp.Surfaces(), hp.Options())
	require.NoError(t, err)
	assert.Equal(t, [3]int{6, 4, 3}, sec.Dims)
}

func TestVerboseBuild(t *testing.T) {
	logger.SetOutput(io.Discard)
	dir := t.TempDir()
	gridFile := filepath.Join(dir, "cube.grdecl")
	require.NoError(t, readfiles.WriteGRDECL(gridFile, grid.NewCartesian([3]int{1, 1, 1}, [3]float64{1, 1, 1})))

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"build", "-F", gridFile, "-o", filepath.Join(dir, "mesh.json"),
		"-v", "--tolerance", "1e-3"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stderr.String(), "1.00e-03\t\t= Tolerance")
	assert.Contains(t, stderr.String(), "= Max Degenerate Fraction")
	require.NoError(t, BuildCmd.Flags().Set("verbose", "false"))
	require.NoError(t, BuildCmd.Flags().Set("tolerance", "1e-6"))
}

func TestCommands(t *testing.T) {
	logger.SetOutput(io.Discard)
	dir := t.TempDir()

	_, err := execute(t, "build")
	assert.Error(t, err)
	_, err = execute(t, "horizons")
	assert.Error(t, err)

	params := filepath.Join(dir, "horizons.yaml")
	require.NoError(t, os.WriteFile(params, []byte(faultedHorizons), 0o644))
	gridFile := filepath.Join(dir, "block.grdecl")
	_, err = execute(t, "horizons", "-I", params, "-o", gridFile)
	require.NoError(t, err)
	require.FileExists(t, gridFile)

	meshFile := filepath.Join(dir, "mesh.json")
	_, err = execute(t, "build", "-F", gridFile, "-o", meshFile, "--workers", "2",
		"--locate", "0.25,0.25,5")
	require.NoError(t, err)
	data, err := os.ReadFile(meshFile)
	require.NoError(t, err)
	var me MeshExport
	require.NoError(t, json.Unmarshal(data, &me))
	assert.Equal(t, [3]int{2, 2, 3}, me.Dims)
	assert.Len(t, me.Cells, 12)
	require.Len(t, me.NNCs, 4)
	for _, nnc := range me.NNCs {
		assert.Equal(t, mesh.FaultConnection, nnc.Kind)
	}
	assert.Equal(t, 4, me.Report.FaultConnections)
	assert.NotEmpty(t, me.Adjacency)
	assert.Equal(t, []int{0}, me.Located["0.25,0.25,5"])

	out, err := execute(t, "regions", "-F", gridFile, "-r", "layernum,satnum")
	require.NoError(t, err)
	var regions []RegionExport
	require.NoError(t, json.Unmarshal([]byte(out), &regions))
	require.Len(t, regions, 2)
	assert.Equal(t, "LAYERNUM", regions[0].Name)
	assert.Equal(t, 3, regions[0].Tables)
	assert.Len(t, regions[0].Cells, 12)
	assert.Equal(t, 1, regions[1].Tables)
	for _, r := range regions[1].Cells {
		assert.Equal(t, 1, r)
	}
}
