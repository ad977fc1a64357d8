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
	"context"
	"os"
	"os/signal"

	"github.com/notargets/gocpg/InputParameters"
	"github.com/notargets/gocpg/cpgrid"
	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"github.com/notargets/gocpg/readfiles"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildCmd represents the build command
var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a polyhedral mesh from a corner-point grid file",
	Long: `
Reads the grid keywords of a GRDECL file, repairs corner depths, resolves
cells along the pillars and writes the mesh with its faces, non-neighbor
connections and build report as JSON.

gocpg build -F model.grdecl -I build.yaml -o mesh.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridFile, _ := cmd.Flags().GetString("gridFile")
		outFile, _ := cmd.Flags().GetString("output")
		sec, m, rep, bp, err := buildMesh(cmd, gridFile)
		if err != nil {
			return err
		}
		out, err := newMeshExport(sec, m, rep, bp.Regions)
		if err != nil {
			return err
		}
		points, _ := cmd.Flags().GetStringArray("locate")
		if err = out.locate(m, points); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), outFile, out)
	},
}

func init() {
	rootCmd.AddCommand(BuildCmd)
	BuildCmd.Flags().StringP("gridFile", "F", "", "corner-point grid file in GRDECL format")
	BuildCmd.Flags().StringP("output", "o", "", "mesh JSON output file, stdout when empty")
	BuildCmd.Flags().StringArray("locate", nil, "report the cells containing the point x,y,z (repeatable)")
	addBuildFlags(BuildCmd)
}

// addBuildFlags registers the build options shared by every command that
// constructs a mesh. Flags, GOCPG_ environment variables and the config file
// override the parameters file.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("inputParameters", "I", "", "YAML build parameters file")
	cmd.Flags().Bool("pinch", false, "elide zero thickness cells and connect across them")
	cmd.Flags().Bool("repair", true, "repair non-monotone corner depths instead of failing")
	cmd.Flags().Float64("tolerance", 1e-6, "vertex merge tolerance")
	cmd.Flags().Int("workers", 0, "parallel workers, one per CPU when zero")
	cmd.Flags().BoolP("verbose", "v", false, "print the build options")
}

func buildConfig(cmd *cobra.Command) (cpgrid.Config, *InputParameters.BuildParameters, error) {
	bp := &InputParameters.BuildParameters{}
	if file, _ := cmd.Flags().GetString("inputParameters"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return cpgrid.Config{}, nil, errors.Wrapf(err, "reading parameters %s", file)
		}
		if err = bp.Parse(data); err != nil {
			return cpgrid.Config{}, nil, errors.Wrapf(err, "parsing parameters %s", file)
		}
	}
	cfg := cpgrid.DefaultConfig()
	cfg.Log = logger
	cfg = bp.Config(cfg)

	v := viper.New()
	v.SetEnvPrefix("GOCPG")
	v.AutomaticEnv()
	for _, key := range []string{"pinch", "repair", "tolerance", "workers"} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return cpgrid.Config{}, nil, err
		}
		if !v.IsSet(key) && viper.IsSet(key) {
			v.Set(key, viper.Get(key))
		}
	}
	if v.IsSet("pinch") {
		cfg.ProcessPinch = v.GetBool("pinch")
	}
	if v.IsSet("repair") {
		cfg.RepairZcorn = v.GetBool("repair")
	}
	if v.IsSet("tolerance") {
		cfg.Tolerance = v.GetFloat64("tolerance")
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	return cfg, bp, nil
}

func buildMesh(cmd *cobra.Command, gridFile string) (*grid.Section, *mesh.Mesh, *cpgrid.Report, *InputParameters.BuildParameters, error) {
	if gridFile == "" {
		return nil, nil, nil, nil, errors.New("must supply a grid file (-F, --gridFile) in GRDECL format")
	}
	cfg, bp, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		bp.Print(cmd.ErrOrStderr(), cfg)
	}
	sec, err := readfiles.ReadGRDECL(gridFile)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	m, rep, err := cpgrid.MeshFromGridSection(ctx, sec, cfg)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "building mesh from %s", gridFile)
	}
	m.PrintStatistics(logger)
	return sec, m, rep, bp, nil
}
