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
	"os"

	"github.com/notargets/gocpg/InputParameters"
	"github.com/notargets/gocpg/horizons"
	"github.com/notargets/gocpg/readfiles"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const exampleHorizonFile = `
########################################
Title: "Two layers"
XCoords: [0, 100, 200]
YCoords: [0, 100]
Horizons:          # top down, [i][j], null is undefined
  - [[0, 0], [0, 0], [0, 0]]
  - [[10, 12], [null, 11], [10, 10]]
  - [[30, 30], [30, 30], [30, 30]]
Size: [6, 4]       # optional resampling
LayerWidth: [1, 2] # cells per layer
Faults:
  - {Point: [150, 0], Normal: [1, 0], Throw: 5}
Taper: {DX: 0.01, DY: 0}
########################################
`

// HorizonsCmd represents the horizons command
var HorizonsCmd = &cobra.Command{
	Use:   "horizons",
	Short: "Generate a corner-point grid file from horizon surfaces",
	Long: `
Resamples a stack of horizon depth surfaces, fills the layers between them
and writes the resulting grid section in GRDECL format.

gocpg horizons -I horizons.yaml -o model.grdecl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inFile, _ := cmd.Flags().GetString("inputParameters")
		outFile, _ := cmd.Flags().GetString("output")
		if inFile == "" {
			return errors.Errorf("must supply a horizon parameters file (-I, --inputParameters)\nExample File:%s",
				exampleHorizonFile)
		}
		if outFile == "" {
			return errors.New("must supply an output grid file (-o, --output)")
		}
		data, err := os.ReadFile(inFile)
		if err != nil {
			return errors.Wrapf(err, "reading %s", inFile)
		}
		hp := &InputParameters.HorizonParameters{}
		if err = hp.Parse(data); err != nil {
			return errors.Wrapf(err, "parsing %s", inFile)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			hp.Print(cmd.OutOrStdout())
		}
		sec, err := horizons.GridFromHorizons(hp.XCoords, hp.YCoords, hp.Surfaces(), hp.Options())
		if err != nil {
			return err
		}
		if err = readfiles.WriteGRDECL(outFile, sec); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"file":   outFile,
			"dims":   fmt.Sprintf("%dx%dx%d", sec.Dims[0], sec.Dims[1], sec.Dims[2]),
			"active": sec.NumActive(),
		}).Info("grid written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(HorizonsCmd)
	HorizonsCmd.Flags().StringP("inputParameters", "I", "", "YAML horizon parameters file")
	HorizonsCmd.Flags().StringP("output", "o", "", "GRDECL output file")
	HorizonsCmd.Flags().BoolP("verbose", "v", false, "print the parameters")
}
