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
	"strings"

	"github.com/spf13/cobra"
)

// RegionsCmd represents the regions command
var RegionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Report region numbers of the mesh cells",
	Long: `
Builds the mesh of a GRDECL file and lists, for every requested region
array, the region number of each emitted cell and the number of tables
it refers to. Missing arrays report region 1 everywhere.

gocpg regions -F model.grdecl -r SATNUM,PVTNUM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridFile, _ := cmd.Flags().GetString("gridFile")
		outFile, _ := cmd.Flags().GetString("output")
		names, _ := cmd.Flags().GetStringSlice("region")
		sec, m, _, _, err := buildMesh(cmd, gridFile)
		if err != nil {
			return err
		}
		out := make([]RegionExport, 0, len(names))
		for _, name := range names {
			name = strings.ToUpper(name)
			vals, err := sec.CellRegion(name, m.CellMap)
			if err != nil {
				return err
			}
			out = append(out, RegionExport{Name: name, Tables: sec.NumberOfTables(name), Cells: vals})
		}
		return writeJSON(cmd.OutOrStdout(), outFile, out)
	},
}

func init() {
	rootCmd.AddCommand(RegionsCmd)
	RegionsCmd.Flags().StringP("gridFile", "F", "", "corner-point grid file in GRDECL format")
	RegionsCmd.Flags().StringP("output", "o", "", "JSON output file, stdout when empty")
	RegionsCmd.Flags().StringSliceP("region", "r", []string{"SATNUM", "PVTNUM", "EQLNUM"}, "region arrays to report")
	addBuildFlags(RegionsCmd)
}
