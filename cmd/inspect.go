package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arbor-analytics/causalprep/internal/prep"
	"github.com/arbor-analytics/causalprep/internal/tabio"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset>",
	Short: "Profile the columns of a dataset file",
	Long:  "Reads a CSV or XLSX dataset and reports each column's inferred type and its non-null, missing, and distinct value counts.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := tabio.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "inspect: read dataset")
		}

		profiles := prep.Profile(t)

		switch inspectFormat {
		case "table":
			fmt.Fprintf(os.Stdout, "%s: %d rows, %d columns\n\n", args[0], t.NumRows(), t.NumCols())
			return prep.WriteProfiles(os.Stdout, profiles)
		case "yaml":
			data, err := yaml.Marshal(profiles)
			if err != nil {
				return eris.Wrap(err, "inspect: marshal profiles")
			}
			_, err = os.Stdout.Write(data)
			return err
		default:
			return eris.Errorf("inspect: unknown format %q (want table or yaml)", inspectFormat)
		}
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "output format: table or yaml")

	rootCmd.AddCommand(inspectCmd)
}
