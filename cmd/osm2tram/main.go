package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LdDl/osm2tram"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "osm2tram <extract.osm.pbf> <output.json>",
	Short: "Extracts tram lines and stops from OpenStreetMap extract",
	Long: `osm2tram reads an OpenStreetMap extract (*.osm.pbf, *.osm or *.xml),
collects every route relation with its ways and stops and writes tram lines
and stations as JSON (or CSV when output name ends with .csv).`,
	Version:       version,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args[0], args[1])
	},
}

func run(ctx context.Context, osmFileName, out string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	parser := osm2tram.NewParser(osmFileName)
	doc, err := parser.Parse(ctx)
	if err != nil {
		return err
	}
	err = osm2tram.Export(doc, out)
	if err != nil {
		return errors.Wrapf(err, "Can't export to '%s'", out)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
