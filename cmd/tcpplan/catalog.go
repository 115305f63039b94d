package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/tcp-planner/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the sign and device library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), catalog.Default())
		},
	}
}

func printCatalog(w io.Writer, signs *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tSHAPE\tNAME")
	for _, def := range signs.All() {
		fmt.Fprintf(tw, "%c\t%s\t%s\t%s\n", catalog.Symbol(def), def.ID, def.Shape, def.Name)
	}
	return tw.Flush()
}
