package main

import (
	"fmt"
	"text/tabwriter"

	"Boltcalc/internal/calc/premium/importer"

	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.xlsx>",
		Short: "Size every joint listed in a workbook",
		Long: `Size every row of the first sheet. Row 1 is the header; the columns are
name, standard, bolt_material, rod_material, fork_material, load_type, case,
force_n, rod_mm, fork_mm, shear, ka, safety. Rows that fail are listed with
their row number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			res, err := importer.ImportFile(args[0], e, cat)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tNAME\tSTANDARD\td [mm]\tl [mm]\tPASSES")
			for _, it := range res.Results {
				fmt.Fprintf(w, "%d\t%v\t%s\t%g\t%g\t%d\n", it.Index, it.Bolt["name"], it.Result.Standard,
					it.Result.DiameterMM, it.Result.LengthMM, it.Result.Passes)
			}
			w.Flush()
			for _, re := range res.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "row %d: %s\n", re.Row, re.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sized, %d failed\n", res.Count, len(res.Errors))
			return nil
		},
	}
}
