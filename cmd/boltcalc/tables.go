package main

import (
	"fmt"
	"strings"

	"Boltcalc/internal/oracle"

	"github.com/spf13/cobra"
)

func newTablesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Work with the standard size workbook",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the active size tables to a workbook",
		Long: `Write the size tables in use (TABLES_FILE, or the built-in ones) to a
workbook. Edit it and point TABLES_FILE at it to use your own data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.table()
			if err != nil {
				return err
			}
			if err := oracle.WriteWorkbook(args[0], t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", args[0], strings.Join(t.Standards(), ", "))
			return nil
		},
	})
	return cmd
}
