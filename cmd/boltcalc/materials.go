package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"Boltcalc/internal/material"

	"github.com/spf13/cobra"
)

func newMaterialsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List and edit the material file",
	}
	cmd.AddCommand(newMaterialsListCmd(a), newMaterialsAddCmd(a), newMaterialsInitCmd(a))
	return cmd
}

func newMaterialsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the materials of MATERIAL_FILE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNUMBER\tRe [N/mm²]\tRm [N/mm²]\tTYPE")
			for _, m := range cat.All() {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\n", m.Name(), m.Number(), m.YieldStress(), m.TensileStrength(), m.Type().Label())
			}
			return w.Flush()
		},
	}
}

func newMaterialsAddCmd(a *app) *cobra.Command {
	var in material.JSON
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a material, or replace the one with the same name",
		Example: `  boltcalc materials add --name 42CrMo4 --number 1.7225 --density 7720 \
    --rm 1100 --re 900 --e 210000 --type "heat treatable steel"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := in.Material()
			if err != nil {
				return err
			}
			if err := (material.FileStore{Path: a.cfg.MaterialFile}).Save(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", m)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Material name [required]")
	f.StringVar(&in.Number, "number", "", "Material number [required]")
	f.Float64Var(&in.Density, "density", 7850, "Density (kg/m³)")
	f.Float64Var(&in.TensileStrength, "rm", 0, "Tensile strength (N/mm²)")
	f.Float64Var(&in.YieldStress, "re", 0, "Yield stress (N/mm²) [required]")
	f.Float64Var(&in.YoungsModulus, "e", 210000, "Young's modulus (N/mm²)")
	f.StringVar(&in.Type, "type", "structural steel", "structural steel, heat treatable steel or nitriding steel")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("number")
	cmd.MarkFlagRequired("re")
	return cmd
}

func newMaterialsInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default materials to MATERIAL_FILE",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.MaterialFile
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				return err
			}
			store := material.FileStore{Path: path}
			for _, m := range material.Defaults() {
				if err := store.Save(cmd.Context(), m); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d materials to %s\n", len(material.Defaults()), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
