package main

import (
	"context"

	"Boltcalc/internal/calc/pin"
	"Boltcalc/internal/config"
	"Boltcalc/internal/logger"
	"Boltcalc/internal/material"
	"Boltcalc/internal/oracle"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what the subcommands share once the root command has run.
type app struct {
	envFile string
	cfg     config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var materialFile, tablesFile, logLevel string

	root := &cobra.Command{
		Use:   "boltcalc",
		Short: "Clevis pin sizing tool",
		Long: `boltcalc - clevis pin sizing after Roloff/Matek

Sizes ISO 2341, ISO 2340 and DIN 1445 pins against bending, shear and
bearing pressure, picks the standard diameter and length, and writes the
calculation report and CAD equation file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if a.envFile != "" {
				files = append(files, a.envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if materialFile != "" {
				cfg.MaterialFile = materialFile
			}
			if tablesFile != "" {
				cfg.TablesFile = tablesFile
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.log, err = logger.New(cfg.LogLevel, "console")
			return err
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&a.envFile, "env", "", "dotenv file to read (default .env)")
	root.PersistentFlags().StringVar(&materialFile, "materials", "", "material file (overrides MATERIAL_FILE)")
	root.PersistentFlags().StringVar(&tablesFile, "tables", "", "standard size workbook (overrides TABLES_FILE)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newSizeCmd(a),
		newMaterialsCmd(a),
		newTablesCmd(a),
		newBatchCmd(a),
	)
	return root
}

func (a *app) table() (*oracle.Table, error) {
	if a.cfg.TablesFile == "" {
		return oracle.DefaultTable(), nil
	}
	return oracle.LoadWorkbook(a.cfg.TablesFile)
}

func (a *app) catalog(ctx context.Context) (*material.Catalog, error) {
	return material.LoadCatalog(ctx, material.FileStore{Path: a.cfg.MaterialFile})
}

func (a *app) engine() (*pin.Engine, error) {
	t, err := a.table()
	if err != nil {
		return nil, err
	}
	return pin.New(t,
		pin.WithMaxIterations(a.cfg.MaxIterations),
		pin.WithMaxLengthAttempts(a.cfg.MaxLengthAttempts),
		pin.WithLogger(a.log),
	), nil
}
