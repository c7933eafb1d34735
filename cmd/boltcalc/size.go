package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"Boltcalc/internal/cad"
	"Boltcalc/internal/calc/pin"
	"Boltcalc/internal/calc/report"
	"Boltcalc/internal/record"

	"github.com/spf13/cobra"
)

func newSizeCmd(a *app) *cobra.Command {
	var (
		req         pin.Request
		f1, f2      float64
		writeReport bool
		writeCAD    bool
		creator     string
	)
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Size one clevis pin",
		Long: `Find the smallest standard diameter that passes the bending, shear
and pressure checks, then the standard length for the joint.

Examples:
  # Double shear, static load, loose fit (Case 1)
  boltcalc size --name P1 --standard "ISO 2341" --bolt S355J2 --rod S355J2 --fork S355J2 \
    --force 5000 --tr 30 --tf 12 --shear 2 --ka 1.25 --safety 1.5

  # Force given as two orthogonal components, with report and CAD file
  boltcalc size --name P2 --standard "ISO 2340 B" --bolt C45E --rod S355J2 --fork S355J2 \
    --f1 3000 --f2 4000 --tr 30 --tf 12 --report --cad`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("f1") || cmd.Flags().Changed("f2") {
				req.Components = &pin.Components{F1N: f1, F2N: f2}
			}
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			b, in, err := req.Build(cat)
			if err != nil {
				return err
			}
			res, err := e.Size(b, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRecord(out, "RESULT", pin.Summary(b, res))
			printRecord(out, "BOLT", b.ReportRecord())
			printRecord(out, "CALCULATION", res.ReportRecord())

			if writeReport {
				hdr, sections := pin.Document(b, in, res, creator)
				path, err := report.SaveFile(a.cfg.ReportDir, b.Name(), report.Build(hdr, sections...))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Report written to %s\n", path)
			}
			if writeCAD {
				path, err := cad.SaveFile(a.cfg.CADDir, b)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "CAD equations written to %s\n", path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Bolt name [required]")
	f.StringVar(&req.Standard, "standard", "ISO 2341", "Standard: ISO 2341, ISO 2340 A, ISO 2340 B, DIN 1445")
	f.StringVar(&req.BoltMaterial, "bolt", "", "Bolt material name or number [required]")
	f.StringVar(&req.RodMaterial, "rod", "", "Rod material name or number [required]")
	f.StringVar(&req.ForkMaterial, "fork", "", "Fork material name or number [required]")
	f.StringVar(&req.LoadType, "load", "static", "Load type: static, pulsating, alternating")
	f.StringVar(&req.Case, "case", "1", "Clamping case: 1, 2 or 3")
	f.Float64VarP(&req.ForceN, "force", "F", 0, "Resultant force (N)")
	f.Float64Var(&f1, "f1", 0, "First force component (N)")
	f.Float64Var(&f2, "f2", 0, "Second force component (N)")
	f.Float64Var(&req.RodMM, "tr", 0, "Rod thickness t_r (mm) [required]")
	f.Float64Var(&req.ForkMM, "tf", 0, "Fork thickness t_f (mm) [required]")
	f.IntVarP(&req.Shear, "shear", "n", 2, "Shear count: 1 or 2")
	f.Float64Var(&req.KA, "ka", 1, "Application factor K_A")
	f.Float64VarP(&req.Safety, "safety", "S", 1.5, "Safety factor S")
	f.BoolVar(&writeReport, "report", false, "Write the PDF report to REPORT_DIR")
	f.BoolVar(&writeCAD, "cad", false, "Write the CAD equation file to CAD_DIR")
	f.StringVar(&creator, "creator", "", "Creator shown in the report header")

	for _, name := range []string{"name", "bolt", "rod", "fork", "tr", "tf"} {
		cmd.MarkFlagRequired(name)
	}
	cmd.MarkFlagsMutuallyExclusive("force", "f1")
	cmd.MarkFlagsMutuallyExclusive("force", "f2")
	return cmd
}

func printRecord(out io.Writer, title string, r record.Report) {
	fmt.Fprintln(out, title+":")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range r {
		fmt.Fprintf(w, "  %s\t%s\n", f.Label, f.Value)
	}
	w.Flush()
	fmt.Fprintln(out)
}
