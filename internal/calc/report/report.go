// Package report renders calculation reports as A4 PDF documents.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/record"

	"github.com/phpdave11/gofpdf"
)

const Reference = "Roloff/Matek"

type Header struct {
	Title   string
	Creator string
	Date    time.Time
}

type Section struct {
	Title string
	Rows  record.Report
}

// Build lays out the header followed by one block of label/value rows per
// section. The document is returned unwritten; check pdf.Err() after output.
func Build(h Header, sections ...Section) *gofpdf.Fpdf {
	if h.Title == "" {
		h.Title = "Calculation Report"
	}
	if h.Date.IsZero() {
		h.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(h.Title, true)
	pdf.SetCreator(h.Creator, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d | Reference: %s", pdf.PageNo(), Reference)), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(h.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", h.Date.Format("2006-01-02")))
	pdf.Ln(6)
	if h.Creator != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Creator: %s", h.Creator)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	for _, s := range sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, tr(s.Title))
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
		for _, f := range s.Rows {
			pdf.CellFormat(80, 6, tr(f.Label), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, tr(f.Value), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}
	return pdf
}

// SaveFile writes pdf as Calculation_Report_<name>.pdf in dir. An existing
// report is never overwritten; a counter is appended instead.
func SaveFile(dir, name string, pdf *gofpdf.Fpdf) (string, error) {
	const op = "report.SaveFile"
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return "", apperr.NotFound(op, "report directory %q does not exist", dir)
	}

	base := "Calculation_Report_" + name
	for i := 0; ; i++ {
		path := filepath.Join(dir, base+".pdf")
		if i > 0 {
			path = filepath.Join(dir, fmt.Sprintf("%s_%d.pdf", base, i))
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create report: %w", err)
		}
		if err := pdf.Output(f); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close report: %w", err)
		}
		return path, nil
	}
}
