package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"Boltcalc/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	dir := t.TempDir()
	mats := filepath.Join(dir, "materials.mat")
	t.Setenv("REPORT_DIR", dir)
	t.Setenv("CAD_DIR", dir)
	t.Setenv("TABLES_FILE", "")

	out, err := run(t, "--materials", mats, "materials", "init")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote 6 materials")

	_, err = run(t, "--materials", mats, "materials", "init")
	assert.Error(t, err)

	out, err = run(t, "--materials", mats, "materials", "add", "--name", "S275JR", "--number", "1.0044", "--re", "275", "--rm", "430")
	require.NoError(t, err, out)

	out, err = run(t, "--materials", mats, "materials", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "S355J2")
	assert.Contains(t, out, "S275JR")

	out, err = run(t, "--materials", mats, "size",
		"--name", "P1", "--standard", "ISO 2341", "--bolt", "S355J2", "--rod", "S355J2", "--fork", "1.0577",
		"--force", "5000", "--tr", "30", "--tf", "12", "--shear", "2", "--ka", "1.25", "--safety", "1.5",
		"--report", "--cad")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Diameter [mm]:")
	assert.FileExists(t, filepath.Join(dir, "Calculation_Report_P1.pdf"))
	assert.FileExists(t, filepath.Join(dir, "P1.txt"))

	cad, err := os.ReadFile(filepath.Join(dir, "P1.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(cad), "\"diameter\" = 20\n")

	_, err = run(t, "--materials", mats, "size", "--name", "P2", "--bolt", "nope", "--rod", "S355J2", "--fork", "S355J2",
		"--force", "5000", "--tr", "30", "--tf", "12")
	assert.Error(t, err)
}

func TestTablesExport(t *testing.T) {
	t.Setenv("TABLES_FILE", "")
	path := filepath.Join(t.TempDir(), "tables.xlsx")
	out, err := run(t, "tables", "export", path)
	require.NoError(t, err, out)

	got, err := oracle.LoadWorkbook(path)
	require.NoError(t, err)
	assert.Equal(t, oracle.DefaultTable().Diameters, got.Diameters)

	out, err = run(t, "--tables", path, "tables", "export", filepath.Join(t.TempDir(), "copy.xlsx"))
	require.NoError(t, err, out)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	mats := filepath.Join(dir, "materials.mat")
	t.Setenv("TABLES_FILE", "")
	_, err := run(t, "--materials", mats, "materials", "init")
	require.NoError(t, err)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"name", "standard", "bolt_material", "rod_material", "fork_material", "load_type", "case", "force_n", "rod_mm", "fork_mm", "shear", "ka", "safety"},
		{"P1", "DIN 1445", "S355J2", "S355J2", "S355J2", "static", "1", 5000, 30, 12, 2, 1.25, 1.5},
		{"P2", "ISO 2341", "missing", "S355J2", "S355J2", "static", "1", 5000, 30, 12, 2, 1.25, 1.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	book := filepath.Join(dir, "pins.xlsx")
	require.NoError(t, f.SaveAs(book))
	require.NoError(t, f.Close())

	out, err := run(t, "--materials", mats, "batch", book)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 sized, 1 failed")
	assert.Contains(t, out, "row 3:")
}
