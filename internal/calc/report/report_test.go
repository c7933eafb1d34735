package report

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() (Header, []Section) {
	var rows record.Report
	rows.Add("Diameter [mm]:", "20")
	rows.Add("Head [mm]:", "Ø25 x 4.5")
	return Header{Title: "Pin P1", Creator: "test", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		[]Section{{Title: "General Information", Rows: rows}}
}

func TestBuild(t *testing.T) {
	h, sections := sample()
	pdf := Build(h, sections...)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 1, pdf.PageCount())
}

func TestSaveFileCounter(t *testing.T) {
	dir := t.TempDir()
	h, sections := sample()

	first, err := SaveFile(dir, "P1", Build(h, sections...))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Calculation_Report_P1.pdf"), first)

	second, err := SaveFile(dir, "P1", Build(h, sections...))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Calculation_Report_P1_1.pdf"), second)

	for _, p := range []string{first, second} {
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, st.Size())
	}
}

func TestSaveFileOutputError(t *testing.T) {
	dir := t.TempDir()
	h, sections := sample()
	pdf := Build(h, sections...)
	pdf.SetError(errors.New("font missing"))

	_, err := SaveFile(dir, "P1", pdf)
	require.Error(t, err)
	_, err = os.Stat(filepath.Join(dir, "Calculation_Report_P1.pdf"))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "failed report is removed")

	path, err := SaveFile(dir, "P1", Build(h, sections...))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Calculation_Report_P1.pdf"), path)
}

func TestSaveFileMissingDir(t *testing.T) {
	h, sections := sample()
	_, err := SaveFile(filepath.Join(t.TempDir(), "nope"), "P1", Build(h, sections...))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
