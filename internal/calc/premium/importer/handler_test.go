package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/calc/pin"
	"Boltcalc/internal/material"
	"Boltcalc/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func fixtures(t *testing.T) (*pin.Engine, *material.Catalog) {
	t.Helper()
	c, err := material.NewCatalog(material.Defaults()...)
	require.NoError(t, err)
	return pin.New(oracle.DefaultTable()), c
}

func good(name string) []any {
	return []any{name, "ISO 2341", "S355J2", "S355J2", "1.0577", "static", "Case 1", 5000, 30, 12, 2, 1.25, 1.5}
}

func TestImport(t *testing.T) {
	e, c := fixtures(t)
	bad := good("P3")
	bad[2] = "unknown"
	short := []any{"P4", "ISO 2341"}
	buf := workbook(t, good("P1"), good("P2"), bad, short)

	res, err := Import(buf, e, c)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 2, res.Results[0].Index)
	assert.Equal(t, 20.0, res.Results[1].Result.DiameterMM)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Equal(t, 5, res.Errors[1].Row)
}

func TestImportBadFile(t *testing.T) {
	e, c := fixtures(t)
	_, err := Import(bytes.NewBufferString("not a workbook"), e, c)
	assert.True(t, errors.Is(err, apperr.ErrFormat))

	_, err = Import(workbook(t), e, c)
	assert.True(t, errors.Is(err, apperr.ErrFormat))

	_, err = ImportFile(filepath.Join(t.TempDir(), "none.xlsx"), e, c)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestParsePinRow(t *testing.T) {
	row := []string{"P1", "DIN 1445", "C45E", "S355J2", "S355J2", "pulsating", "2", "1200,5", "20", "10", "1", "1", "2"}
	req, err := parsePinRow(row)
	require.NoError(t, err)
	assert.Equal(t, 1200.5, req.ForceN)
	assert.Equal(t, 1, req.Shear)

	row[10] = "1.5"
	_, err = parsePinRow(row)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	row[10] = "x"
	_, err = parsePinRow(row)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestHandler(t *testing.T) {
	e, c := fixtures(t)
	h := &Handler{Engine: e, Catalog: c}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "pins.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook(t, good("P1")).Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Pins(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res ImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 1, res.Count)
	assert.Empty(t, res.Errors)

	rec = httptest.NewRecorder()
	h.Pins(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
