// Package importer sizes the joints listed in an uploaded spreadsheet.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/calc/pin"
	"Boltcalc/internal/calc/premium/batch"
	"Boltcalc/internal/material"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const MaxUploadSize = 10 << 20

// Columns is the expected header row of an import sheet.
var Columns = []string{
	"name", "standard", "bolt_material", "rod_material", "fork_material",
	"load_type", "case", "force_n", "rod_mm", "fork_mm", "shear", "ka", "safety",
}

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	Count   int          `json:"count"`
	Results []batch.Item `json:"results"`
	Errors  []RowError   `json:"errors,omitempty"`
}

type Handler struct {
	Engine  *pin.Engine
	Catalog *material.Catalog
	Log     *zap.Logger
}

func (h *Handler) Pins(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(file, h.Engine, h.Catalog)
	if err != nil {
		log := h.Log
		if log == nil {
			log = zap.NewNop()
		}
		pin.WriteError(w, log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func ImportFile(path string, e *pin.Engine, c *material.Catalog) (ImportResult, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return ImportResult{}, apperr.NotFound("importer.ImportFile", "%s does not exist", path)
	}
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()
	return Import(f, e, c)
}

// Import sizes every data row of the first sheet. Rows that can not be
// parsed or sized are reported with their 1-based row number and skipped.
func Import(r io.Reader, e *pin.Engine, c *material.Catalog) (ImportResult, error) {
	const op = "importer.Import"
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, apperr.Format(op, "invalid file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		return ImportResult{}, apperr.Format(op, "empty sheet")
	}

	res := ImportResult{Results: []batch.Item{}}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		req, err := parsePinRow(row)
		if err == nil {
			var item batch.Item
			item, err = batch.SizeOne(e, c, req)
			if err == nil {
				item.Index = i + 1
				res.Results = append(res.Results, item)
				continue
			}
		}
		res.Errors = append(res.Errors, RowError{Row: i + 1, Error: err.Error()})
	}
	res.Count = len(res.Results)
	return res, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parsePinRow(row []string) (pin.Request, error) {
	if len(row) < len(Columns) {
		return pin.Request{}, apperr.Format("importer.Import", "expected %d columns, got %d", len(Columns), len(row))
	}
	nums := make([]float64, 0, 6)
	for i := 7; i < len(Columns); i++ {
		v, err := toFloat(row[i])
		if err != nil {
			return pin.Request{}, apperr.Validation("importer.Import", "column %s: %q is not a number", Columns[i], row[i])
		}
		nums = append(nums, v)
	}
	if nums[3] != float64(int(nums[3])) {
		return pin.Request{}, apperr.Validation("importer.Import", "column shear: %q is not an integer", row[10])
	}
	return pin.Request{
		Name:         row[0],
		Standard:     row[1],
		BoltMaterial: strings.TrimSpace(row[2]),
		RodMaterial:  strings.TrimSpace(row[3]),
		ForkMaterial: strings.TrimSpace(row[4]),
		LoadType:     row[5],
		Case:         row[6],
		ForceN:       nums[0],
		RodMM:        nums[1],
		ForkMM:       nums[2],
		Shear:        int(nums[3]),
		KA:           nums[4],
		Safety:       nums[5],
	}, nil
}

func toFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}
