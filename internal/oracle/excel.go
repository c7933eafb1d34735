package oracle

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"Boltcalc/internal/apperr"

	"github.com/xuri/excelize/v2"
)

const (
	diameterSheet = "diameters"
	lengthSheet   = "lengths"
)

// LoadWorkbook reads a size table. Layout: sheet "diameters" with a header
// cell "d" and one diameter per row; sheet "lengths" with one column per
// standard id; and one sheet per standard id whose header row is "d"
// followed by the dimension keys.
func LoadWorkbook(path string) (*Table, error) {
	const op = "oracle.LoadWorkbook"
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound(op, "size table %s not found, check TABLES_FILE", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperr.Format(op, "opening %s: %v", path, err)
	}
	defer f.Close()

	t := &Table{Lengths: map[string][]float64{}, Sheets: map[string]Sheet{}}

	rows, err := sheetRows(f, diameterSheet)
	if err != nil {
		return nil, err
	}
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		d, err := cellFloat(diameterSheet, i+2, row[0])
		if err != nil {
			return nil, err
		}
		t.Diameters = append(t.Diameters, d)
	}

	rows, err = sheetRows(f, lengthSheet)
	if err != nil {
		return nil, err
	}
	header := rows[0]
	for col, id := range header {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		var ls []float64
		for i, row := range rows[1:] {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			l, err := cellFloat(lengthSheet, i+2, row[col])
			if err != nil {
				return nil, err
			}
			ls = append(ls, l)
		}
		t.Lengths[id] = ls
	}

	for _, name := range f.GetSheetList() {
		if name == diameterSheet || name == lengthSheet {
			continue
		}
		rows, err := sheetRows(f, name)
		if err != nil {
			return nil, err
		}
		if strings.ToLower(strings.TrimSpace(rows[0][0])) != "d" {
			return nil, apperr.Format(op, "sheet %q: first header cell must be d", name)
		}
		sheet := Sheet{Rows: map[float64]map[string]float64{}}
		for _, k := range rows[0][1:] {
			sheet.Keys = append(sheet.Keys, strings.TrimSpace(k))
		}
		for i, row := range rows[1:] {
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			d, err := cellFloat(name, i+2, row[0])
			if err != nil {
				return nil, err
			}
			vals := make(map[string]float64, len(sheet.Keys))
			for j, k := range sheet.Keys {
				if j+1 >= len(row) || strings.TrimSpace(row[j+1]) == "" {
					continue
				}
				v, err := cellFloat(name, i+2, row[j+1])
				if err != nil {
					return nil, err
				}
				vals[k] = v
			}
			sheet.Rows[d] = vals
		}
		t.Sheets[name] = sheet
	}

	if err := t.Normalize(); err != nil {
		return nil, err
	}
	return t, nil
}

// WriteWorkbook saves t in the layout read by LoadWorkbook.
func WriteWorkbook(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), diameterSheet); err != nil {
		return err
	}
	if err := setRow(f, diameterSheet, 1, []any{"d"}); err != nil {
		return err
	}
	for i, d := range t.Diameters {
		if err := setRow(f, diameterSheet, i+2, []any{d}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(lengthSheet); err != nil {
		return err
	}
	ids := make([]string, 0, len(t.Lengths))
	for id := range t.Lengths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for col, id := range ids {
		if err := setCell(f, lengthSheet, col+1, 1, id); err != nil {
			return err
		}
		for i, l := range t.Lengths[id] {
			if err := setCell(f, lengthSheet, col+1, i+2, l); err != nil {
				return err
			}
		}
	}

	for _, id := range t.Standards() {
		sheet := t.Sheets[id]
		if _, err := f.NewSheet(id); err != nil {
			return err
		}
		header := []any{"d"}
		for _, k := range sheet.Keys {
			header = append(header, k)
		}
		if err := setRow(f, id, 1, header); err != nil {
			return err
		}
		ds := make([]float64, 0, len(sheet.Rows))
		for d := range sheet.Rows {
			ds = append(ds, d)
		}
		sort.Float64s(ds)
		for i, d := range ds {
			row := []any{d}
			for _, k := range sheet.Keys {
				row = append(row, sheet.Rows[d][k])
			}
			if err := setRow(f, id, i+2, row); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func sheetRows(f *excelize.File, name string) ([][]string, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperr.Format("oracle.LoadWorkbook", "sheet %q: %v", name, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, apperr.Format("oracle.LoadWorkbook", "sheet %q has no header row", name)
	}
	return rows, nil
}

func cellFloat(sheet string, row int, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, apperr.Format("oracle.LoadWorkbook", "sheet %q row %d: %q is not a number", sheet, row, raw)
	}
	return v, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}
