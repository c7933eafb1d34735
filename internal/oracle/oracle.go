// Package oracle provides standardized pin sizes. The sizing engine only
// relies on the Oracle interface; Table is the in-memory implementation and
// can be loaded from or written to an xlsx workbook.
package oracle

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"Boltcalc/internal/apperr"
)

type Oracle interface {
	// NextStandardDiameter returns the smallest standard diameter >= d.
	NextStandardDiameter(d float64) (float64, error)
	// StandardLength returns the standard length for the joint geometry or
	// an error matching ErrNoLength.
	StandardLength(standard string, n int, tr, tf float64) (float64, error)
	SubDimensions(standard string, d float64) (map[string]float64, error)
}

// ErrNoLength is the not-found sentinel of StandardLength.
var ErrNoLength = &apperr.Error{Op: "oracle.StandardLength", Kind: apperr.ErrNotFound, Msg: "no standard length"}

type Sheet struct {
	Keys []string
	Rows map[float64]map[string]float64
}

type Table struct {
	Diameters []float64
	Lengths   map[string][]float64
	Sheets    map[string]Sheet
}

func (t *Table) NextStandardDiameter(d float64) (float64, error) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, apperr.Validation("oracle.NextStandardDiameter", "diameter %v is not a number", d)
	}
	i := sort.SearchFloat64s(t.Diameters, d)
	if i == len(t.Diameters) {
		return 0, apperr.NotFound("oracle.NextStandardDiameter", "no standard diameter >= %g mm", d)
	}
	return t.Diameters[i], nil
}

// StandardLength looks up the grip length tr + n*tf, rounded up to whole
// millimetres. Only tabulated lengths are returned; anything in between
// yields ErrNoLength so the caller can retry with an adjusted thickness.
func (t *Table) StandardLength(standard string, n int, tr, tf float64) (float64, error) {
	lengths, ok := t.Lengths[standard]
	if !ok {
		return 0, apperr.Validation("oracle.StandardLength", "no length table for standard %q", standard)
	}
	grip := math.Ceil(tr + float64(n)*tf)
	i := sort.SearchFloat64s(lengths, grip)
	if i < len(lengths) && lengths[i] == grip {
		return grip, nil
	}
	return 0, fmt.Errorf("%s grip %g mm: %w", standard, grip, ErrNoLength)
}

func (t *Table) SubDimensions(standard string, d float64) (map[string]float64, error) {
	sheet, ok := t.Sheets[standard]
	if !ok {
		return nil, apperr.NotFound("oracle.SubDimensions", "no dimension sheet for standard %q", standard)
	}
	row, ok := sheet.Rows[d]
	if !ok {
		return nil, apperr.NotFound("oracle.SubDimensions", "%s has no row for d=%g mm", standard, d)
	}
	out := make(map[string]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, nil
}

// Normalize sorts the size lists and checks that every sheet row carries all
// of the sheet's keys.
func (t *Table) Normalize() error {
	const op = "oracle.Table"
	if len(t.Diameters) == 0 {
		return apperr.Format(op, "no standard diameters")
	}
	sort.Float64s(t.Diameters)
	for id, l := range t.Lengths {
		if len(l) == 0 {
			return apperr.Format(op, "empty length table for %s", id)
		}
		sort.Float64s(l)
	}
	for id, sheet := range t.Sheets {
		for d, row := range sheet.Rows {
			for _, k := range sheet.Keys {
				if _, ok := row[k]; !ok {
					return apperr.Format(op, "%s d=%g: missing %s", id, d, k)
				}
			}
		}
	}
	return nil
}

func (t *Table) Standards() []string {
	ids := make([]string, 0, len(t.Sheets))
	for id := range t.Sheets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsNoLength reports whether err is the length not-found sentinel.
func IsNoLength(err error) bool {
	return errors.Is(err, ErrNoLength)
}
