// Package bolt models the supported pin standards. Each variant knows which
// sub-dimensions it takes from the size oracle and how to present itself to
// the report and the CAD export.
package bolt

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/material"
	"Boltcalc/internal/record"
)

type Standard string

const (
	ISO2341 Standard = "ISO 2341"
	ISO2340 Standard = "ISO 2340"
	DIN1445 Standard = "DIN 1445"
)

// Dimensioner is the part of the size oracle a bolt needs to bind its
// sub-dimensions.
type Dimensioner interface {
	SubDimensions(standard string, d float64) (map[string]float64, error)
}

type Bolt interface {
	Name() string
	Standard() Standard
	Material() material.Material
	Diameter() float64
	Length() float64
	Sized() bool
	// Keys lists the sub-dimensions the variant expects from the oracle.
	Keys() []string
	// Resolve fetches the sub-dimensions for d and commits d, length and
	// the sub-dimensions together. Nothing is changed when it fails, and a
	// bolt can only be resolved once.
	Resolve(d, length float64, src Dimensioner) error
	CADRecord() map[string]any
	ReportRecord() record.Report
}

// Designations lists the values accepted by New.
var Designations = []string{"ISO 2341", "ISO 2340 A", "ISO 2340 B", "DIN 1445"}

func New(name, designation string, m material.Material) (Bolt, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	if m.IsZero() {
		return nil, apperr.Validation("bolt.New", "bolt %s: material required", name)
	}
	switch strings.ToUpper(strings.Join(strings.Fields(designation), " ")) {
	case "ISO 2341":
		return NewISO2341(name, m), nil
	case "ISO 2340", "ISO 2340 A":
		return NewISO2340(name, m, FormA), nil
	case "ISO 2340 B":
		return NewISO2340(name, m, FormB), nil
	case "DIN 1445":
		return NewDIN1445(name, m), nil
	}
	return nil, apperr.Validation("bolt.New", "unknown standard %q, expected one of %s", designation, strings.Join(Designations, ", "))
}

// CleanName replaces spaces with underscores and rejects numeric names and
// names with characters other than letters, digits and underscores.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", apperr.Validation("bolt.CleanName", "name required")
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return "", apperr.Validation("bolt.CleanName", "name %q can not be a numeric value", name)
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", apperr.Validation("bolt.CleanName", "name %q: use only letters, numbers and underscores", name)
		}
	}
	return name, nil
}

type base struct {
	name     string
	standard Standard
	material material.Material
	diameter float64
	length   float64
	sized    bool
}

func (b *base) Name() string                { return b.name }
func (b *base) Standard() Standard          { return b.standard }
func (b *base) Material() material.Material { return b.material }
func (b *base) Diameter() float64           { return b.diameter }
func (b *base) Length() float64             { return b.length }
func (b *base) Sized() bool                 { return b.sized }

// resolve looks up the sub-dimensions and hands them to commit once every
// expected key is present.
func (b *base) resolve(d, length float64, src Dimensioner, keys []string, commit func(map[string]float64)) error {
	const op = "bolt.Resolve"
	if b.sized {
		return apperr.Validation(op, "bolt %s is already sized (d=%g mm, l=%g mm)", b.name, b.diameter, b.length)
	}
	if d <= 0 || length <= 0 {
		return apperr.Validation(op, "bolt %s: diameter and length must be positive", b.name)
	}
	dims, err := src.SubDimensions(string(b.standard), d)
	if err != nil {
		return err
	}
	var missing []string
	for _, k := range keys {
		if _, ok := dims[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return apperr.Validation(op, "%s d=%g mm: missing %s", b.standard, d, strings.Join(missing, ", "))
	}
	commit(dims)
	b.diameter, b.length, b.sized = d, length, true
	return nil
}

func (b *base) cadRecord() map[string]any {
	return map[string]any{
		"name":     b.name,
		"standard": string(b.standard),
		"diameter": b.diameter,
		"length":   b.length,
	}
}

func (b *base) reportRecord() record.Report {
	var r record.Report
	r.Add("Name:", b.name)
	r.Add("Standard:", string(b.standard))
	r.Add("Material:", b.material.Name())
	r.Add("Diameter [mm]:", mm(b.diameter))
	r.Add("Length [mm]:", mm(b.length))
	return r
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
