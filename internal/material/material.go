package material

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/record"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Type int

const (
	StructuralSteel Type = iota + 1
	HeatTreatableSteel
	NitridingSteel
)

var typeNames = map[Type]string{
	StructuralSteel:    "STRUCTURAL_STEEL",
	HeatTreatableSteel: "HEAT_TREATABLE_STEEL",
	NitridingSteel:     "NITRIDING_STEEL",
}

func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Label is the lower-case human form, e.g. "heat treatable steel".
func (t Type) Label() string {
	return strings.ToLower(strings.ReplaceAll(t.String(), "_", " "))
}

// ParseType accepts "MaterialType.STRUCTURAL_STEEL", "STRUCTURAL_STEEL" and
// "structural steel".
func ParseType(s string) (Type, error) {
	key := strings.TrimSpace(s)
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	key = strings.ToUpper(strings.Join(strings.FieldsFunc(key, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "_"))
	for t, name := range typeNames {
		if name == key {
			return t, nil
		}
	}
	return 0, apperr.Validation("material.ParseType", "undefined material type %q", s)
}

// Material is immutable; all fields are set by New.
type Material struct {
	name            string
	number          string
	density         float64
	tensileStrength float64
	yieldStress     float64
	youngsModulus   float64
	typ             Type
}

func New(name, number string, density, tensileStrength, yieldStress, youngsModulus float64, typ Type) (Material, error) {
	const op = "material.New"
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)
	if name == "" {
		return Material{}, apperr.Validation(op, "name required")
	}
	if number == "" {
		return Material{}, apperr.Validation(op, "material %s: material number required", name)
	}
	for label, v := range map[string]float64{
		"density":          density,
		"tensile strength": tensileStrength,
		"yield stress":     yieldStress,
		"youngs modulus":   youngsModulus,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Material{}, apperr.Validation(op, "material %s: %s is not a number", name, label)
		}
	}
	if yieldStress <= 0 {
		return Material{}, apperr.Validation(op, "material %s: yield stress must be positive, got %g", name, yieldStress)
	}
	if !typ.Valid() {
		return Material{}, apperr.Validation(op, "material %s has undefined material type %v", name, typ)
	}
	return Material{
		name:            name,
		number:          number,
		density:         density,
		tensileStrength: tensileStrength,
		yieldStress:     yieldStress,
		youngsModulus:   youngsModulus,
		typ:             typ,
	}, nil
}

func (m Material) Name() string             { return m.name }
func (m Material) Number() string           { return m.number }
func (m Material) Density() float64         { return m.density }
func (m Material) TensileStrength() float64 { return m.tensileStrength }
func (m Material) YieldStress() float64     { return m.yieldStress }
func (m Material) YoungsModulus() float64   { return m.youngsModulus }
func (m Material) Type() Type               { return m.typ }
func (m Material) IsZero() bool             { return m == Material{} }

func (m Material) String() string {
	return fmt.Sprintf("%s (%.0f N/mm²)", m.name, math.Round(m.yieldStress))
}

func (m Material) NumberString() string {
	return fmt.Sprintf("%s (%.0f N/mm²)", m.number, math.Round(m.yieldStress))
}

func (m Material) ReportRecord() record.Report {
	var r record.Report
	r.Add("Name:", m.name)
	r.Add("Material number:", m.number)
	r.Add("Density [kg/m³]:", formatFloat(m.density))
	r.Add("Tensile strength [N/mm²]:", formatFloat(m.tensileStrength))
	r.Add("Yield stress [N/mm²]:", formatFloat(m.yieldStress))
	r.Add("Youngs modulus [N/mm²]:", formatFloat(m.youngsModulus))
	r.Add("Type:", cases.Title(language.English).String(m.typ.Label()))
	return r
}

// Header is the column order of a material record.
var Header = []string{"name", "matnr", "density", "tensilestrength", "yieldstress", "youngsmodulus", "type"}

func ToRecord(m Material) []string {
	return []string{
		m.name,
		m.number,
		formatFloat(m.density),
		formatFloat(m.tensileStrength),
		formatFloat(m.yieldStress),
		formatFloat(m.youngsModulus),
		"MaterialType." + m.typ.String(),
	}
}

func FromRecord(rec []string) (Material, error) {
	const op = "material.FromRecord"
	if len(rec) != len(Header) {
		return Material{}, apperr.Format(op, "expected %d fields, got %d", len(Header), len(rec))
	}
	nums := make([]float64, 4)
	for i := range nums {
		raw := strings.TrimSpace(rec[i+2])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Material{}, apperr.Validation(op, "material %s: %s %q is not a number", rec[0], Header[i+2], raw)
		}
		nums[i] = v
	}
	typ, err := ParseType(rec[6])
	if err != nil {
		return Material{}, apperr.Validation(op, "material %s has undefined material type %q", rec[0], rec[6])
	}
	return New(rec[0], rec[1], nums[0], nums[1], nums[2], nums[3], typ)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
