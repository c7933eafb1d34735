package bolt

import (
	"Boltcalc/internal/material"
	"Boltcalc/internal/record"
)

type Form string

const (
	FormA Form = "A" // without split-pin holes
	FormB Form = "B" // with split-pin holes
)

// ISO2340Bolt is a clevis pin without head.
type ISO2340Bolt struct {
	base
	Form            Form
	ChamferHeight30 float64
	HoleDiameter    float64
	HoleDistance    float64
}

func NewISO2340(name string, m material.Material, form Form) *ISO2340Bolt {
	return &ISO2340Bolt{base: base{name: name, standard: ISO2340, material: m}, Form: form}
}

func (b *ISO2340Bolt) Keys() []string {
	return []string{"chamfer_height_30", "hole_diameter", "hole_distance"}
}

func (b *ISO2340Bolt) Resolve(d, length float64, src Dimensioner) error {
	return b.resolve(d, length, src, b.Keys(), func(dims map[string]float64) {
		b.ChamferHeight30 = dims["chamfer_height_30"]
		b.HoleDiameter = dims["hole_diameter"]
		b.HoleDistance = dims["hole_distance"]
	})
}

func (b *ISO2340Bolt) HasHoles() bool {
	return b.Form != FormA
}

func (b *ISO2340Bolt) CADRecord() map[string]any {
	rec := b.cadRecord()
	rec["chamfer_height_30"] = b.ChamferHeight30
	rec["hole_diameter"] = b.HoleDiameter
	rec["hole_distance"] = b.HoleDistance
	rec["hole"] = b.HasHoles()
	return rec
}

func (b *ISO2340Bolt) ReportRecord() record.Report {
	r := b.reportRecord()
	r.Add("Form:", string(b.Form))
	return r
}
