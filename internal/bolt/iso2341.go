package bolt

import (
	"Boltcalc/internal/material"
	"Boltcalc/internal/record"
)

// ISO2341Bolt is a clevis pin with head.
type ISO2341Bolt struct {
	base
	HeadDiameter  float64
	HeadThickness float64
	ChamferHeight float64
}

func NewISO2341(name string, m material.Material) *ISO2341Bolt {
	return &ISO2341Bolt{base: base{name: name, standard: ISO2341, material: m}}
}

func (b *ISO2341Bolt) Keys() []string {
	return []string{"head_diameter", "head_thickness", "chamfer_height"}
}

func (b *ISO2341Bolt) Resolve(d, length float64, src Dimensioner) error {
	return b.resolve(d, length, src, b.Keys(), func(dims map[string]float64) {
		b.HeadDiameter = dims["head_diameter"]
		b.HeadThickness = dims["head_thickness"]
		b.ChamferHeight = dims["chamfer_height"]
	})
}

func (b *ISO2341Bolt) CADRecord() map[string]any {
	rec := b.cadRecord()
	rec["head_diameter"] = b.HeadDiameter
	rec["head_thickness"] = b.HeadThickness
	rec["chamfer_height"] = b.ChamferHeight
	return rec
}

func (b *ISO2341Bolt) ReportRecord() record.Report {
	r := b.reportRecord()
	r.Add("Head [mm]:", "Ø"+mm(b.HeadDiameter)+" x "+mm(b.HeadThickness))
	return r
}
