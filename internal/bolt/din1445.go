package bolt

import (
	"fmt"
	"math"

	"Boltcalc/internal/material"
	"Boltcalc/internal/record"
)

// DIN1445Bolt is a headed pin with threaded end and undercut.
type DIN1445Bolt struct {
	base
	ChamferHeight    float64
	HeadDiameter     float64
	HeadThickness    float64
	Radius           float64
	WrenchSize       float64
	ThreadDiameter   float64
	ThreadLength     float64
	UndercutDiameter float64
	UndercutLength   float64
	UndercutRadius   float64
}

func NewDIN1445(name string, m material.Material) *DIN1445Bolt {
	return &DIN1445Bolt{base: base{name: name, standard: DIN1445, material: m}}
}

func (b *DIN1445Bolt) Keys() []string {
	return []string{
		"chamfer_height", "head_diameter", "head_thickness", "radius", "wrench_size",
		"thread_diameter", "thread_length", "undercut_diameter", "undercut_length", "undercut_radius",
	}
}

func (b *DIN1445Bolt) Resolve(d, length float64, src Dimensioner) error {
	return b.resolve(d, length, src, b.Keys(), func(dims map[string]float64) {
		b.ChamferHeight = dims["chamfer_height"]
		b.HeadDiameter = dims["head_diameter"]
		b.HeadThickness = dims["head_thickness"]
		b.Radius = dims["radius"]
		b.WrenchSize = dims["wrench_size"]
		b.ThreadDiameter = dims["thread_diameter"]
		b.ThreadLength = dims["thread_length"]
		b.UndercutDiameter = dims["undercut_diameter"]
		b.UndercutLength = dims["undercut_length"]
		b.UndercutRadius = dims["undercut_radius"]
	})
}

func (b *DIN1445Bolt) CADRecord() map[string]any {
	rec := b.cadRecord()
	rec["chamfer_height"] = b.ChamferHeight
	rec["head_diameter"] = b.HeadDiameter
	rec["head_thickness"] = b.HeadThickness
	rec["radius"] = b.Radius
	rec["wrench_size"] = b.WrenchSize
	rec["thread_diameter"] = b.ThreadDiameter
	rec["thread_length"] = b.ThreadLength
	rec["undercut_diameter"] = b.UndercutDiameter
	rec["undercut_length"] = b.UndercutLength
	rec["undercut_radius"] = b.UndercutRadius
	return rec
}

func (b *DIN1445Bolt) ReportRecord() record.Report {
	r := b.reportRecord()
	r.Add("Thread:", fmt.Sprintf("M%.0fx%s", math.Round(b.ThreadDiameter), mm(b.ThreadLength)))
	return r
}
