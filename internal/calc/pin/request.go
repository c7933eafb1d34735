package pin

import (
	"errors"
	"time"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/bolt"
	"Boltcalc/internal/calc/loads"
	"Boltcalc/internal/calc/report"
	"Boltcalc/internal/material"
	"Boltcalc/internal/record"
)

// Request is the user-facing form of a sizing job. Materials are referenced
// by name or material number.
type Request struct {
	Name         string      `json:"name"`
	Standard     string      `json:"standard"`
	BoltMaterial string      `json:"bolt_material"`
	RodMaterial  string      `json:"rod_material"`
	ForkMaterial string      `json:"fork_material"`
	LoadType     string      `json:"load_type"`
	Case         string      `json:"case"`
	ForceN       float64     `json:"force_n"`
	Components   *Components `json:"components,omitempty"`
	RodMM        float64     `json:"rod_mm"`
	ForkMM       float64     `json:"fork_mm"`
	Shear        int         `json:"shear"`
	KA           float64     `json:"ka"`
	Safety       float64     `json:"safety"`
}

// Build resolves the materials against c and returns a fresh, unsized bolt
// together with the engine input.
func (r Request) Build(c *material.Catalog) (bolt.Bolt, Input, error) {
	bm, err := lookup(c, r.BoltMaterial, "bolt")
	if err != nil {
		return nil, Input{}, err
	}
	rm, err := lookup(c, r.RodMaterial, "rod")
	if err != nil {
		return nil, Input{}, err
	}
	fm, err := lookup(c, r.ForkMaterial, "fork")
	if err != nil {
		return nil, Input{}, err
	}
	lt, err := loads.ParseLoadType(r.LoadType)
	if err != nil {
		return nil, Input{}, err
	}
	cs, err := loads.ParseCase(r.Case)
	if err != nil {
		return nil, Input{}, err
	}
	b, err := bolt.New(r.Name, r.Standard, bm)
	if err != nil {
		return nil, Input{}, err
	}
	return b, Input{
		LoadType:     lt,
		Case:         cs,
		ForceN:       r.ForceN,
		Components:   r.Components,
		RodMM:        r.RodMM,
		ForkMM:       r.ForkMM,
		Shear:        r.Shear,
		KA:           r.KA,
		Safety:       r.Safety,
		RodMaterial:  rm,
		ForkMaterial: fm,
	}, nil
}

func lookup(c *material.Catalog, key, role string) (material.Material, error) {
	if key == "" {
		return material.Material{}, apperr.Validation("pin.Request", "%s material required", role)
	}
	m, err := c.ByName(key)
	if errors.Is(err, apperr.ErrNotFound) {
		m, err = c.ByNumber(key)
	}
	if err != nil {
		return material.Material{}, apperr.NotFound("pin.Request", "%s material %q not in catalog", role, key)
	}
	return m, nil
}

// Document assembles the report header and sections for a sized bolt.
func Document(b bolt.Bolt, in Input, res Result, creator string) (report.Header, []report.Section) {
	mat := b.Material().ReportRecord()
	mat.Add("Rod Material:", in.RodMaterial.String())
	mat.Add("Fork Material:", in.ForkMaterial.String())

	h := report.Header{
		Title:   "Calculation Report " + b.Name(),
		Creator: creator,
		Date:    time.Now(),
	}
	return h, []report.Section{
		{Title: "General Information", Rows: b.ReportRecord()},
		{Title: "Material Information", Rows: mat},
		{Title: "Computational Information", Rows: res.ReportRecord()},
	}
}

// Summary is the short record shown by the CLI and the batch endpoints.
func Summary(b bolt.Bolt, res Result) record.Report {
	var r record.Report
	r.Add("Name:", b.Name())
	r.Add("Standard:", string(b.Standard()))
	r.Add("Diameter [mm]:", num(res.DiameterMM))
	r.Add("Length [mm]:", num(res.LengthMM))
	r.Add("Passes:", num(float64(res.Passes)))
	return r
}
