package material

// Defaults is the seed catalog written by "boltcalc materials init".
func Defaults() []Material {
	seed := []struct {
		name, number       string
		density, rm, re, e float64
		typ                Type
	}{
		{"S235JR", "1.0038", 7850, 360, 235, 210000, StructuralSteel},
		{"S355J2", "1.0577", 7850, 470, 355, 210000, StructuralSteel},
		{"C45E", "1.1191", 7850, 700, 490, 210000, HeatTreatableSteel},
		{"42CrMo4", "1.7225", 7720, 1100, 900, 210000, HeatTreatableSteel},
		{"34CrNiMo6", "1.6582", 7850, 1200, 1000, 210000, HeatTreatableSteel},
		{"31CrMoV9", "1.8519", 7850, 1100, 900, 210000, NitridingSteel},
	}
	out := make([]Material, 0, len(seed))
	for _, s := range seed {
		m, err := New(s.name, s.number, s.density, s.rm, s.re, s.e, s.typ)
		if err != nil {
			panic(err)
		}
		out = append(out, m)
	}
	return out
}
