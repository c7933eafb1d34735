package oracle

var diameters = []float64{3, 4, 5, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 27, 30, 33, 36, 40, 45, 50, 55, 60, 70, 80, 90, 100}

var lengths = []float64{6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100, 110, 120, 130, 140, 150, 160, 170, 180, 190, 200}

// columns maps each key to one value per entry of ds.
func sheet(ds []float64, keys []string, columns map[string][]float64) Sheet {
	s := Sheet{Keys: keys, Rows: make(map[float64]map[string]float64, len(ds))}
	for i, d := range ds {
		row := make(map[string]float64, len(keys))
		for _, k := range keys {
			row[k] = columns[k][i]
		}
		s.Rows[d] = row
	}
	return s
}

// DefaultTable returns the built-in ISO 2340, ISO 2341 and DIN 1445 data.
// Deployments that maintain their own tables load them with LoadWorkbook.
func DefaultTable() *Table {
	din := diameters[4:]
	t := &Table{
		Diameters: append([]float64(nil), diameters...),
		Lengths: map[string][]float64{
			"ISO 2340": append([]float64(nil), lengths...),
			"ISO 2341": append([]float64(nil), lengths...),
			"DIN 1445": append([]float64(nil), lengths[2:]...),
		},
		Sheets: map[string]Sheet{
			"ISO 2340": sheet(diameters, []string{"chamfer_height_30", "hole_diameter", "hole_distance"}, map[string][]float64{
				"chamfer_height_30": {0.5, 0.6, 0.75, 0.8, 1, 1, 1.6, 1.6, 1.6, 1.6, 2, 2, 2, 2.5, 2.5, 2.5, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4},
				"hole_diameter":     {0.8, 1, 1.2, 1.6, 2, 3.2, 3.2, 4, 4, 5, 5, 5, 6.3, 6.3, 8, 8, 8, 8, 10, 10, 10, 10, 13, 13, 13, 13},
				"hole_distance":     {1.6, 2.2, 2.9, 3.2, 3.5, 4.5, 5.5, 6, 6, 7, 8, 8, 9, 9, 10, 10, 10, 10, 12, 12, 14, 14, 16, 16, 16, 16},
			}),
			"ISO 2341": sheet(diameters, []string{"head_diameter", "head_thickness", "chamfer_height"}, map[string][]float64{
				"head_diameter":  {5, 6, 8, 10, 14, 18, 20, 22, 25, 28, 30, 33, 36, 40, 44, 47, 50, 55, 60, 66, 72, 78, 90, 100, 110, 120},
				"head_thickness": {1, 1, 1.6, 2, 3, 4, 4, 4, 4.5, 5, 5, 5.5, 6, 6, 8, 8, 8, 8, 9, 9, 11, 12, 13, 13, 14, 16},
				"chamfer_height": {0.5, 0.5, 1, 1, 1, 1, 1.6, 1.6, 1.6, 1.6, 2, 2, 2, 2.5, 2.5, 2.5, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4},
			}),
			"DIN 1445": sheet(din, []string{
				"chamfer_height", "head_diameter", "head_thickness", "radius", "wrench_size",
				"thread_diameter", "thread_length", "undercut_diameter", "undercut_length", "undercut_radius",
			}, map[string][]float64{
				"chamfer_height":    {1, 1, 1.6, 1.6, 1.6, 1.6, 2, 2, 2, 2.5, 2.5, 2.5, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4},
				"head_diameter":     {14, 18, 20, 22, 25, 28, 30, 33, 36, 40, 44, 47, 50, 55, 60, 66, 72, 78, 90, 100, 110, 120},
				"head_thickness":    {3, 4, 4, 4, 4.5, 5, 5, 5.5, 6, 6, 8, 8, 8, 8, 9, 9, 11, 12, 13, 13, 14, 16},
				"radius":            {0.6, 0.6, 0.6, 0.6, 0.6, 0.6, 0.8, 0.8, 0.8, 1, 1, 1, 1, 1, 1, 1, 1.6, 1.6, 1.6, 2, 2, 2},
				"wrench_size":       {11, 14, 16, 18, 20, 22, 24, 27, 30, 32, 36, 41, 41, 46, 50, 55, 60, 65, 75, 80, 90, 100},
				"thread_diameter":   {6, 8, 10, 12, 14, 16, 16, 20, 20, 24, 24, 30, 30, 36, 36, 42, 48, 48, 56, 64, 72, 80},
				"thread_length":     {10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 34, 36, 40, 44, 48, 52, 56, 64, 72, 80, 88},
				"undercut_diameter": {4.7, 6.4, 8.1, 9.8, 11.8, 13.5, 13.5, 17, 17, 20.5, 20.5, 25.5, 25.5, 31, 31, 36.5, 42, 42, 49, 57, 65, 73},
				"undercut_length":   {3, 3.5, 4, 4.5, 5, 5.5, 5.5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 11, 11, 12, 14, 14, 16},
				"undercut_radius":   {0.4, 0.6, 0.6, 0.8, 0.8, 1, 1, 1, 1, 1.2, 1.2, 1.6, 1.6, 1.6, 1.6, 2, 2, 2, 2.5, 2.5, 3, 3},
			}),
		},
	}
	return t
}
