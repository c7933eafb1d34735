// Package record defines the ordered label/value records handed to the
// report and the CAD consumers.
package record

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report keeps the insertion order of its fields; the PDF renders them in
// that order.
type Report []Field

func (r *Report) Add(label, value string) {
	*r = append(*r, Field{Label: label, Value: value})
}

func (r Report) Get(label string) (string, bool) {
	for _, f := range r {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

func (r Report) Labels() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Label
	}
	return out
}

func (r Report) Map() map[string]string {
	out := make(map[string]string, len(r))
	for _, f := range r {
		out[f.Label] = f.Value
	}
	return out
}
