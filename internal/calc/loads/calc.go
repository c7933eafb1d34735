package loads

import (
	"math"
	"strings"

	"Boltcalc/internal/apperr"
)

type LoadType string

const (
	Static      LoadType = "static"
	Pulsating   LoadType = "pulsating"
	Alternating LoadType = "alternating"
)

type Case string

const (
	Case1 Case = "Case 1"
	Case2 Case = "Case 2"
	Case3 Case = "Case 3"
)

// Factors returns the load factors [bending, shear, pressure]. Every tag
// other than static and pulsating gets the alternating row.
func Factors(t LoadType) [3]float64 {
	switch t {
	case Static:
		return [3]float64{0.30, 0.20, 0.35}
	case Pulsating:
		return [3]float64{0.20, 0.15, 0.25}
	default:
		return [3]float64{0.15, 0.10, 1.0}
	}
}

// MomentAndClamp returns the bending moment [Nmm] and clamping factor for
// the clamping case. Branch order matters; unmatched combinations fall
// through to the Case 3 formula.
func MomentAndClamp(c Case, fr, tr, tf float64, n int) (mb, k float64) {
	switch {
	case c == Case1:
		return fr * (tr + float64(n)*tf) / 8, 1.6
	case c == Case2 && n == 2:
		return fr * tr / 8, 1.1
	case c == Case2 && n == 1:
		return fr * tr, 1.1
	case c == Case3 && n == 2:
		return fr * tf, 1.1
	default:
		return fr * tf, 1.1
	}
}

func Resultant(f float64) float64 {
	return math.Abs(f)
}

func ResultantOf(f1, f2 float64) float64 {
	return math.Sqrt(f1*f1 + f2*f2)
}

func ParseLoadType(s string) (LoadType, error) {
	switch t := LoadType(strings.ToLower(strings.TrimSpace(s))); t {
	case Static, Pulsating, Alternating:
		return t, nil
	}
	return "", apperr.Validation("loads.ParseLoadType", "unknown load type %q", s)
}

// ParseCase accepts "Case 1", "case1" and "1".
func ParseCase(s string) (Case, error) {
	key := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	key = strings.TrimPrefix(key, "case")
	switch key {
	case "1":
		return Case1, nil
	case "2":
		return Case2, nil
	case "3":
		return Case3, nil
	}
	return "", apperr.Validation("loads.ParseCase", "unknown clamping case %q", s)
}

func (c Case) Description() string {
	switch c {
	case Case1:
		return "Case 1 (loose fit in rod and fork)"
	case Case2:
		return "Case 2 (loose fit in rod and oversized fit in fork)"
	case Case3:
		return "Case 3 (oversized fit in rod and loose fit in fork)"
	}
	return string(c)
}

func ConnectionType(n int) string {
	if n == 1 {
		return "single shear"
	}
	return "double shear"
}
