// Package pin sizes clevis pins against bending, shear and bearing
// pressure (Roloff/Matek). Diameters and lengths come from a size oracle;
// the engine only verifies them.
package pin

import (
	"errors"
	"math"
	"strconv"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/bolt"
	"Boltcalc/internal/calc/loads"
	"Boltcalc/internal/material"
	"Boltcalc/internal/oracle"
	"Boltcalc/internal/record"

	"go.uber.org/zap"
)

const (
	DefaultMaxIterations     = 64
	DefaultMaxLengthAttempts = 32
)

type Components struct {
	F1N float64 `json:"f1_n"`
	F2N float64 `json:"f2_n"`
}

type Input struct {
	LoadType loads.LoadType `json:"load_type"`
	Case     loads.Case     `json:"case"`
	// ForceN is the resultant force; ignored when Components is set.
	ForceN     float64     `json:"force_n"`
	Components *Components `json:"components,omitempty"`
	RodMM      float64     `json:"rod_mm"`
	ForkMM     float64     `json:"fork_mm"`
	Shear      int         `json:"shear"`
	KA         float64     `json:"ka"`
	Safety     float64     `json:"safety"`

	RodMaterial  material.Material `json:"-"`
	ForkMaterial material.Material `json:"-"`
}

func (in Input) Resultant() float64 {
	if in.Components != nil {
		return loads.ResultantOf(in.Components.F1N, in.Components.F2N)
	}
	return loads.Resultant(in.ForceN)
}

func (in Input) validate() error {
	const op = "pin.Size"
	switch {
	case !positive(in.RodMM) || !positive(in.ForkMM):
		return apperr.Validation(op, "rod and fork thickness must be positive")
	case in.Shear != 1 && in.Shear != 2:
		return apperr.Validation(op, "shear count must be 1 or 2, got %d", in.Shear)
	case !positive(in.KA):
		return apperr.Validation(op, "application factor must be positive")
	case !positive(in.Safety):
		return apperr.Validation(op, "safety factor must be positive")
	case in.RodMaterial.IsZero() || in.ForkMaterial.IsZero():
		return apperr.Validation(op, "rod and fork material required")
	}
	if fr := in.Resultant(); fr == 0 || math.IsNaN(fr) || math.IsInf(fr, 0) {
		return apperr.Validation(op, "resultant force must be a non-zero number")
	}
	return nil
}

// positive is false for NaN and ±Inf.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Stresses of one verification pass [N/mm²]. Checks after the first
// failing one are not evaluated and stay zero.
type Stresses struct {
	BendingAllowed  float64 `json:"bending_allowed"`
	Bending         float64 `json:"bending"`
	ShearAllowed    float64 `json:"shear_allowed"`
	Shear           float64 `json:"shear"`
	PressureAllowed float64 `json:"pressure_allowed"`
	PressureFork    float64 `json:"pressure_fork"`
	PressureRod     float64 `json:"pressure_rod"`
}

type Result struct {
	Standard    bolt.Standard  `json:"standard"`
	LoadType    loads.LoadType `json:"load_type"`
	Case        loads.Case     `json:"case"`
	Shear       int            `json:"shear"`
	KA          float64        `json:"ka"`
	Safety      float64        `json:"safety"`
	ResultantN  float64        `json:"resultant_n"`
	LoadFactors [3]float64     `json:"load_factors"`
	MomentNmm   float64        `json:"moment_nmm"`
	ClampFactor float64        `json:"clamp_factor"`
	SizeFactor  float64        `json:"size_factor"`
	EstimateMM  float64        `json:"estimate_mm"`
	DiameterMM  float64        `json:"diameter_mm"`
	LengthMM    float64        `json:"length_mm"`
	Stresses    Stresses       `json:"stresses"`
	Passes      int            `json:"passes"`
	Trace       []float64      `json:"trace"`
}

type Engine struct {
	oracle            oracle.Oracle
	maxIterations     int
	maxLengthAttempts int
	log               *zap.Logger
}

type Option func(*Engine)

func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

func WithMaxLengthAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxLengthAttempts = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an engine backed by o. An Engine holds no per-run state and
// may be shared.
func New(o oracle.Oracle, opts ...Option) *Engine {
	e := &Engine{
		oracle:            o,
		maxIterations:     DefaultMaxIterations,
		maxLengthAttempts: DefaultMaxLengthAttempts,
		log:               zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SizeFactor is the size correction k_t for diameter d [mm].
func SizeFactor(d float64, t material.Type) float64 {
	if t == material.HeatTreatableSteel {
		return clamp(1-0.41*math.Log10(d/16), 0.60, 1.0)
	}
	return clamp(1-0.23*math.Log10(d/100), 0.89, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// state is the working record of one sizing run.
type state struct {
	in          Input
	fr          float64
	l           [3]float64
	mb          float64
	k           float64
	kt          float64
	re          float64
	reMin       float64
	boltType    material.Type
	stresses    Stresses
	lastFailure string
}

// verify runs the three checks for d and returns the name of the first one
// that fails, or "" when d is sufficient.
func (s *state) verify(d float64) string {
	in := s.in
	s.kt = SizeFactor(d, s.boltType)
	s.stresses = Stresses{}
	st := &s.stresses

	st.BendingAllowed = s.kt * s.re * s.l[0]
	st.Bending = in.KA * s.mb * 32 / (math.Pi * d * d * d)
	if st.BendingAllowed/in.Safety <= st.Bending {
		return "bending"
	}

	st.ShearAllowed = s.kt * s.re * s.l[1]
	st.Shear = 4.0 / 3.0 * in.KA * s.fr / (math.Pi * (d * d / 4) * 2)
	if st.ShearAllowed/in.Safety <= st.Shear {
		return "shear"
	}

	st.PressureAllowed = s.kt * s.reMin * s.l[2]
	st.PressureFork = in.KA * s.fr / (d * float64(in.Shear) * in.ForkMM)
	st.PressureRod = in.KA * s.fr / (d * in.RodMM)
	// Both margins have to be violated; the safety factor divides on the
	// fork side and multiplies on the rod side.
	if st.PressureAllowed/in.Safety <= st.PressureFork && st.PressureAllowed*in.Safety <= st.PressureRod {
		return "pressure"
	}
	return ""
}

// Size finds the smallest standard diameter that passes all checks, then the
// standard length, and resolves b with both. On error b is left unsized.
func (e *Engine) Size(b bolt.Bolt, in Input) (Result, error) {
	const op = "pin.Size"
	if b == nil {
		return Result{}, apperr.Validation(op, "bolt required")
	}
	if b.Sized() {
		return Result{}, apperr.Validation(op, "bolt %s is already sized", b.Name())
	}
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	s := &state{in: in, fr: in.Resultant(), l: loads.Factors(in.LoadType)}
	s.mb, s.k = loads.MomentAndClamp(in.Case, s.fr, in.RodMM, in.ForkMM, in.Shear)
	s.re = b.Material().YieldStress()
	s.boltType = b.Material().Type()
	s.reMin = math.Min(math.Min(in.RodMaterial.YieldStress(), in.ForkMaterial.YieldStress()), s.re)

	log := e.log.With(zap.String("bolt", b.Name()), zap.String("standard", string(b.Standard())))

	d0 := s.k * math.Sqrt(in.KA*s.fr*in.Safety/(s.l[0]*s.re))
	d, err := e.oracle.NextStandardDiameter(d0)
	if err != nil {
		return Result{}, err
	}

	var trace []float64
	for pass := 1; ; pass++ {
		if pass > e.maxIterations {
			return Result{}, apperr.Exhausted(op, "no sufficient diameter within %d passes (last d=%g mm, %s check failed)", e.maxIterations, d, s.lastFailure)
		}
		trace = append(trace, d)
		s.lastFailure = s.verify(d)
		log.Debug("verification pass",
			zap.Int("pass", pass),
			zap.Float64("d", d),
			zap.Float64("kt", s.kt),
			zap.String("failed", s.lastFailure))
		if s.lastFailure == "" {
			break
		}

		next, err := e.oracle.NextStandardDiameter(d + 1)
		if errors.Is(err, apperr.ErrNotFound) {
			return Result{}, apperr.Exhausted(op, "diameter table exhausted after d=%g mm (%s check failed)", d, s.lastFailure)
		}
		if err != nil {
			return Result{}, err
		}
		if next <= d {
			return Result{}, apperr.Format(op, "size oracle returned %g mm for a request above %g mm", next, d)
		}
		d = next
	}

	length, err := e.standardLength(b, in)
	if err != nil {
		return Result{}, err
	}
	if err := b.Resolve(d, length, e.oracle); err != nil {
		return Result{}, err
	}
	log.Debug("pin sized", zap.Float64("d", d), zap.Float64("l", length), zap.Int("passes", len(trace)))

	return Result{
		Standard:    b.Standard(),
		LoadType:    in.LoadType,
		Case:        in.Case,
		Shear:       in.Shear,
		KA:          in.KA,
		Safety:      in.Safety,
		ResultantN:  s.fr,
		LoadFactors: s.l,
		MomentNmm:   s.mb,
		ClampFactor: s.k,
		SizeFactor:  s.kt,
		EstimateMM:  d0,
		DiameterMM:  d,
		LengthMM:    length,
		Stresses:    s.stresses,
		Passes:      len(trace),
		Trace:       trace,
	}, nil
}

// standardLength asks the oracle for the joint length, growing the trial
// rod thickness by 1 mm per attempt while the oracle has no entry.
func (e *Engine) standardLength(b bolt.Bolt, in Input) (float64, error) {
	for i := 0; i < e.maxLengthAttempts; i++ {
		l, err := e.oracle.StandardLength(string(b.Standard()), in.Shear, in.RodMM+float64(i), in.ForkMM)
		if err == nil {
			if l <= 0 {
				return 0, apperr.Format("pin.Size", "size oracle returned length %g mm", l)
			}
			return l, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return 0, err
		}
	}
	return 0, apperr.Exhausted("pin.Size", "no standard %s length for grip %g mm within %d attempts",
		b.Standard(), in.RodMM+float64(in.Shear)*in.ForkMM, e.maxLengthAttempts)
}

func (r Result) ReportRecord() record.Report {
	var rep record.Report
	rep.Add("Resulting Force [N]:", num(r.ResultantN))
	rep.Add("Safety Factor [-]:", num(r.Safety))
	rep.Add("Application Factor [-]:", num(r.KA))
	rep.Add("Connection Type:", loads.ConnectionType(r.Shear))
	rep.Add("Load Type:", string(r.LoadType))
	rep.Add("Clamping Case:", r.Case.Description())
	rep.Add("Load Factor Bending [-]:", num(r.LoadFactors[0]))
	rep.Add("Load Factor Shear [-]:", num(r.LoadFactors[1]))
	rep.Add("Load Factor Pressure [-]:", num(r.LoadFactors[2]))
	rep.Add("Clamping Factor [-]:", num(r.ClampFactor))
	rep.Add("Size Factor [-]:", num(r.SizeFactor))
	rep.Add("Bending Moment [Nmm]:", num(r.MomentNmm))
	rep.Add("Allowed Bending Stress [N/mm²]:", num(r.Stresses.BendingAllowed))
	rep.Add("Bending Stress [N/mm²]:", round2(r.Stresses.Bending))
	rep.Add("Allowed Shear Stress [N/mm²]:", num(r.Stresses.ShearAllowed))
	rep.Add("Shear Stress [N/mm²]:", round2(r.Stresses.Shear))
	rep.Add("Allowed Pressure [N/mm²]:", num(r.Stresses.PressureAllowed))
	rep.Add("Pressure Fork [N/mm²]:", round2(r.Stresses.PressureFork))
	rep.Add("Pressure Rod [N/mm²]:", round2(r.Stresses.PressureRod))
	return rep
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
