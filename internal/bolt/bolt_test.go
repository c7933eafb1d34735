package bolt

import (
	"errors"
	"testing"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/material"
	"Boltcalc/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dimsFunc func(standard string, d float64) (map[string]float64, error)

func (f dimsFunc) SubDimensions(standard string, d float64) (map[string]float64, error) {
	return f(standard, d)
}

func s355(t *testing.T) material.Material {
	t.Helper()
	m, err := material.New("S355J2", "1.0577", 7850, 470, 355, 210000, material.StructuralSteel)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	m := s355(t)
	tests := []struct {
		designation string
		standard    Standard
	}{
		{"ISO 2341", ISO2341},
		{"iso  2340 b", ISO2340},
		{"ISO 2340 A", ISO2340},
		{"DIN 1445", DIN1445},
	}
	for _, tt := range tests {
		b, err := New("pin 1", tt.designation, m)
		require.NoError(t, err, tt.designation)
		assert.Equal(t, tt.standard, b.Standard())
		assert.Equal(t, "pin_1", b.Name())
		assert.False(t, b.Sized())
	}

	b, err := New("P", "ISO 2340 B", m)
	require.NoError(t, err)
	assert.Equal(t, FormB, b.(*ISO2340Bolt).Form)

	_, err = New("P", "ISO 8734", m)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = New("P", "DIN 1445", material.Material{})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCleanName(t *testing.T) {
	for _, bad := range []string{"", "  ", "123", "1.5", "pin-1", "a/b", "x.y"} {
		_, err := CleanName(bad)
		assert.Error(t, err, bad)
	}
	got, err := CleanName(" main pin 2 ")
	require.NoError(t, err)
	assert.Equal(t, "main_pin_2", got)
}

func TestResolveBindsEveryVariant(t *testing.T) {
	tab := oracle.DefaultTable()
	m := s355(t)
	variants := []Bolt{
		NewISO2341("A", m),
		NewISO2340("B", m, FormB),
		NewDIN1445("C", m),
	}
	for _, b := range variants {
		require.NoError(t, b.Resolve(20, 55, tab), b.Standard())
		assert.True(t, b.Sized())
		assert.Equal(t, 20.0, b.Diameter())
		assert.Equal(t, 55.0, b.Length())

		cad := b.CADRecord()
		assert.Equal(t, 20.0, cad["diameter"])
		for _, k := range b.Keys() {
			assert.Contains(t, cad, k, "%s CAD record", b.Standard())
		}
	}

	din := variants[2].(*DIN1445Bolt)
	assert.Equal(t, 30.0, din.HeadDiameter)
	assert.Equal(t, 16.0, din.ThreadDiameter)
	thread, ok := din.ReportRecord().Get("Thread:")
	require.True(t, ok)
	assert.Equal(t, "M16x22", thread)

	iso := variants[1].(*ISO2340Bolt)
	assert.Equal(t, 5.0, iso.HoleDiameter)
	assert.Equal(t, true, iso.CADRecord()["hole"])
	form, _ := iso.ReportRecord().Get("Form:")
	assert.Equal(t, "B", form)
}

func TestHoleFlag(t *testing.T) {
	b := NewISO2340("A", s355(t), FormA)
	assert.Equal(t, false, b.CADRecord()["hole"])
}

func TestResolveIsWriteOnce(t *testing.T) {
	b := NewISO2341("P", s355(t))
	tab := oracle.DefaultTable()
	require.NoError(t, b.Resolve(20, 55, tab))

	err := b.Resolve(24, 60, tab)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, 20.0, b.Diameter())
	assert.Equal(t, 55.0, b.Length())
}

func TestResolveMissingKeyLeavesBoltUntouched(t *testing.T) {
	b := NewDIN1445("P", s355(t))
	src := dimsFunc(func(string, float64) (map[string]float64, error) {
		return map[string]float64{"head_diameter": 30}, nil
	})

	err := b.Resolve(20, 55, src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "wrench_size")
	assert.False(t, b.Sized())
	assert.Zero(t, b.Diameter())
	assert.Zero(t, b.HeadDiameter)
}

func TestResolvePropagatesOracleErrors(t *testing.T) {
	b := NewDIN1445("P", s355(t))
	err := b.Resolve(5, 20, oracle.DefaultTable())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.False(t, b.Sized())
}

func TestReportRecord(t *testing.T) {
	b := NewISO2341("P", s355(t))
	require.NoError(t, b.Resolve(16, 40, oracle.DefaultTable()))
	r := b.ReportRecord()
	assert.Equal(t, []string{"Name:", "Standard:", "Material:", "Diameter [mm]:", "Length [mm]:", "Head [mm]:"}, r.Labels())
	assert.Equal(t, "S355J2", r.Map()["Material:"])
	assert.Equal(t, "Ø25 x 4.5", r.Map()["Head [mm]:"])
}
