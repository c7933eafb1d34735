package pin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Boltcalc/internal/material"
	"Boltcalc/internal/metrics"
	"Boltcalc/internal/oracle"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, opts ...Option) *Handler {
	t.Helper()
	cat, err := material.NewCatalog(material.Defaults()...)
	require.NoError(t, err)
	return &Handler{
		Engine:  New(oracle.DefaultTable(), opts...),
		Catalog: cat,
		Metrics: metrics.New(nil),
	}
}

func body(t *testing.T, mutate func(*Request)) *bytes.Reader {
	t.Helper()
	req := Request{
		Name:         "P1",
		Standard:     "ISO 2341",
		BoltMaterial: "S355J2",
		RodMaterial:  "S355J2",
		ForkMaterial: "1.0577",
		LoadType:     "static",
		Case:         "Case 1",
		ForceN:       5000,
		RodMM:        30,
		ForkMM:       12,
		Shear:        2,
		KA:           1.25,
		Safety:       1.5,
	}
	if mutate != nil {
		mutate(&req)
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestHandlerCalc(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/pin/calc", body(t, nil)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, resp.RunID, rec.Header().Get("X-Run-ID"))
	assert.Equal(t, 20.0, resp.Result.DiameterMM)
	assert.Equal(t, 55.0, resp.Result.LengthMM)
	assert.Equal(t, []float64{16, 18, 20}, resp.Result.Trace)
	dims, err := oracle.DefaultTable().SubDimensions("ISO 2341", 20)
	require.NoError(t, err)
	assert.Equal(t, dims["head_diameter"], resp.Bolt["head_diameter"])
	assert.Equal(t, "S355J2", resp.Report.Map()["Material:"])

	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.SizingRuns.WithLabelValues("ISO 2341", "ok")))
}

func TestHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		mutate func(*Request)
		status int
	}{
		{"validation", nil, func(r *Request) { r.Shear = 3 }, http.StatusBadRequest},
		{"load type", nil, func(r *Request) { r.LoadType = "cyclic" }, http.StatusBadRequest},
		{"material", nil, func(r *Request) { r.RodMaterial = "unobtainium" }, http.StatusNotFound},
		{"exhausted", []Option{WithMaxIterations(1)}, nil, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, tt.opts...)
			rec := httptest.NewRecorder()
			h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", body(t, tt.mutate)))
			assert.Equal(t, tt.status, rec.Code)

			var out map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
			assert.NotEmpty(t, out["error"])
		})
	}

	rec := httptest.NewRecorder()
	newHandler(t).Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerReport(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t).Report(rec, httptest.NewRequest(http.MethodPost, "/", body(t, nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Calculation_Report_P1.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestHandlerCAD(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t).CAD(rec, httptest.NewRequest(http.MethodPost, "/", body(t, func(r *Request) {
		r.Standard = "ISO 2340 B"
	})))

	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "\"diameter\" = 20\n")
	assert.Contains(t, out, "\"hole\" = 1\n")
	assert.Contains(t, out, "\"standard\" = \"ISO 2340\"\n")
}

func TestWriteCADError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeCAD(rec, zap.NewNop(), "P1", map[string]any{"diameter": 20.0, "shape": struct{}{}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.NotContains(t, rec.Body.String(), "diameter")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(assert.AnError))
}
