package pin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/auth"
	"Boltcalc/internal/bolt"
	"Boltcalc/internal/cad"
	"Boltcalc/internal/calc/report"
	"Boltcalc/internal/material"
	"Boltcalc/internal/metrics"
	"Boltcalc/internal/record"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Response struct {
	RunID  string         `json:"run_id"`
	Bolt   map[string]any `json:"bolt"`
	Report record.Report  `json:"report"`
	Result Result         `json:"result"`
}

type Handler struct {
	Engine  *Engine
	Catalog *material.Catalog
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// Run builds and sizes one request, recording metrics for the run.
func (h *Handler) Run(req Request) (bolt.Bolt, Input, Result, error) {
	b, in, err := req.Build(h.Catalog)
	if err != nil {
		return nil, Input{}, Result{}, err
	}
	start := time.Now()
	res, err := h.Engine.Size(b, in)
	h.Metrics.ObserveSizing(string(b.Standard()), res.Passes, err, time.Since(start))
	return b, in, res, err
}

func (h *Handler) decodeAndRun(w http.ResponseWriter, r *http.Request) (string, bolt.Bolt, Input, Result, bool) {
	runID := uuid.NewString()
	w.Header().Set("X-Run-ID", runID)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return "", nil, Input{}, Result{}, false
	}
	b, in, res, err := h.Run(req)
	if err != nil {
		WriteError(w, h.logger().With(zap.String("run_id", runID)), err)
		return "", nil, Input{}, Result{}, false
	}
	return runID, b, in, res, true
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	runID, b, _, res, ok := h.decodeAndRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		RunID:  runID,
		Bolt:   b.CADRecord(),
		Report: b.ReportRecord(),
		Result: res,
	})
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	_, b, in, res, ok := h.decodeAndRun(w, r)
	if !ok {
		return
	}
	hdr, sections := Document(b, in, res, auth.LoginFromContext(r.Context()))
	pdf := report.Build(hdr, sections...)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"Calculation_Report_%s.pdf\"", b.Name()))
	if err := pdf.Output(w); err != nil {
		h.logger().Error("report output", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
	}
}

func (h *Handler) CAD(w http.ResponseWriter, r *http.Request) {
	_, b, _, _, ok := h.decodeAndRun(w, r)
	if !ok {
		return
	}
	writeCAD(w, h.logger(), b.Name(), b.CADRecord())
}

func writeCAD(w http.ResponseWriter, log *zap.Logger, name string, rec map[string]any) {
	var buf bytes.Buffer
	if err := cad.WriteEquations(&buf, rec); err != nil {
		log.Error("cad output", zap.String("bolt", name), zap.Error(err))
		http.Error(w, "CAD file generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.txt\"", name))
	buf.WriteTo(w)
}

// Status maps the error taxonomy to an HTTP status code.
func Status(err error) int {
	return apperr.HTTPStatus(err)
}

func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("sizing failed", zap.Error(err))
	} else {
		log.Info("sizing rejected", zap.Int("status", status), zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
