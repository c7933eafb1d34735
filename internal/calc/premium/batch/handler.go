package batch

import (
	"encoding/json"
	"net/http"

	"Boltcalc/internal/calc/pin"
	"Boltcalc/internal/material"

	"go.uber.org/zap"
)

type Handler struct {
	Engine  *pin.Engine
	Catalog *material.Catalog
	Log     *zap.Logger
}

func (h *Handler) Pins(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Size(h.Engine, h.Catalog, input.Items)
	if err != nil {
		log := h.Log
		if log == nil {
			log = zap.NewNop()
		}
		pin.WriteError(w, log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
