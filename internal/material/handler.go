package material

import (
	"encoding/json"
	"net/http"

	"Boltcalc/internal/apperr"

	"go.uber.org/zap"
)

// JSON is the wire form of a Material.
type JSON struct {
	Name            string  `json:"name"`
	Number          string  `json:"number"`
	Density         float64 `json:"density"`
	TensileStrength float64 `json:"tensile_strength"`
	YieldStress     float64 `json:"yield_stress"`
	YoungsModulus   float64 `json:"youngs_modulus"`
	Type            string  `json:"type"`
}

func ToJSON(m Material) JSON {
	return JSON{
		Name:            m.name,
		Number:          m.number,
		Density:         m.density,
		TensileStrength: m.tensileStrength,
		YieldStress:     m.yieldStress,
		YoungsModulus:   m.youngsModulus,
		Type:            m.typ.Label(),
	}
}

func (j JSON) Material() (Material, error) {
	t, err := ParseType(j.Type)
	if err != nil {
		return Material{}, err
	}
	return New(j.Name, j.Number, j.Density, j.TensileStrength, j.YieldStress, j.YoungsModulus, t)
}

type Handler struct {
	Catalog *Catalog
	Store   Store
	Log     *zap.Logger
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mats := h.Catalog.All()
	out := make([]JSON, 0, len(mats))
	for _, m := range mats {
		out = append(out, ToJSON(m))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Create persists the material and reloads the catalog from the store so
// that an update of an existing name is picked up.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in JSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	m, err := in.Material()
	if err == nil {
		err = h.Store.Save(r.Context(), m)
	}
	if err == nil {
		err = reload(r.Context(), h.Store, h.Catalog)
	}
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status >= http.StatusInternalServerError && h.Log != nil {
			h.Log.Error("save material", zap.String("name", in.Name), zap.Error(err))
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToJSON(m))
}
