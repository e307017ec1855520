package api

import (
	"net/http"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/erazemk/izgubljeno/internal/model"
)

// CatalogHandler serves the fixed value lists used by report forms.
type CatalogHandler struct {
	Places []string
}

type categoryResponse struct {
	Value   model.Category `json:"value"`
	Display string         `json:"display"`
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	out := make([]categoryResponse, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, categoryResponse{Value: c, Display: c.Display()})
	}
	jsonResponse(w, http.StatusOK, out)
}

// Locations handles GET /api/locations. With q set, only locations that
// fuzzy-match it are returned, best first.
func (h *CatalogHandler) Locations(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		out := make([]string, len(h.Places))
		copy(out, h.Places)
		jsonResponse(w, http.StatusOK, out)
		return
	}

	matches := fuzzy.Find(q, h.Places)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	jsonResponse(w, http.StatusOK, out)
}
