package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/izgubljeno/internal/filter"
	"github.com/erazemk/izgubljeno/internal/match"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// dateLayout is the calendar date format used by report forms.
const dateLayout = "2006-01-02"

// ItemsHandler handles lost and found item endpoints.
type ItemsHandler struct {
	Items  store.Items
	Finder *match.Finder
}

type createItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ContactInfo string `json:"contact_info"`
	Type        string `json:"type"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type userItemsResponse struct {
	Lost  []model.Item `json:"lost"`
	Found []model.Item `json:"found"`
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	in := model.ItemInput{
		Name:        strings.TrimSpace(req.Name),
		Category:    model.Category(req.Category),
		Location:    strings.TrimSpace(req.Location),
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    req.ImageURL,
		ContactInfo: strings.TrimSpace(req.ContactInfo),
		Type:        model.Type(req.Type),
	}

	item, err := h.Items.Create(r.Context(), in, claims.UserID, claims.UserName)
	if err != nil {
		storeError(w, err, "create item")
		return
	}

	slog.Info("item reported", "item_id", item.ID, "type", item.Type, "user_id", claims.UserID)
	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/items. Without a type both partitions are
// returned, lost first.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var types []model.Type
	switch t := model.Type(q.Get("type")); {
	case t == "":
		types = []model.Type{model.TypeLost, model.TypeFound}
	case t.Valid():
		types = []model.Type{t}
	default:
		jsonError(w, http.StatusBadRequest, "type must be lost or found")
		return
	}

	opts := filter.ParseQuery(q)
	if opts.Sort != "" && opts.Sort != filter.SortNewest && opts.Sort != filter.SortOldest {
		jsonError(w, http.StatusBadRequest, "sort must be newest or oldest")
		return
	}

	var items []model.Item
	for _, t := range types {
		part, err := h.Items.ListByType(r.Context(), t)
		if err != nil {
			storeError(w, err, "list items")
			return
		}
		items = append(items, part...)
	}

	jsonResponse(w, http.StatusOK, filter.Apply(items, opts))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Items.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Matches handles GET /api/items/{id}/matches.
func (h *ItemsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Finder.FindMatches(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "find matches")
		return
	}
	jsonResponse(w, http.StatusOK, matches)
}

// UpdateStatus handles PATCH /api/items/{id}/status. Only the creator may
// change the status; everyone else gets the same 404 as for a missing item.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := model.Status(req.Status)
	if !status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	item, err := h.Items.UpdateOwnStatus(r.Context(), r.PathValue("id"), claims.UserID, status)
	if err != nil {
		storeError(w, err, "update status")
		return
	}

	slog.Info("item status changed", "item_id", item.ID, "status", item.Status)
	jsonResponse(w, http.StatusOK, item)
}

// Claim handles POST /api/items/{id}/claim.
func (h *ItemsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	item, err := h.Items.Claim(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		storeError(w, err, "claim item")
		return
	}

	slog.Info("item claimed", "item_id", item.ID, "claimant_id", claims.UserID)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id := r.PathValue("id")

	deleted, err := h.Items.Delete(r.Context(), id, claims.UserID)
	if err != nil {
		storeError(w, err, "delete item")
		return
	}
	if !deleted {
		storeError(w, store.ErrNotFound, "delete item")
		return
	}

	slog.Info("item deleted", "item_id", id, "user_id", claims.UserID)
	jsonResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Mine handles GET /api/me/items.
func (h *ItemsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	items, err := h.Items.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		storeError(w, err, "list items")
		return
	}

	resp := userItemsResponse{Lost: []model.Item{}, Found: []model.Item{}}
	for _, item := range items {
		if item.Type == model.TypeLost {
			resp.Lost = append(resp.Lost, item)
		} else {
			resp.Found = append(resp.Found, item)
		}
	}
	jsonResponse(w, http.StatusOK, resp)
}
