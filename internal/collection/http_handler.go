package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tcgcollectr/internal/catalog"
	"tcgcollectr/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type addReq struct {
	CardID    string `json:"card_id" validate:"required,card_id"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Variant   string `json:"variant" validate:"required,oneof=normal holo reverse"`
	Condition string `json:"condition" validate:"required,oneof=NM LP MP HP DMG"`
	Notes     string `json:"notes" validate:"omitempty,max=500"`
}

// Add handles POST /v1/collection
// @Summary Add copies of a card to the collection
// @Tags collection
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body addReq true "Entry to add"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/collection [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req addReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	entry, err := h.service.Add(r.Context(), userID, req.CardID, req.Quantity, req.Variant, req.Condition, req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, entry)
}

// List handles GET /v1/collection
// @Summary List the authenticated user's collection
// @Tags collection
// @Produce json
// @Security Bearer
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param set_id query string false "Filter by set"
// @Param rarity query string false "Filter by rarity"
// @Param variant query string false "Filter by variant"
// @Param condition query string false "Filter by condition"
// @Param search query string false "Card name substring"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/collection [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	qp := r.URL.Query()
	page, _ := strconv.Atoi(qp.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(qp.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := Query{
		SetID:     qp.Get("set_id"),
		Rarity:    qp.Get("rarity"),
		Variant:   qp.Get("variant"),
		Condition: qp.Get("condition"),
		Search:    qp.Get("search"),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	entries, total, err := h.service.List(r.Context(), userID, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, entries, map[string]any{
		"page":        page,
		"limit":       limit,
		"total_items": total,
		"total_pages": (total + limit - 1) / limit,
	})
}

type updateReq struct {
	Quantity  *int    `json:"quantity" validate:"omitempty,gte=1"`
	Variant   *string `json:"variant" validate:"omitempty,oneof=normal holo reverse"`
	Condition *string `json:"condition" validate:"omitempty,oneof=NM LP MP HP DMG"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

// Update handles PATCH /v1/collection/{entryID}
// @Summary Update quantity, variant, condition or notes of an entry
// @Tags collection
// @Accept json
// @Produce json
// @Security Bearer
// @Param entryID path string true "Entry ID"
// @Param request body updateReq true "Fields to update"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/collection/{entryID} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	entryID := chi.URLParam(r, "entryID")

	var req updateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	entry, err := h.service.Update(r.Context(), userID, entryID, UpdatePatch{
		Quantity:  req.Quantity,
		Variant:   req.Variant,
		Condition: req.Condition,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, entry, nil)
}

// Delete handles DELETE /v1/collection/{entryID}
// @Summary Remove an entry from the collection
// @Tags collection
// @Security Bearer
// @Param entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/collection/{entryID} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	entryID := chi.URLParam(r, "entryID")

	if err := h.service.Delete(r.Context(), userID, entryID); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

// Export handles GET /v1/collection/export
// @Summary Download the whole collection as CSV
// @Tags collection
// @Produce text/csv
// @Security Bearer
// @Success 200 {string} string "CSV payload"
// @Router /v1/collection/export [get]
func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	// Buffered so a mid-export failure still yields a clean error response.
	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), userID, &buf); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="collection.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("writing csv export")
	}
}

// Stats handles GET /v1/collection/stats
// @Summary Collection totals and per-set completion
// @Tags collection
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/collection/stats [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, stats, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrEntryNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Collection entry not found", nil)
	case errors.Is(err, catalog.ErrCardNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Card not found", nil)
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Catalog upstream unavailable", nil)
	case errors.Is(err, catalog.ErrUpstreamMalformed):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_MALFORMED", "Catalog upstream returned malformed data", nil)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("collection request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
