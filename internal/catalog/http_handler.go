package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tcgcollectr/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// ListSets handles GET /v1/catalog/sets
// @Summary List TCG sets
// @Description List sets from the catalog, seeding it from upstream on first use
// @Tags catalog
// @Produce json
// @Param search query string false "Substring match on set name"
// @Param series query string false "Exact series filter"
// @Param sort query string false "Sort field: name, releaseDate, series" default(name)
// @Param order query string false "Sort order: asc, desc" default(asc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (1-100)" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/catalog/sets [get]
func (h *HTTPHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sort := query.Get("sort")
	switch sort {
	case SetSortName, SetSortReleaseDate, SetSortSeries:
	default:
		sort = SetSortName
	}

	q := SetQuery{
		Search: query.Get("search"),
		Series: query.Get("series"),
		Sort:   sort,
		Desc:   query.Get("order") == "desc",
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	sets, total, err := h.svc.ListSets(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, sets, map[string]any{
		"page":        page,
		"limit":       limit,
		"total_items": total,
		"total_pages": (total + limit - 1) / limit,
	})
}

// GetSet handles GET /v1/catalog/sets/{id}
// @Summary Get a set by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Upstream set ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/catalog/sets/{id} [get]
func (h *HTTPHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Set ID is required", nil)
		return
	}

	set, err := h.svc.GetSet(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, set, nil)
}

// ListCards handles GET /v1/catalog/sets/{id}/cards
// @Summary List the cards of a set
// @Tags catalog
// @Produce json
// @Param id path string true "Upstream set ID"
// @Param search query string false "Substring match on card name"
// @Param rarity query string false "Exact rarity filter"
// @Param sort query string false "Sort field: name, localId" default(name)
// @Param order query string false "Sort order: asc, desc" default(asc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (1-100)" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/catalog/sets/{id}/cards [get]
func (h *HTTPHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "id")
	if setID == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Set ID is required", nil)
		return
	}

	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sort := query.Get("sort")
	switch sort {
	case CardSortName, CardSortLocalID:
	default:
		sort = CardSortName
	}

	q := CardQuery{
		Search: query.Get("search"),
		Rarity: query.Get("rarity"),
		Sort:   sort,
		Desc:   query.Get("order") == "desc",
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	cards, total, err := h.svc.ListCards(r.Context(), setID, q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, cards, map[string]any{
		"page":        page,
		"limit":       limit,
		"total_items": total,
		"total_pages": (total + limit - 1) / limit,
	})
}

// GetCard handles GET /v1/catalog/cards/{id}
// @Summary Get a card by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Upstream card ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/catalog/cards/{id} [get]
func (h *HTTPHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Card ID is required", nil)
		return
	}

	card, err := h.svc.GetCard(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, card, nil)
}

// writeError maps catalog errors to HTTP responses. Seed failures surface
// as 5xx so an empty store is never mistaken for a valid empty page.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSetNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Set not found", nil)
	case errors.Is(err, ErrCardNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Card not found", nil)
	case errors.Is(err, ErrUpstreamUnavailable):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Catalog upstream is unavailable", nil)
	case errors.Is(err, ErrUpstreamMalformed):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_MALFORMED", "Catalog upstream returned an invalid payload", nil)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("catalog request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
