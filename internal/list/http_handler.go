package list

import (
	"encoding/json"
	"errors"
	"net/http"

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

type createReq struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	IsPublic    bool   `json:"is_public"`
}

// Create handles POST /v1/lists
// @Summary Create a named card list
// @Tags lists
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "List to create"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/lists [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, created)
}

// ListMine handles GET /v1/lists
// @Summary List the authenticated user's lists
// @Tags lists
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/lists [get]
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	lists, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, lists, nil)
}

// Get handles GET /v1/lists/{listID}
// @Summary Read a list and its cards
// @Description Public lists are readable by anyone; private lists only by their owner.
// @Tags lists
// @Produce json
// @Param listID path string true "List ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/lists/{listID} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	viewerID := httpx.UserIDFrom(r) // empty for anonymous viewers

	l, cards, err := h.service.Get(r.Context(), viewerID, listID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"list":  l,
		"cards": cards,
	}, nil)
}

type updateReq struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool   `json:"is_public"`
}

// Update handles PATCH /v1/lists/{listID}
// @Summary Rename a list or change its visibility
// @Tags lists
// @Accept json
// @Produce json
// @Security Bearer
// @Param listID path string true "List ID"
// @Param request body updateReq true "Fields to update"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/lists/{listID} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	listID := chi.URLParam(r, "listID")

	var req updateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	updated, err := h.service.Update(r.Context(), userID, listID, UpdatePatch{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, updated, nil)
}

// Delete handles DELETE /v1/lists/{listID}
// @Summary Delete a list
// @Tags lists
// @Security Bearer
// @Param listID path string true "List ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/lists/{listID} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "listID")); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

type addCardReq struct {
	CardID string `json:"card_id" validate:"required,card_id"`
}

// AddCard handles POST /v1/lists/{listID}/cards
// @Summary Add a card to a list
// @Tags lists
// @Accept json
// @Security Bearer
// @Param listID path string true "List ID"
// @Param request body addCardReq true "Card to add"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/lists/{listID}/cards [post]
func (h *HTTPHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	listID := chi.URLParam(r, "listID")

	var req addCardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	if err := h.service.AddCard(r.Context(), userID, listID, req.CardID); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

// RemoveCard handles DELETE /v1/lists/{listID}/cards/{cardID}
// @Summary Remove a card from a list
// @Tags lists
// @Security Bearer
// @Param listID path string true "List ID"
// @Param cardID path string true "Card ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/lists/{listID}/cards/{cardID} [delete]
func (h *HTTPHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	err := h.service.RemoveCard(r.Context(), userID, chi.URLParam(r, "listID"), chi.URLParam(r, "cardID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrListNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "List not found", nil)
	case errors.Is(err, catalog.ErrCardNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Card not found", nil)
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Catalog upstream unavailable", nil)
	case errors.Is(err, catalog.ErrUpstreamMalformed):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_MALFORMED", "Catalog upstream returned malformed data", nil)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("list request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
