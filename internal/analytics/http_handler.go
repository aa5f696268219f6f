package analytics

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"tcgcollectr/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type eventReq struct {
	Type    string          `json:"type" validate:"required,max=50"`
	Payload json.RawMessage `json:"payload"`
}

// Record handles POST /v1/events
// @Summary Record a client event
// @Description Accepts a whitelisted event type with an optional JSON payload.
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body eventReq true "Event to record"
// @Success 202 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Router /v1/events [post]
func (h *HTTPHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req eventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	// Attribution is best-effort: anonymous events are stored without a user.
	userID := httpx.UserIDFrom(r)

	if err := h.service.Record(r.Context(), userID, req.Type, req.Payload); err != nil {
		switch {
		case errors.Is(err, ErrUnknownType), errors.Is(err, ErrInvalidPayload):
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, ErrPayloadTooLarge):
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", err.Error(), nil)
		default:
			log.Ctx(r.Context()).Error().Err(err).Msg("event insert failed")
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccessAccepted(w, r, map[string]bool{"accepted": true})
}
