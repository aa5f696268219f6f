package collection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcgcollectr/internal/httpx"
)

func newCollectionRouter() *chi.Mux {
	svc, _ := newTestCollection()
	h := NewHTTPHandler(svc)

	r := chi.NewRouter()
	r.Post("/v1/collection", h.Add)
	r.Get("/v1/collection", h.List)
	r.Get("/v1/collection/export", h.Export)
	r.Get("/v1/collection/stats", h.Stats)
	r.Patch("/v1/collection/{entryID}", h.Update)
	r.Delete("/v1/collection/{entryID}", h.Delete)
	return r
}

func doAs(t *testing.T, router http.Handler, userID, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(httpx.ContextWithUser(req.Context(), userID, "USER"))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCollectionHandler_Flow(t *testing.T) {
	router := newCollectionRouter()

	w := doAs(t, router, "user-1", http.MethodPost, "/v1/collection",
		`{"card_id":"sv08-238","quantity":2,"variant":"holo","condition":"NM","notes":"binder"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 2, created.Data.Quantity)
	assert.Equal(t, "Pikachu ex", created.Data.CardName)
	entryID := created.Data.ID
	require.NotEmpty(t, entryID)

	t.Run("list shows the entry with meta", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodGet, "/v1/collection", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []Entry        `json:"data"`
			Meta map[string]any `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.EqualValues(t, 1, body.Meta["total_items"])
		assert.EqualValues(t, 1, body.Meta["page"])
	})

	t.Run("patch quantity", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodPatch, "/v1/collection/"+entryID, `{"quantity":5}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data Entry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 5, body.Data.Quantity)
	})

	t.Run("patch quantity zero is rejected", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodPatch, "/v1/collection/"+entryID, `{"quantity":0}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BAD_REQUEST")
	})

	t.Run("export csv", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodGet, "/v1/collection/export", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "collection.csv")
		assert.Contains(t, w.Body.String(), "sv08-238")
	})

	t.Run("stats", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodGet, "/v1/collection/stats", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data Stats `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Data.DistinctCards)
		assert.Equal(t, 5, body.Data.TotalCopies)
	})

	t.Run("delete then gone", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodDelete, "/v1/collection/"+entryID, "")
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doAs(t, router, "user-1", http.MethodDelete, "/v1/collection/"+entryID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCollectionHandler_Errors(t *testing.T) {
	router := newCollectionRouter()

	t.Run("unknown card is 404", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodPost, "/v1/collection",
			`{"card_id":"zzz-999","quantity":1,"variant":"normal","condition":"NM"}`)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})

	t.Run("invalid condition is 400", func(t *testing.T) {
		w := doAs(t, router, "user-1", http.MethodPost, "/v1/collection",
			`{"card_id":"sv08-238","quantity":1,"variant":"normal","condition":"MINTY"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("no user in context is 401", func(t *testing.T) {
		w := doAs(t, router, "", http.MethodGet, "/v1/collection", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
