package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcgcollectr/internal/config"
)

// The router is assembled with zero-value handlers; routes are never
// invoked, only enumerated.
func testRouter(t *testing.T) *chi.Mux {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "routing-test-secret"
	cfg.Server.MaxBodyBytes = 1 << 20
	cfg.RateLimit.RequestsPerS = 100
	cfg.RateLimit.Burst = 100
	cfg.CORS.AllowedOrigins = "*"

	noop := func(w http.ResponseWriter, r *http.Request) {}
	return newRouter(cfg, noop, handlers{}, nil)
}

func TestRouter_RegistersExpectedRoutes(t *testing.T) {
	router := testRouter(t)

	registered := make(map[string]bool)
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /healthz",
		"GET /readyz",
		"GET /v1/catalog/sets",
		"GET /v1/catalog/sets/{id}",
		"GET /v1/catalog/sets/{id}/cards",
		"GET /v1/catalog/cards/{id}",
		"GET /v1/profiles/{username}",
		"POST /v1/auth/register",
		"POST /v1/auth/login",
		"POST /v1/auth/logout",
		"GET /v1/me",
		"GET /v1/me/profile",
		"PATCH /v1/me/profile",
		"POST /v1/collection",
		"GET /v1/collection",
		"GET /v1/collection/export",
		"GET /v1/collection/stats",
		"PATCH /v1/collection/{entryID}",
		"DELETE /v1/collection/{entryID}",
		"POST /v1/lists",
		"GET /v1/lists",
		"GET /v1/lists/{listID}",
		"PATCH /v1/lists/{listID}",
		"DELETE /v1/lists/{listID}",
		"POST /v1/lists/{listID}/cards",
		"DELETE /v1/lists/{listID}/cards/{cardID}",
		"POST /v1/events",
	}
	for _, want := range expected {
		assert.True(t, registered[want], "missing route %s", want)
	}
}
