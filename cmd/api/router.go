package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"tcgcollectr/internal/analytics"
	"tcgcollectr/internal/auth"
	"tcgcollectr/internal/catalog"
	"tcgcollectr/internal/collection"
	"tcgcollectr/internal/config"
	"tcgcollectr/internal/httpx"
	"tcgcollectr/internal/list"
	"tcgcollectr/internal/profile"
)

type handlers struct {
	catalog    *catalog.HTTPHandler
	auth       *auth.HTTPHandler
	collection *collection.HTTPHandler
	lists      *list.HTTPHandler
	profiles   *profile.HTTPHandler
	events     *analytics.HTTPHandler
}

func newRouter(cfg *config.Config, readyz http.HandlerFunc, h handlers, blacklist httpx.BlacklistChecker) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.Origins(),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         cfg.CORS.MaxAge,
	}))
	r.Use(httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyz)

	requireAuth := httpx.AuthMiddleware(cfg.Auth.JWTSecret, blacklist)
	optionalAuth := httpx.OptionalAuthMiddleware(cfg.Auth.JWTSecret, blacklist)
	authRate := httpx.NewRateLimitMiddleware(cfg.RateLimit.RequestsPerS, cfg.RateLimit.Burst)
	eventRate := httpx.NewRateLimitMiddleware(cfg.RateLimit.RequestsPerS, cfg.RateLimit.Burst)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog/sets", h.catalog.ListSets)
		r.Get("/catalog/sets/{id}", h.catalog.GetSet)
		r.Get("/catalog/sets/{id}/cards", h.catalog.ListCards)
		r.Get("/catalog/cards/{id}", h.catalog.GetCard)

		r.Get("/profiles/{username}", h.profiles.GetPublicProfile)

		r.Group(func(r chi.Router) {
			r.Use(authRate.Middleware)
			r.Post("/auth/register", h.auth.Register)
			r.Post("/auth/login", h.auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/lists/{listID}", h.lists.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(eventRate.Middleware)
			r.Use(optionalAuth)
			r.Post("/events", h.events.Record)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/auth/logout", h.auth.Logout)
			r.Get("/me", h.auth.Me)
			r.Get("/me/profile", h.profiles.GetOwnProfile)
			r.Patch("/me/profile", h.profiles.UpdateProfile)

			r.Post("/collection", h.collection.Add)
			r.Get("/collection", h.collection.List)
			r.Get("/collection/export", h.collection.Export)
			r.Get("/collection/stats", h.collection.Stats)
			r.Patch("/collection/{entryID}", h.collection.Update)
			r.Delete("/collection/{entryID}", h.collection.Delete)

			r.Post("/lists", h.lists.Create)
			r.Get("/lists", h.lists.ListMine)
			r.Patch("/lists/{listID}", h.lists.Update)
			r.Delete("/lists/{listID}", h.lists.Delete)
			r.Post("/lists/{listID}/cards", h.lists.AddCard)
			r.Delete("/lists/{listID}/cards/{cardID}", h.lists.RemoveCard)
		})
	})

	return r
}
