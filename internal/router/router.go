// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// PillarPress API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"pillarpress/internal/handlers"
	"pillarpress/internal/middleware"
	"pillarpress/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, media *handlers.Media) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no rate limit.
	r.Get("/health", healthHandler)

	// Public API — rate limited per client IP.
	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(120, 1*time.Minute))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", public.ListPosts)
			r.Get("/{slug}", public.GetPost)
			r.Post("/{id}/cta", public.TrackCta)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", public.ListCategories)
			r.Get("/{slug}/posts", public.CategoryPosts)
		})

		r.Get("/tags", public.ListTags)
		r.Get("/pillars", public.ListPillars)
		r.Get("/clusters", public.ListClusters)
		r.Get("/clusters/{pillarID}", public.GetCluster)
	})

	// Admin API — session auth plus CSRF on state-changing requests.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Login is rate limited harder than the rest of the API.
		r.With(httprate.LimitByIP(10, 1*time.Minute)).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", auth.Me)

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", admin.CreatePost)
				r.Get("/{id}", admin.GetPost)
				r.Patch("/{id}", admin.UpdatePost)
				r.Delete("/{id}", admin.DeletePost)
				r.Post("/{id}/status", admin.SetStatus)
				r.Get("/{id}/seo", admin.SEOReport)
			})

			r.Route("/clusters", func(r chi.Router) {
				r.Post("/", admin.CreateCluster)
				r.Get("/{pillarID}", admin.GetCluster)
				r.Post("/{pillarID}/supporting", admin.AddSupporting)
			})

			// Category management — admin only.
			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", admin.CreateCategory)
				r.Delete("/{id}", admin.DeleteCategory)
			})

			r.Post("/tags", admin.CreateTag)
			r.Post("/media", media.Upload)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
