// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pillarpress/internal/cache"
	"pillarpress/internal/cluster"
	"pillarpress/internal/markdown"
	"pillarpress/internal/store"
)

// Public groups the reader-facing handlers. Listing responses are served
// from the Valkey listing cache when possible; detail reads always hit the
// database because they carry the view-count side effect.
type Public struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	clusters   *cluster.Service
	listings   *cache.ListingCache
}

// NewPublic creates a new Public handler group. listings may be nil when
// Valkey is not configured; every endpoint degrades to direct reads.
func NewPublic(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, clusters *cluster.Service, listings *cache.ListingCache) *Public {
	return &Public{
		posts:      posts,
		categories: categories,
		tags:       tags,
		clusters:   clusters,
		listings:   listings,
	}
}

// queryInt parses an integer query parameter, returning fallback when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// serveCached writes a cached payload if present. Returns true on a hit.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if p.listings == nil {
		return false
	}
	payload, ok := p.listings.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
	return true
}

// cacheAndRespond stores the serialized payload and writes it.
func (p *Public) cacheAndRespond(w http.ResponseWriter, r *http.Request, key string, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("listing encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if p.listings != nil {
		p.listings.Set(r.Context(), key, buf.Bytes())
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// ListPosts returns a page of published posts ordered featured-first,
// newest-first. Supports category, tag, author, and search filters.
func (p *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	key := cache.PostsKey(r.URL.Query())
	if p.serveCached(w, r, key) {
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", store.DefaultPageSize)
	filters := store.ListFilters{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
		Author:   r.URL.Query().Get("author"),
		Search:   r.URL.Query().Get("search"),
	}

	result, err := p.posts.ListPublished(page, pageSize, filters)
	if err != nil {
		respondAppError(w, err)
		return
	}
	p.cacheAndRespond(w, r, key, result)
}

// GetPost returns a single published post by slug with its full detail:
// rendered HTML, categories, tags, author block, and relationship context.
// Each successful read bumps the post's view count.
func (p *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	detail, err := p.posts.FindBySlug(slugParam)
	if err != nil {
		respondAppError(w, err)
		return
	}

	rendered, err := markdown.ToHTML(detail.Content)
	if err != nil {
		slog.Warn("markdown render failed", "slug", slugParam, "error", err)
		rendered = detail.Content
	}
	detail.ContentHTML = rendered

	respondJSON(w, http.StatusOK, detail)
}

// ListCategories returns all categories with their published post counts.
func (p *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := p.categories.List()
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// ListTags returns every tag used across posts.
func (p *Public) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := p.tags.List()
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// CategoryPosts returns a page of published posts within one category.
// 404 when the category slug is unknown.
func (p *Public) CategoryPosts(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	category, err := p.categories.FindBySlug(slugParam)
	if err != nil {
		respondAppError(w, err)
		return
	}

	key := cache.CategoryPostsKey(slugParam, r.URL.Query())
	if p.serveCached(w, r, key) {
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", store.DefaultPageSize)

	result, err := p.posts.ListPublished(page, pageSize, store.ListFilters{Category: category.Slug})
	if err != nil {
		respondAppError(w, err)
		return
	}
	p.cacheAndRespond(w, r, key, result)
}

// ListPillars returns the published posts that anchor content clusters.
func (p *Public) ListPillars(w http.ResponseWriter, r *http.Request) {
	key := cache.PillarsKey()
	if p.serveCached(w, r, key) {
		return
	}

	pillars, err := p.posts.PillarPosts()
	if err != nil {
		respondAppError(w, err)
		return
	}
	p.cacheAndRespond(w, r, key, pillars)
}

// ListClusters returns every published pillar with its published supporting
// posts.
func (p *Public) ListClusters(w http.ResponseWriter, r *http.Request) {
	key := cache.ClustersKey()
	if p.serveCached(w, r, key) {
		return
	}

	clusters, err := p.clusters.List()
	if err != nil {
		respondAppError(w, err)
		return
	}
	p.cacheAndRespond(w, r, key, clusters)
}

// GetCluster returns one published pillar with its published supporting
// posts. Clusters whose pillar is not yet published report not found.
func (p *Public) GetCluster(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "pillarID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pillar id")
		return
	}

	c, err := p.clusters.GetPublished(id)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// TrackCta records a call-to-action conversion on a post. The write is
// best-effort: failures are logged, and the client always gets 204.
func (p *Public) TrackCta(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := p.posts.TrackCtaConversion(id); err != nil {
		slog.Warn("cta tracking failed", "post", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
