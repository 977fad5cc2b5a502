// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pillarpress/internal/cache"
	"pillarpress/internal/cluster"
	"pillarpress/internal/models"
	"pillarpress/internal/seo"
	"pillarpress/internal/store"
)

// Admin groups the authoring handlers. Every successful write drops the
// listing cache so public pages never serve stale data past the TTL.
type Admin struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	clusters   *cluster.Service
	assembler  *seo.Assembler
	listings   *cache.ListingCache
}

// NewAdmin creates a new Admin handler group. listings may be nil.
func NewAdmin(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, clusters *cluster.Service, assembler *seo.Assembler, listings *cache.ListingCache) *Admin {
	return &Admin{
		posts:      posts,
		categories: categories,
		tags:       tags,
		clusters:   clusters,
		assembler:  assembler,
		listings:   listings,
	}
}

func (a *Admin) invalidateListings(r *http.Request) {
	if a.listings != nil {
		a.listings.InvalidateAll(r.Context())
	}
}

// postRequest is the JSON shape for creating a post.
type postRequest struct {
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	Content         string      `json:"content"`
	Excerpt         string      `json:"excerpt"`
	Status          string      `json:"status"`
	IsPillar        bool        `json:"is_pillar"`
	IsFeatured      bool        `json:"is_featured"`
	HeroImage       string      `json:"hero_image"`
	AuthorName      string      `json:"author_name"`
	AuthorImage     string      `json:"author_image"`
	AuthorBio       string      `json:"author_bio"`
	ReadingTime     int         `json:"reading_time"`
	ContentCategory string      `json:"content_category"`
	SEOTitle        string      `json:"seo_title"`
	MetaDescription string      `json:"meta_description"`
	SEOKeywords     string      `json:"seo_keywords"`
	SchemaMarkup    string      `json:"schema_markup"`
	PublishDate     *time.Time  `json:"publish_date"`
	CategoryIDs     []uuid.UUID `json:"category_ids"`
	Tags            []string    `json:"tags"`
	PillarPostID    *uuid.UUID  `json:"pillar_post_id"`
}

func (pr postRequest) toInput() store.PostInput {
	in := store.PostInput{
		Title:           pr.Title,
		Slug:            pr.Slug,
		Content:         pr.Content,
		Excerpt:         pr.Excerpt,
		Status:          models.PostStatus(pr.Status),
		IsPillar:        pr.IsPillar,
		IsFeatured:      pr.IsFeatured,
		HeroImage:       pr.HeroImage,
		AuthorName:      pr.AuthorName,
		AuthorImage:     pr.AuthorImage,
		AuthorBio:       pr.AuthorBio,
		ReadingTime:     pr.ReadingTime,
		ContentCategory: pr.ContentCategory,
		SEOTitle:        pr.SEOTitle,
		MetaDescription: pr.MetaDescription,
		SEOKeywords:     pr.SEOKeywords,
		SchemaMarkup:    pr.SchemaMarkup,
		CategoryIDs:     pr.CategoryIDs,
		Tags:            pr.Tags,
		PillarPostID:    pr.PillarPostID,
	}
	if pr.PublishDate != nil {
		in.PublishDate = *pr.PublishDate
	}
	return in
}

// CreatePost creates a post in Draft status unless the request says
// otherwise.
func (a *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	post, err := a.posts.Create(req.toInput())
	if err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, post)
}

// GetPost returns a post's full detail by id, drafts included, without
// touching the view count.
func (a *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	detail, err := a.posts.DetailByID(id)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// updatePostRequest is the JSON shape for a partial update. Absent fields
// are left untouched.
type updatePostRequest struct {
	Title           *string            `json:"title"`
	Content         *string            `json:"content"`
	Excerpt         *string            `json:"excerpt"`
	Status          *models.PostStatus `json:"status"`
	IsFeatured      *bool              `json:"is_featured"`
	HeroImage       *string            `json:"hero_image"`
	AuthorName      *string            `json:"author_name"`
	AuthorImage     *string            `json:"author_image"`
	AuthorBio       *string            `json:"author_bio"`
	ReadingTime     *int               `json:"reading_time"`
	ContentCategory *string            `json:"content_category"`
	SEOTitle        *string            `json:"seo_title"`
	MetaDescription *string            `json:"meta_description"`
	SEOKeywords     *string            `json:"seo_keywords"`
	SchemaMarkup    *string            `json:"schema_markup"`
	CanonicalURL    *string            `json:"canonical_url"`
	PublishDate     *time.Time         `json:"publish_date"`
	CategoryIDs     *[]uuid.UUID       `json:"category_ids"`
	Tags            *[]string          `json:"tags"`
}

// UpdatePost applies a partial update to a post.
func (a *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	post, err := a.posts.Update(id, store.UpdatePostInput{
		Title:           req.Title,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		Status:          req.Status,
		IsFeatured:      req.IsFeatured,
		HeroImage:       req.HeroImage,
		AuthorName:      req.AuthorName,
		AuthorImage:     req.AuthorImage,
		AuthorBio:       req.AuthorBio,
		ReadingTime:     req.ReadingTime,
		ContentCategory: req.ContentCategory,
		SEOTitle:        req.SEOTitle,
		MetaDescription: req.MetaDescription,
		SEOKeywords:     req.SEOKeywords,
		SchemaMarkup:    req.SchemaMarkup,
		CanonicalURL:    req.CanonicalURL,
		PublishDate:     req.PublishDate,
		CategoryIDs:     req.CategoryIDs,
		Tags:            req.Tags,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, post)
}

// DeletePost removes a post along with its joins and relationships.
func (a *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	w.WriteHeader(http.StatusNoContent)
}

// SetStatus moves a post through the approval workflow. Illegal
// transitions are rejected with the allowed ones in the error.
func (a *Admin) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req struct {
		Status models.PostStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	post, err := a.posts.SetStatus(id, req.Status)
	if err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, post)
}

// clusterRequest is the JSON shape for atomic cluster creation.
type clusterRequest struct {
	Pillar          postRequest   `json:"pillar"`
	SupportingPosts []postRequest `json:"supporting_posts"`
}

// CreateCluster creates a pillar and its supporting posts in a single
// transaction.
func (a *Admin) CreateCluster(w http.ResponseWriter, r *http.Request) {
	var req clusterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	in := cluster.Input{Pillar: req.Pillar.toInput()}
	for _, sp := range req.SupportingPosts {
		in.SupportingPosts = append(in.SupportingPosts, sp.toInput())
	}

	c, err := a.clusters.Create(in)
	if err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, c)
}

// GetCluster returns a cluster with supporting posts of every status.
func (a *Admin) GetCluster(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "pillarID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pillar id")
		return
	}

	c, err := a.clusters.Get(id)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AddSupporting either attaches an existing post to a pillar (when the
// body names a post_id) or creates a new post directly under it.
func (a *Admin) AddSupporting(w http.ResponseWriter, r *http.Request) {
	pillarID, err := uuid.Parse(chi.URLParam(r, "pillarID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pillar id")
		return
	}

	var req struct {
		PostID *uuid.UUID   `json:"post_id"`
		Post   *postRequest `json:"post"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	if req.PostID != nil {
		if err := a.clusters.Attach(pillarID, *req.PostID); err != nil {
			respondAppError(w, err)
			return
		}
		a.invalidateListings(r)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if req.Post == nil {
		respondError(w, http.StatusBadRequest, "post_id or post is required")
		return
	}

	post, err := a.clusters.AddSupporting(pillarID, req.Post.toInput())
	if err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, post)
}

// seoReport is the advisory SEO check result for a post.
type seoReport struct {
	PostID       uuid.UUID `json:"post_id"`
	Slug         string    `json:"slug"`
	CanonicalURL *string   `json:"canonical_url"`
	Issues       []string  `json:"issues"`
}

// SEOReport runs the advisory SEO validation over a post and returns its
// findings. Issues never block publication.
func (a *Admin) SEOReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		respondAppError(w, err)
		return
	}

	issues := a.assembler.Validate(post)
	if issues == nil {
		issues = []string{}
	}
	respondJSON(w, http.StatusOK, seoReport{
		PostID:       post.ID,
		Slug:         post.Slug,
		CanonicalURL: post.CanonicalURL,
		Issues:       issues,
	})
}

// CreateCategory adds a category. The slug is derived from the name when
// absent.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	category, err := a.categories.Create(req.Name, req.Slug, req.Description)
	if err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a category; posts keep existing without it.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		respondAppError(w, err)
		return
	}

	a.invalidateListings(r)
	w.WriteHeader(http.StatusNoContent)
}

// CreateTag resolves a tag by name, creating it on first use. Concurrent
// creation of the same name converges on one row.
func (a *Admin) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, err)
		return
	}

	tag, err := a.tags.GetOrCreate(req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}
