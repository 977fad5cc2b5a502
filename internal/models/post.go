// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the editorial state of a post.
type PostStatus string

const (
	PostStatusDraft       PostStatus = "Draft"
	PostStatusForApproval PostStatus = "For Approval"
	PostStatusPublished   PostStatus = "Published"
)

// Valid reports whether the status is one of the known editorial states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusForApproval, PostStatusPublished:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next under the
// editorial workflow: Draft → For Approval → Published, with
// For Approval → Draft as the only backward transition (reject).
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	switch s {
	case PostStatusDraft:
		return next == PostStatusForApproval
	case PostStatusForApproval:
		return next == PostStatusPublished || next == PostStatusDraft
	}
	return false
}

// DefaultAuthorName is used when a post is created without author details.
const DefaultAuthorName = "Editorial Team"

// Post is a content unit in the blog. Author details are denormalized onto
// the row; there is no separate author entity.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt"`
	Status          PostStatus `json:"status"`
	IsPillar        bool       `json:"is_pillar"`
	IsFeatured      bool       `json:"is_featured"`
	HeroImage       *string    `json:"hero_image,omitempty"`
	AuthorName      string     `json:"author_name"`
	AuthorImage     *string    `json:"author_image,omitempty"`
	AuthorBio       *string    `json:"author_bio,omitempty"`
	ReadingTime     int        `json:"reading_time"`
	ViewCount       int        `json:"view_count"`
	CtaConversions  int        `json:"cta_conversion_count"`
	ContentCategory string     `json:"content_category"`
	SEOTitle        *string    `json:"seo_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	SEOKeywords     *string    `json:"seo_keywords,omitempty"`
	CanonicalURL    *string    `json:"canonical_url,omitempty"`
	SchemaMarkup    *string    `json:"schema_markup,omitempty"`
	PublishDate     time.Time  `json:"publish_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Author is the denormalized author block attached to hydrated posts.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

// PostDetail is a fully hydrated post as served to the presentation layer:
// the post itself plus its categories, tags, author block, and the related
// posts resolved through the content-relationship graph. For a pillar post
// RelatedPosts holds its supporting posts; for a supporting post it holds
// up to three siblings and ParentPillar points at the pillar.
type PostDetail struct {
	Post
	Categories   []Category `json:"categories"`
	Tags         []Tag      `json:"tags"`
	Author       Author     `json:"author"`
	Pillar       bool       `json:"isPillar"`
	RelatedPosts []Post     `json:"related_posts"`
	ParentPillar *Post      `json:"parent_pillar,omitempty"`
	ContentHTML  string     `json:"content_html,omitempty"`
}

// Pagination describes a page of a listing result.
type Pagination struct {
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// PostPage is one page of a post listing plus its pagination metadata.
type PostPage struct {
	Items      []PostDetail `json:"items"`
	Pagination Pagination   `json:"pagination"`
}
