// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seo derives and validates per-post SEO metadata: JSON-LD schema
// markup, canonical URLs, and advisory field checks. Validation reports
// issues as human-readable strings and never blocks a write; callers decide
// whether to hold back publication.
package seo

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"pillarpress/internal/models"
)

// Recommended lengths for search-result snippets.
const (
	minTitleLen = 30
	maxTitleLen = 60
	minDescLen  = 120
	maxDescLen  = 160
)

// canonicalPattern matches the blog permalink shape: /blog/<category>/<slug>.
var canonicalPattern = regexp.MustCompile(`^https?://[^/]+/blog/[a-z0-9-]+/[a-z0-9-]+/?$`)

// Assembler builds SEO metadata for posts using the site's identity.
type Assembler struct {
	siteURL  string
	siteName string
	logoURL  string
}

// New creates an Assembler. siteURL must not have a trailing slash; one is
// stripped if present.
func New(siteURL, siteName, logoURL string) *Assembler {
	return &Assembler{
		siteURL:  strings.TrimRight(siteURL, "/"),
		siteName: siteName,
		logoURL:  logoURL,
	}
}

// CanonicalURL builds the permanent URL for a post from its category and slug.
func (a *Assembler) CanonicalURL(categorySlug, postSlug string) string {
	return fmt.Sprintf("%s/blog/%s/%s", a.siteURL, categorySlug, postSlug)
}

// JSON-LD document shapes. Field order follows the original markup so the
// serialized output is stable.
type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type organization struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *imageObject `json:"logo,omitempty"`
}

type webPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

type blogPosting struct {
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description"`
	Author           person       `json:"author"`
	DatePublished    string       `json:"datePublished"`
	DateModified     string       `json:"dateModified"`
	Publisher        organization `json:"publisher"`
	MainEntityOfPage *webPage     `json:"mainEntityOfPage,omitempty"`
}

// SchemaInput carries the post fields embedded in synthesized schema markup.
type SchemaInput struct {
	Title        string
	Description  string
	AuthorName   string
	PublishDate  time.Time
	CategorySlug string
	Slug         string
}

// SchemaMarkup synthesizes a JSON-LD BlogPosting document for a post. Called
// at create time when no markup was supplied explicitly.
func (a *Assembler) SchemaMarkup(in SchemaInput) (string, error) {
	author := in.AuthorName
	if author == "" {
		author = models.DefaultAuthorName
	}
	published := in.PublishDate
	if published.IsZero() {
		published = time.Now()
	}

	org := organization{Type: "Organization", Name: a.siteName}
	if a.logoURL != "" {
		org.Logo = &imageObject{Type: "ImageObject", URL: a.logoURL}
	}

	doc := blogPosting{
		Type:          "BlogPosting",
		Headline:      in.Title,
		Description:   in.Description,
		Author:        person{Type: "Person", Name: author},
		DatePublished: published.Format(time.RFC3339),
		DateModified:  time.Now().Format(time.RFC3339),
		Publisher:     org,
	}
	// A post without a category has no permalink yet; leave the page
	// reference out rather than embed a malformed URL.
	if in.CategorySlug != "" && in.Slug != "" {
		doc.MainEntityOfPage = &webPage{
			Type: "WebPage",
			ID:   a.CanonicalURL(in.CategorySlug, in.Slug),
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal schema markup: %w", err)
	}
	return string(raw), nil
}

// Validate checks a post's SEO fields and returns the issues found, empty
// when everything passes. Advisory only: the repository never rejects a
// write because of these.
func (a *Assembler) Validate(p *models.Post) []string {
	var issues []string

	title := deref(p.SEOTitle)
	if title == "" {
		issues = append(issues, "Add an SEO title")
	} else if n := utf8.RuneCountInString(title); n < minTitleLen || n > maxTitleLen {
		issues = append(issues, fmt.Sprintf("Optimize SEO title length (%d-%d characters)", minTitleLen, maxTitleLen))
	}

	desc := deref(p.MetaDescription)
	if desc == "" {
		issues = append(issues, "Add an SEO description")
	} else if n := utf8.RuneCountInString(desc); n < minDescLen || n > maxDescLen {
		issues = append(issues, fmt.Sprintf("Optimize SEO description length (%d-%d characters)", minDescLen, maxDescLen))
	}

	if deref(p.SEOKeywords) == "" {
		issues = append(issues, "Add keywords")
	}

	canonical := deref(p.CanonicalURL)
	if canonical == "" {
		issues = append(issues, "Add a canonical URL")
	} else if !canonicalPattern.MatchString(canonical) {
		issues = append(issues, "Canonical URL should match <site>/blog/<category-slug>/<post-slug>")
	}

	return issues
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
