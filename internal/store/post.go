// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all PillarPress
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"pillarpress/internal/apperr"
	"pillarpress/internal/markdown"
	"pillarpress/internal/models"
	"pillarpress/internal/seo"
	"pillarpress/internal/slug"
)

// DefaultPageSize is used when a listing call supplies no page size.
const DefaultPageSize = 9

const defaultAuthorAvatar = "/images/default-avatar.png"

// querier is the subset of database operations shared by *sql.DB and *sql.Tx,
// letting the same query helpers run standalone or inside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Postgres error codes the stores translate into the application taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

const postColumns = `id, title, slug, content, excerpt, status, is_pillar, is_featured,
	hero_image, author_name, author_image, author_bio, reading_time, view_count,
	cta_conversion_count, content_category, seo_title, meta_description, seo_keywords,
	canonical_url, schema_markup, publish_date, created_at, updated_at`

// prefixedPostColumns qualifies every post column with a table alias.
func prefixedPostColumns(alias string) string {
	cols := strings.Split(postColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status, &p.IsPillar,
		&p.IsFeatured, &p.HeroImage, &p.AuthorName, &p.AuthorImage, &p.AuthorBio,
		&p.ReadingTime, &p.ViewCount, &p.CtaConversions, &p.ContentCategory,
		&p.SEOTitle, &p.MetaDescription, &p.SEOKeywords, &p.CanonicalURL,
		&p.SchemaMarkup, &p.PublishDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostStore handles all post-related database operations, including the
// category/tag joins and the pillar/supporting relationship graph.
type PostStore struct {
	db  *sql.DB
	seo *seo.Assembler
}

// NewPostStore creates a new PostStore. The SEO assembler derives default
// metadata (canonical URL, schema markup) at creation time.
func NewPostStore(db *sql.DB, assembler *seo.Assembler) *PostStore {
	return &PostStore{db: db, seo: assembler}
}

// ListFilters narrows a published-post listing. Empty fields are ignored.
type ListFilters struct {
	Category string // category slug, exact
	Tag      string // tag slug, exact
	Author   string // author-name substring, case-insensitive
	Search   string // substring over title/content/excerpt, case-insensitive
}

// ListPublished returns one page of published posts ordered by featured flag
// then publish date, newest first, with pagination metadata. Invalid paging
// values fall back to page 1 and the default page size.
func (s *PostStore) ListPublished(page, pageSize int, f ListFilters) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	qb := &argList{}
	where := []string{"p.status = " + qb.bind(models.PostStatusPublished)}

	if f.Category != "" {
		where = append(where, `p.id IN (
			SELECT pc.post_id FROM post_categories pc
			JOIN categories c ON pc.category_id = c.id
			WHERE c.slug = `+qb.bind(f.Category)+`)`)
	}
	if f.Tag != "" {
		where = append(where, `p.id IN (
			SELECT pt.post_id FROM post_tags pt
			JOIN tags t ON pt.tag_id = t.id
			WHERE t.slug = `+qb.bind(f.Tag)+`)`)
	}
	if f.Author != "" {
		where = append(where, "p.author_name ILIKE "+qb.bind("%"+f.Author+"%"))
	}
	if f.Search != "" {
		ph := qb.bind("%" + f.Search + "%")
		where = append(where, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s OR p.excerpt ILIKE %s)", ph, ph, ph))
	}

	query := `
		SELECT ` + prefixedPostColumns("p") + `,
		       COUNT(*) OVER() AS total_count
		FROM posts p
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY p.is_featured DESC, p.publish_date DESC
		LIMIT ` + qb.bind(pageSize) + ` OFFSET ` + qb.bind((page-1)*pageSize)

	rows, err := s.db.Query(query, qb.values()...)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	totalCount := 0
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status, &p.IsPillar,
			&p.IsFeatured, &p.HeroImage, &p.AuthorName, &p.AuthorImage, &p.AuthorBio,
			&p.ReadingTime, &p.ViewCount, &p.CtaConversions, &p.ContentCategory,
			&p.SEOTitle, &p.MetaDescription, &p.SEOKeywords, &p.CanonicalURL,
			&p.SchemaMarkup, &p.PublishDate, &p.CreatedAt, &p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	items := make([]models.PostDetail, 0, len(posts))
	for i := range posts {
		detail, err := s.hydrateSummary(&posts[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *detail)
	}

	return &models.PostPage{
		Items: items,
		Pagination: models.Pagination{
			TotalCount:  totalCount,
			TotalPages:  int(math.Ceil(float64(totalCount) / float64(pageSize))),
			CurrentPage: page,
			Limit:       pageSize,
		},
	}, nil
}

// FindBySlug retrieves a post by slug with full hydration: categories, tags,
// author block, and related posts resolved through the relationship graph.
// Side effect: the post's view counter is incremented, fire-and-forget; a
// lost update under concurrent reads is acceptable.
func (s *PostStore) FindBySlug(postSlug string) (*models.PostDetail, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1`, postSlug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("post", postSlug)
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	detail, err := s.hydrateDetail(p)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, p.ID); err != nil {
		slog.Warn("view count increment failed", "post", p.ID, "error", err)
	}

	return detail, nil
}

// FindByID retrieves a bare post by its UUID.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("post", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// DetailByID retrieves a fully hydrated post without touching its view
// count. Authoring surfaces read through this; FindBySlug serves readers.
func (s *PostStore) DetailByID(id uuid.UUID) (*models.PostDetail, error) {
	p, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.hydrateDetail(p)
}

// PillarPosts returns published posts that anchor at least one relationship
// row as the pillar side.
func (s *PostStore) PillarPosts() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT ` + prefixedPostColumns("p") + `
		FROM posts p
		JOIN content_relationships r ON p.id = r.pillar_post_id
		WHERE p.status = 'Published'
		ORDER BY p.publish_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pillar posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// collectPosts drains a query over postColumns into a slice.
func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// hydrateSummary attaches categories, tags, author block, and the pillar
// flag (derived from relationship-row existence) to a post. Used for
// listings; related posts are not resolved.
func (s *PostStore) hydrateSummary(p *models.Post) (*models.PostDetail, error) {
	cats, err := categoriesForPost(s.db, p.ID)
	if err != nil {
		return nil, err
	}
	tags, err := tagsForPost(s.db, p.ID)
	if err != nil {
		return nil, err
	}
	pillar, err := s.anchorsRelationships(p.ID)
	if err != nil {
		return nil, err
	}

	return &models.PostDetail{
		Post:       *p,
		Categories: cats,
		Tags:       tags,
		Author:     authorBlock(p),
		Pillar:     pillar,
	}, nil
}

// hydrateDetail extends hydrateSummary with the relationship graph: a
// pillar's supporting posts, or a supporting post's parent pillar plus up
// to three published siblings.
func (s *PostStore) hydrateDetail(p *models.Post) (*models.PostDetail, error) {
	detail, err := s.hydrateSummary(p)
	if err != nil {
		return nil, err
	}

	if detail.Pillar {
		related, err := s.supportingPosts(p.ID, true)
		if err != nil {
			return nil, err
		}
		detail.RelatedPosts = related
		return detail, nil
	}

	pillar, err := s.parentPillar(p.ID)
	if err != nil {
		return nil, err
	}
	if pillar != nil {
		detail.ParentPillar = pillar
		siblings, err := s.siblingPosts(pillar.ID, p.ID, 3)
		if err != nil {
			return nil, err
		}
		detail.RelatedPosts = siblings
	}
	return detail, nil
}

// authorBlock assembles the denormalized author fields with fallbacks.
func authorBlock(p *models.Post) models.Author {
	a := models.Author{
		Name:   p.AuthorName,
		Avatar: defaultAuthorAvatar,
	}
	if a.Name == "" {
		a.Name = models.DefaultAuthorName
	}
	if p.AuthorImage != nil && *p.AuthorImage != "" {
		a.Avatar = *p.AuthorImage
	}
	if p.AuthorBio != nil {
		a.Bio = *p.AuthorBio
	}
	return a
}

func categoriesForPost(q querier, postID uuid.UUID) ([]models.Category, error) {
	rows, err := q.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at
		FROM categories c
		JOIN post_categories pc ON c.id = pc.category_id
		WHERE pc.post_id = $1
		ORDER BY c.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("categories for post: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func tagsForPost(q querier, postID uuid.UUID) ([]models.Tag, error) {
	rows, err := q.Query(`
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON t.id = pt.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("tags for post: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// PostInput carries the fields accepted when creating a post. Title and
// Content are required; everything else has a derived default.
type PostInput struct {
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	Status          models.PostStatus
	IsPillar        bool
	IsFeatured      bool
	HeroImage       string
	AuthorName      string
	AuthorImage     string
	AuthorBio       string
	ReadingTime     int
	ContentCategory string
	SEOTitle        string
	MetaDescription string
	SEOKeywords     string
	SchemaMarkup    string
	PublishDate     time.Time
	CategoryIDs     []uuid.UUID
	Tags            []string   // tag names, created on demand
	PillarPostID    *uuid.UUID // link the new post to this pillar
}

// Create inserts a post plus its category/tag joins and optional pillar
// relationship as one transaction.
func (s *PostStore) Create(in PostInput) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create post: begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := s.CreateTx(tx, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create post: commit: %w", err)
	}
	return p, nil
}

// CreateTx performs the post insert within the caller's transaction. The
// cluster service uses it to create a whole pillar/supporting cluster as a
// single atomic unit.
func (s *PostStore) CreateTx(tx *sql.Tx, in PostInput) (*models.Post, error) {
	verr := &apperr.ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		verr.Add("content is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		verr.Add(fmt.Sprintf("unknown status %q", in.Status))
	}
	if verr.HasAny() {
		return nil, verr
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}

	postSlug, err := s.uniqueSlug(tx, in.Slug, in.Title)
	if err != nil {
		return nil, err
	}

	excerpt := in.Excerpt
	if excerpt == "" {
		excerpt = defaultExcerpt(in.Content)
	}
	metaDesc := in.MetaDescription
	if metaDesc == "" {
		metaDesc = in.Title
	}
	authorName := in.AuthorName
	if authorName == "" {
		authorName = models.DefaultAuthorName
	}
	readingTime := in.ReadingTime
	if readingTime == 0 {
		readingTime = markdown.EstimateReadingTime(in.Content)
	}
	publishDate := in.PublishDate
	if publishDate.IsZero() {
		publishDate = time.Now()
	}
	seoTitle := in.SEOTitle
	if seoTitle == "" {
		seoTitle = in.Title
	}

	var canonical *string
	if in.ContentCategory != "" {
		u := s.seo.CanonicalURL(in.ContentCategory, postSlug)
		canonical = &u
	}

	markup := in.SchemaMarkup
	if markup == "" {
		markup, err = s.seo.SchemaMarkup(seo.SchemaInput{
			Title:        in.Title,
			Description:  metaDesc,
			AuthorName:   authorName,
			PublishDate:  publishDate,
			CategorySlug: in.ContentCategory,
			Slug:         postSlug,
		})
		if err != nil {
			return nil, err
		}
	}

	row := tx.QueryRow(`
		INSERT INTO posts (
			title, slug, content, excerpt, status, is_pillar, is_featured,
			hero_image, author_name, author_image, author_bio, reading_time,
			content_category, seo_title, meta_description, seo_keywords,
			canonical_url, schema_markup, publish_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING `+postColumns,
		in.Title, postSlug, in.Content, excerpt, status, in.IsPillar, in.IsFeatured,
		nullable(in.HeroImage), authorName, nullable(in.AuthorImage), nullable(in.AuthorBio),
		readingTime, in.ContentCategory, seoTitle, metaDesc, nullable(in.SEOKeywords),
		canonical, markup, publishDate,
	)
	p, err := scanPost(row)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("create post slug %q: %w", postSlug, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := s.attachCategories(tx, p.ID, in.CategoryIDs, in.ContentCategory); err != nil {
		return nil, err
	}
	if err := attachTags(tx, p.ID, in.Tags); err != nil {
		return nil, err
	}

	if in.PillarPostID != nil {
		if err := s.linkTx(tx, *in.PillarPostID, p.ID); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// uniqueSlug derives a slug (from the explicit value or the title) and
// disambiguates collisions with a short timestamp suffix.
func (s *PostStore) uniqueSlug(q querier, explicit, title string) (string, error) {
	base := explicit
	if base == "" {
		base = slug.Generate(title)
	}
	if base == "" {
		return "", &apperr.ValidationError{Issues: []string{"title must contain letters or digits"}}
	}

	taken, err := slugTaken(q, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	candidate := base + "-" + millis[len(millis)-4:]
	taken, err = slugTaken(q, candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}

	// Second collision within the same timestamp window; fall back to a
	// random suffix.
	return base + "-" + uuid.NewString()[:8], nil
}

func slugTaken(q querier, candidate string) (bool, error) {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, candidate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// attachCategories joins the post to the given categories, or to the
// category matching the post's content_category slug when none were named.
func (s *PostStore) attachCategories(tx *sql.Tx, postID uuid.UUID, ids []uuid.UUID, contentCategory string) error {
	if len(ids) == 0 && contentCategory != "" {
		var id uuid.UUID
		err := tx.QueryRow(`SELECT id FROM categories WHERE slug = $1`, contentCategory).Scan(&id)
		if err == sql.ErrNoRows {
			return nil // no matching default category; not an error
		}
		if err != nil {
			return fmt.Errorf("resolve content category: %w", err)
		}
		ids = []uuid.UUID{id}
	}

	for _, id := range ids {
		_, err := tx.Exec(`
			INSERT INTO post_categories (post_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, id)
		if err != nil {
			if pgErrCode(err) == pgForeignKeyViolation {
				return apperr.NotFound("category", id.String())
			}
			return fmt.Errorf("attach category: %w", err)
		}
	}
	return nil
}

// attachTags resolves each tag name (creating missing ones) and joins it to
// the post.
func attachTags(tx *sql.Tx, postID uuid.UUID, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := getOrCreateTagTx(tx, name)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tag.ID)
		if err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}
	return nil
}

// UpdatePostInput patches a post. Nil fields are left untouched; non-nil
// Categories/Tags replace the full join set.
type UpdatePostInput struct {
	Title           *string
	Content         *string
	Excerpt         *string
	Status          *models.PostStatus
	IsFeatured      *bool
	HeroImage       *string
	AuthorName      *string
	AuthorImage     *string
	AuthorBio       *string
	ReadingTime     *int
	ContentCategory *string
	SEOTitle        *string
	MetaDescription *string
	SEOKeywords     *string
	CanonicalURL    *string
	SchemaMarkup    *string
	PublishDate     *time.Time
	CategoryIDs     *[]uuid.UUID
	Tags            *[]string
}

// Update applies a partial update. updated_at is always refreshed.
func (s *PostStore) Update(id uuid.UUID, in UpdatePostInput) (*models.Post, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, &apperr.ValidationError{Issues: []string{fmt.Sprintf("unknown status %q", *in.Status)}}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update post: begin tx: %w", err)
	}
	defer tx.Rollback()

	var c setClause
	setIf := func(col string, v *string) {
		if v != nil {
			c.set(col, *v)
		}
	}
	setIf("title", in.Title)
	setIf("content", in.Content)
	setIf("excerpt", in.Excerpt)
	if in.Status != nil {
		c.set("status", *in.Status)
	}
	if in.IsFeatured != nil {
		c.set("is_featured", *in.IsFeatured)
	}
	setIf("hero_image", in.HeroImage)
	setIf("author_name", in.AuthorName)
	setIf("author_image", in.AuthorImage)
	setIf("author_bio", in.AuthorBio)
	if in.ReadingTime != nil {
		c.set("reading_time", *in.ReadingTime)
	}
	setIf("content_category", in.ContentCategory)
	setIf("seo_title", in.SEOTitle)
	setIf("meta_description", in.MetaDescription)
	setIf("seo_keywords", in.SEOKeywords)
	setIf("canonical_url", in.CanonicalURL)
	setIf("schema_markup", in.SchemaMarkup)
	if in.PublishDate != nil {
		c.set("publish_date", *in.PublishDate)
	}
	c.setRaw("updated_at = NOW()")

	query := `UPDATE posts SET ` + c.sql() + ` WHERE id = ` + c.bind(id) + ` RETURNING ` + postColumns
	p, err := scanPost(tx.QueryRow(query, c.values()...))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("post", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if in.CategoryIDs != nil {
		if _, err := tx.Exec(`DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
			return nil, fmt.Errorf("update post categories: %w", err)
		}
		if err := s.attachCategories(tx, id, *in.CategoryIDs, ""); err != nil {
			return nil, err
		}
	}
	if in.Tags != nil {
		if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
			return nil, fmt.Errorf("update post tags: %w", err)
		}
		if err := attachTags(tx, id, *in.Tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update post: commit: %w", err)
	}
	return p, nil
}

// Delete removes a post, its category/tag join rows, and every relationship
// row referencing it on either side. A pillar left with zero supporting
// posts by the delete loses its is_pillar flag so the two signals stay
// consistent.
func (s *PostStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete post: begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		DELETE FROM content_relationships
		WHERE pillar_post_id = $1 OR supporting_post_id = $1
		RETURNING pillar_post_id
	`, id)
	if err != nil {
		return fmt.Errorf("delete post relationships: %w", err)
	}
	pillars := map[uuid.UUID]bool{}
	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return fmt.Errorf("scan relationship: %w", err)
		}
		if pid != id {
			pillars[pid] = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("delete post relationships: %w", err)
	}

	for pid := range pillars {
		_, err := tx.Exec(`
			UPDATE posts SET is_pillar = FALSE, updated_at = NOW()
			WHERE id = $1 AND NOT EXISTS (
				SELECT 1 FROM content_relationships WHERE pillar_post_id = $1
			)
		`, pid)
		if err != nil {
			return fmt.Errorf("sync pillar flag: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post categories: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post tags: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("post", id.String())
	}

	return tx.Commit()
}

// SetStatus moves a post through the editorial workflow, validating the
// transition against the current status under a row lock. An invalid
// transition is reported, never silently applied.
func (s *PostStore) SetStatus(id uuid.UUID, next models.PostStatus) (*models.Post, error) {
	if !next.Valid() {
		return nil, &apperr.ValidationError{Issues: []string{fmt.Sprintf("unknown status %q", next)}}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("set status: begin tx: %w", err)
	}
	defer tx.Rollback()

	var current models.PostStatus
	err = tx.QueryRow(`SELECT status FROM posts WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("post", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	if !current.CanTransitionTo(next) {
		return nil, &apperr.ValidationError{
			Issues: []string{fmt.Sprintf("cannot move post from %q to %q", current, next)},
		}
	}

	row := tx.QueryRow(`
		UPDATE posts SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+postColumns, next, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("set status: commit: %w", err)
	}
	return p, nil
}

// TrackCtaConversion bumps the post's conversion counter. Same lost-update
// tolerance as view counts.
func (s *PostStore) TrackCtaConversion(id uuid.UUID) error {
	res, err := s.db.Exec(`UPDATE posts SET cta_conversion_count = cta_conversion_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("track cta conversion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("post", id.String())
	}
	return nil
}

// defaultExcerpt trims the content to a short teaser.
func defaultExcerpt(content string) string {
	r := []rune(strings.TrimSpace(content))
	if len(r) <= 150 {
		return string(r)
	}
	return string(r[:150]) + "..."
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
