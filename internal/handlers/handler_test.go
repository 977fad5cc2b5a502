// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// the listing cache is left nil so Valkey is not required.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pillarpress/internal/cluster"
	"pillarpress/internal/database"
	"pillarpress/internal/middleware"
	"pillarpress/internal/seo"
	"pillarpress/internal/session"
	"pillarpress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("TEST_DB_HOST", "localhost")
	port := envOr("TEST_DB_PORT", "5432")
	user := envOr("TEST_DB_USER", "pillarpress")
	pass := envOr("TEST_DB_PASSWORD", "pillarpress")
	name := envOr("TEST_DB_NAME", "pillarpress_test")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Posts      *store.PostStore
	Categories *store.CategoryStore
	Tags       *store.TagStore
	Clusters   *cluster.Service
	Admin      *Admin
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies except Valkey and S3.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	assembler := seo.New("https://blog.example.com", "Example Marketplace", "")
	posts := store.NewPostStore(db, assembler)
	categories := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)
	clusters := cluster.NewService(db, posts)

	admin := NewAdmin(posts, categories, tags, clusters, assembler, nil)
	public := NewPublic(posts, categories, tags, clusters, nil)

	return &testEnv{
		DB:         db,
		Posts:      posts,
		Categories: categories,
		Tags:       tags,
		Clusters:   clusters,
		Admin:      admin,
		Public:     public,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(role string) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "editor@pillarpress.local",
		DisplayName: "Test Editor",
		Role:        role,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// postInputForTest builds a minimal valid post input.
func postInputForTest(title string) store.PostInput {
	return store.PostInput{Title: title, Content: "content"}
}

// cleanPosts removes test posts by slug prefix.
func cleanPosts(t *testing.T, db *sql.DB, slugPrefixes ...string) {
	t.Helper()
	for _, prefix := range slugPrefixes {
		db.Exec("DELETE FROM posts WHERE slug LIKE $1", prefix+"%")
	}
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", s)
	}
}
