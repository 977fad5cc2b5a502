// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pillarpress/internal/database"
	"pillarpress/internal/seo"
)

// testDSN returns the PostgreSQL connection string for testing. The TEST_DB_*
// variables override the defaults, which point at a local throwaway database.
func testDSN() string {
	host := envOr("TEST_DB_HOST", "localhost")
	port := envOr("TEST_DB_PORT", "5432")
	user := envOr("TEST_DB_USER", "pillarpress")
	pass := envOr("TEST_DB_PASSWORD", "pillarpress")
	name := envOr("TEST_DB_NAME", "pillarpress_test")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testAssembler returns an SEO assembler with a fixed site identity.
func testAssembler() *seo.Assembler {
	return seo.New("https://blog.example.com", "Example Marketplace", "")
}

// testPostStore wires a PostStore against the test database.
func testPostStore(t *testing.T) (*PostStore, *sql.DB) {
	t.Helper()
	db := testDB(t)
	return NewPostStore(db, testAssembler()), db
}

// cleanPosts removes test posts by slug prefix. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugPrefixes ...string) {
	t.Helper()
	for _, prefix := range slugPrefixes {
		db.Exec("DELETE FROM posts WHERE slug LIKE $1", prefix+"%")
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", s)
	}
}

// cleanTags removes test tags by name. Call in t.Cleanup().
func cleanTags(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM tags WHERE name = $1", name)
	}
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}
