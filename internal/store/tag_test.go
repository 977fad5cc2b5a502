package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestTagStoreGetOrCreate(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	name := "test-tag-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTags(t, db, name) })

	first, err := s.GetOrCreate(name)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first.Name != name {
		t.Errorf("name: got %q, want %q", first.Name, name)
	}
	if first.Slug == "" {
		t.Error("expected a derived slug")
	}

	second, err := s.GetOrCreate(name)
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the same tag row, got %s and %s", first.ID, second.ID)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tags WHERE name = $1`, name).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestTagStoreSlugCollisionGetsSuffix(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	marker := uuid.NewString()[:8]
	// Both names normalize to the same slug.
	a := "test sluggy " + marker
	b := "Test Sluggy! " + marker
	t.Cleanup(func() {
		cleanTags(t, db, a)
		cleanTags(t, db, b)
	})

	first, err := s.GetOrCreate(a)
	if err != nil {
		t.Fatalf("GetOrCreate first: %v", err)
	}
	second, err := s.GetOrCreate(b)
	if err != nil {
		t.Fatalf("GetOrCreate second: %v", err)
	}

	if first.ID == second.ID {
		t.Fatal("distinct names must not share a tag row")
	}
	if first.Slug == second.Slug {
		t.Errorf("expected distinct slugs, both %q", first.Slug)
	}
}

func TestTagStoreFindBySlugMissing(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	tag, err := s.FindBySlug("no-such-tag-" + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if tag != nil {
		t.Errorf("expected nil for unknown slug, got %+v", tag)
	}
}
