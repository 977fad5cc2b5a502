package store

import (
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pillarpress/internal/models"
)

func seedUser(t *testing.T, s *UserStore, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO users (email, display_name, password_hash, role)
		VALUES ($1, 'Test User', $2, $3)
	`, email, string(hash), models.RoleEditor)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
}

func TestUserStoreAuthenticate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, db, email) })
	seedUser(t, s, email, "correct horse")

	u, err := s.Authenticate(email, "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u == nil || u.Email != email {
		t.Fatalf("expected authenticated user, got %+v", u)
	}
	if u.Role != models.RoleEditor {
		t.Errorf("role: got %q", u.Role)
	}

	// Wrong password and unknown account look the same to the caller.
	if u, err := s.Authenticate(email, "wrong"); err != nil || u != nil {
		t.Errorf("wrong password: got user=%v err=%v", u, err)
	}
	if u, err := s.Authenticate("nobody@example.com", "whatever"); err != nil || u != nil {
		t.Errorf("unknown account: got user=%v err=%v", u, err)
	}
}

func TestUserStoreFindByEmailMissing(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u, err := s.FindByEmail("missing-" + uuid.NewString()[:8] + "@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for unknown email, got %+v", u)
	}
}
