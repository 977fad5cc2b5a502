package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pillarpress/internal/models"
)

func TestAdminCreatePost(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "test-admincreate") })

	body := `{"title":"Test Admincreate ` + uuid.NewString()[:8] + `","content":"body text","tags":["test-admincreate-tag"]}`
	req := httptest.NewRequest(http.MethodPost, "/admin/posts", strings.NewReader(body))
	rr := httptest.NewRecorder()
	env.Admin.CreatePost(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var post models.Post
	if err := json.Unmarshal(rr.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.Status != models.PostStatusDraft {
		t.Errorf("status: got %q, want Draft", post.Status)
	}
	if post.Slug == "" {
		t.Error("expected generated slug")
	}

	env.DB.Exec(`DELETE FROM tags WHERE name = 'test-admincreate-tag'`)
}

func TestAdminCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/posts", strings.NewReader(`{"title":""}`))
	rr := httptest.NewRecorder()
	env.Admin.CreatePost(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Issues) == 0 {
		t.Error("expected validation issues in the response")
	}
}

func TestAdminCreatePostRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/posts",
		strings.NewReader(`{"title":"x","content":"y","bogus":true}`))
	rr := httptest.NewRecorder()
	env.Admin.CreatePost(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestAdminSetStatusFlow(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "test-adminstatus") })

	created, err := env.Posts.Create(postInputForTest("Test Adminstatus " + uuid.NewString()[:8]))
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	setStatus := func(status string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/posts/"+created.ID.String()+"/status",
			strings.NewReader(`{"status":"`+status+`"}`))
		req = withChiURLParam(req, "id", created.ID.String())
		rr := httptest.NewRecorder()
		env.Admin.SetStatus(rr, req)
		return rr
	}

	// Draft cannot go straight to Published.
	if rr := setStatus("Published"); rr.Code != http.StatusBadRequest {
		t.Errorf("Draft→Published: got %d, want 400", rr.Code)
	}

	if rr := setStatus("For Approval"); rr.Code != http.StatusOK {
		t.Fatalf("Draft→For Approval: got %d, body %s", rr.Code, rr.Body.String())
	}
	if rr := setStatus("Published"); rr.Code != http.StatusOK {
		t.Fatalf("For Approval→Published: got %d, body %s", rr.Code, rr.Body.String())
	}
	// Published is terminal.
	if rr := setStatus("Draft"); rr.Code != http.StatusBadRequest {
		t.Errorf("Published→Draft: got %d, want 400", rr.Code)
	}
}

func TestAdminCreateClusterAtomic(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "test-adminclu") })

	marker := uuid.NewString()[:8]
	body := `{
		"pillar": {"title": "Test Adminclu Pillar ` + marker + `", "content": "pillar"},
		"supporting_posts": [
			{"title": "Test Adminclu Support ` + marker + `", "content": "support"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/admin/clusters", strings.NewReader(body))
	rr := httptest.NewRecorder()
	env.Admin.CreateCluster(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var c models.Cluster
	if err := json.Unmarshal(rr.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(c.SupportingPosts) != 1 {
		t.Errorf("supporting posts: got %d, want 1", len(c.SupportingPosts))
	}

	// A failing supporting post rolls the whole cluster back.
	bad := `{
		"pillar": {"title": "Test Adminclu Bad ` + marker + `", "content": "pillar"},
		"supporting_posts": [{"title": "", "content": ""}]
	}`
	req = httptest.NewRequest(http.MethodPost, "/admin/clusters", strings.NewReader(bad))
	rr = httptest.NewRecorder()
	env.Admin.CreateCluster(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad cluster: got %d, want 400", rr.Code)
	}
	var count int
	env.DB.QueryRow(`SELECT COUNT(*) FROM posts WHERE slug LIKE 'test-adminclu-bad%'`).Scan(&count)
	if count != 0 {
		t.Errorf("expected rollback, found %d rows", count)
	}
}

func TestAdminSEOReport(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { cleanPosts(t, env.DB, "test-adminseo") })

	created, err := env.Posts.Create(postInputForTest("Test Adminseo " + uuid.NewString()[:8]))
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/posts/"+created.ID.String()+"/seo", nil)
	req = withChiURLParam(req, "id", created.ID.String())
	rr := httptest.NewRecorder()
	env.Admin.SEOReport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var report seoReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.PostID != created.ID {
		t.Errorf("post id: got %s", report.PostID)
	}
	if report.Issues == nil {
		t.Error("issues must be an array, not null")
	}
}

func TestAdminCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	catSlug := "test-admincat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, env.DB, catSlug) })

	body := `{"name":"Test Admincat","slug":"` + catSlug + `"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(body))
	rr := httptest.NewRecorder()
	env.Admin.CreateCategory(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("create status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var category models.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &category); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Duplicate slug is a conflict.
	req = httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(body))
	rr = httptest.NewRecorder()
	env.Admin.CreateCategory(rr, req)
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate status: got %d, want 409", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/admin/categories/"+category.ID.String(), nil)
	req = withChiURLParam(req, "id", category.ID.String())
	rr = httptest.NewRecorder()
	env.Admin.DeleteCategory(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status: got %d, want 204", rr.Code)
	}
}
