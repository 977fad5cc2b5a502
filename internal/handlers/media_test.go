package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"pillarpress/internal/storage"
)

// testStorageClient builds a storage client against a dummy endpoint.
// No request in these tests reaches S3.
func testStorageClient(t *testing.T) *storage.Client {
	t.Helper()
	c, err := storage.New("http://localhost:9000", "us-east-1", "test", "test", "test-bucket", "")
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return c
}

func TestMediaUploadWithoutStorage(t *testing.T) {
	media := NewMedia(nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/media", nil)
	rr := httptest.NewRecorder()
	media.Upload(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}

func TestMediaUploadRejectsUnsupportedType(t *testing.T) {
	// A non-nil client is required to get past the configuration check;
	// the type check runs before any S3 call, so no credentials are needed.
	media := NewMedia(testStorageClient(t))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="doc.pdf"`)
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("%PDF-1.4"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	media.Upload(rr, req)

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status: got %d, want 415", rr.Code)
	}
}
