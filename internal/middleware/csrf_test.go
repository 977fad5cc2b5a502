package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCSRFIssuesTokenCookie(t *testing.T) {
	inner, _ := okHandler()
	handler := CSRF(inner)

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var token string
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("expected CSRF cookie on first response")
	}
	if len(token) != csrfTokenLength*2 {
		t.Errorf("token length: got %d, want %d", len(token), csrfTokenLength*2)
	}
}

func TestCSRFAllowsSafeMethods(t *testing.T) {
	inner, called := okHandler()
	handler := CSRF(inner)

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		*called = false
		req := httptest.NewRequest(method, "/admin/posts", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Errorf("%s: next handler should have been called", method)
		}
	}
}

func TestCSRFRejectsMissingHeader(t *testing.T) {
	inner, called := okHandler()
	handler := CSRF(inner)

	req := httptest.NewRequest(http.MethodPost, "/admin/posts", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "sometoken"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if *called {
		t.Error("next handler should NOT have been called")
	}
	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestCSRFAcceptsMatchingHeader(t *testing.T) {
	inner, called := okHandler()
	handler := CSRF(inner)

	req := httptest.NewRequest(http.MethodPost, "/admin/posts", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "sometoken"})
	req.Header.Set(CSRFHeaderName, "sometoken")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !*called {
		t.Error("next handler should have been called")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestCSRFRejectsMismatchedHeader(t *testing.T) {
	inner, called := okHandler()
	handler := CSRF(inner)

	req := httptest.NewRequest(http.MethodDelete, "/admin/posts/x", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "sometoken"})
	req.Header.Set(CSRFHeaderName, "othertoken")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if *called {
		t.Error("next handler should NOT have been called")
	}
	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}
