package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), "anon_user", "tab-1")
	if got := UserIDFromContext(ctx); got != "anon_user" {
		t.Errorf("UserIDFromContext = %q", got)
	}
	if got := SessionIDFromContext(ctx); got != "tab-1" {
		t.Errorf("SessionIDFromContext = %q", got)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	if got := UserIDFromContext(ctx); got != "" {
		t.Errorf("Expected empty user ID, got %q", got)
	}
	if got := SessionIDFromContext(ctx); got != DefaultSessionIDValue {
		t.Errorf("Expected default session ID, got %q", got)
	}
}

func TestSanitizeSessionID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tab-1", "tab-1"},
		{"  tab-1  ", "tab-1"},
		{"a.b:c_d-e", "a.b:c_d-e"},
		{"", DefaultSessionIDValue},
		{"has spaces", DefaultSessionIDValue},
		{"emoji🎯", DefaultSessionIDValue},
	}
	for _, tt := range tests {
		if got := sanitizeSessionID(tt.in); got != tt.want {
			t.Errorf("sanitizeSessionID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateAnonID(t *testing.T) {
	a, err := generateAnonID()
	if err != nil {
		t.Fatalf("generateAnonID failed: %v", err)
	}
	if !isValidAnonID(a) {
		t.Errorf("Generated ID does not match the anon pattern: %q", a)
	}
	b, err := generateAnonID()
	if err != nil {
		t.Fatalf("generateAnonID failed: %v", err)
	}
	if a == b {
		t.Error("Two generated IDs collided")
	}
}

func TestIsValidAnonID(t *testing.T) {
	if isValidAnonID("anon_") || isValidAnonID("user_deadbeef") || isValidAnonID("anon_XYZ") {
		t.Error("Malformed IDs accepted")
	}
	if !isValidAnonID("anon_0123456789abcdef0123456789abcdef") {
		t.Error("Well-formed ID rejected")
	}
}

func TestGetOrCreateAnonIDReusesCookie(t *testing.T) {
	const existing = "anon_0123456789abcdef0123456789abcdef"

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: existing})
	w := httptest.NewRecorder()

	id, err := getOrCreateAnonID(w, r, true)
	if err != nil {
		t.Fatalf("getOrCreateAnonID failed: %v", err)
	}
	if id != existing {
		t.Errorf("Expected cookie value reused, got %q", id)
	}
}

func TestGetOrCreateAnonIDRejectsForgedCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "admin"})
	w := httptest.NewRecorder()

	id, err := getOrCreateAnonID(w, r, true)
	if err != nil {
		t.Fatalf("getOrCreateAnonID failed: %v", err)
	}
	if id == "admin" || !isValidAnonID(id) {
		t.Errorf("Forged cookie value not replaced: %q", id)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != AnonCookieName || cookies[0].Value != id {
		t.Errorf("Fresh identity cookie not set: %+v", cookies)
	}
}

func TestSessionIDFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(SessionHeaderName, "tab-7")
	if got := sessionIDFromRequest(r); got != "tab-7" {
		t.Errorf("Header session ID not used: %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/?session_id=tab-9", nil)
	if got := sessionIDFromRequest(r); got != "tab-9" {
		t.Errorf("Query session ID not used: %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := sessionIDFromRequest(r); got != DefaultSessionIDValue {
		t.Errorf("Expected default session ID, got %q", got)
	}
}
