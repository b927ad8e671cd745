package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTenant_RejectsMissingOrganization(t *testing.T) {
	var called bool
	handler := Tenant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if called {
		t.Fatal("handler should not run without an organization header")
	}
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestTenant_PopulatesContext(t *testing.T) {
	var orgID, userID string
	handler := Tenant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID = OrganizationID(r.Context())
		userID = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(OrganizationHeader, "org-1")
	req.Header.Set(UserHeader, "user-7")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if orgID != "org-1" {
		t.Fatalf("expected org-1, got %q", orgID)
	}
	if userID != "user-7" {
		t.Fatalf("expected user-7, got %q", userID)
	}
}

func TestTenant_UserIsOptional(t *testing.T) {
	var userID string
	handler := Tenant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(OrganizationHeader, "org-1")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if userID != "" {
		t.Fatalf("expected empty user, got %q", userID)
	}
}
