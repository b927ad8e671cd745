package middleware

import (
	"context"
	"net/http"
)

const (
	// OrganizationHeader carries the tenant every request operates on.
	OrganizationHeader = "X-Organization-ID"
	// UserHeader carries the acting user for audit attribution.
	UserHeader = "X-User-ID"
)

type contextKey string

const (
	organizationKey contextKey = "organization_id"
	userKey         contextKey = "user_id"
)

// Tenant extracts the organization and user headers into the request
// context. Requests without an organization are rejected before they
// reach a handler.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := r.Header.Get(OrganizationHeader)
		if orgID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"missing ` + OrganizationHeader + ` header"}`))

			return
		}

		ctx := context.WithValue(r.Context(), organizationKey, orgID)
		if userID := r.Header.Get(UserHeader); userID != "" {
			ctx = context.WithValue(ctx, userKey, userID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OrganizationID returns the tenant stored in the context.
func OrganizationID(ctx context.Context) string {
	orgID, _ := ctx.Value(organizationKey).(string)
	return orgID
}

// UserID returns the acting user stored in the context, if any.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userKey).(string)
	return userID
}
