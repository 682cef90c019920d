package middleware

import (
	"context"
	"net/http"
)

type activeRoleKeyType string

const ActiveRoleKey activeRoleKeyType = "active_role"

// ActiveRole copies the X-Active-Role header into the request context.
// Dual-capability faculty use it to state which dashboard they act from;
// services reject faculty operations that need a selection but lack one.
func ActiveRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.Header.Get("X-Active-Role")
		if role == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), ActiveRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActiveRole returns the active role from context, or empty.
func GetActiveRole(ctx context.Context) string {
	if v := ctx.Value(ActiveRoleKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
