package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	msgMissingUserID = "missing X-User-ID header"
	msgInvalidUserID = "invalid X-User-ID header"
)

type userIDKey struct{}
type userRoleKey struct{}

// Auth requires an X-User-ID header and stores the caller's identity in
// the request context. The upstream gateway authenticates callers; this
// service only trusts the forwarded headers. X-User-Role is optional and
// defaults to customer.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(headerUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := r.Header.Get(headerUserRole)
		if role != domain.RoleStaff {
			role = domain.RoleCustomer
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		ctx = context.WithValue(ctx, userRoleKey{}, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user's ID from the context.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// GetUserRole extracts the authenticated user's role from the context.
// Returns RoleCustomer when the context carries no role.
func GetUserRole(ctx context.Context) string {
	role, ok := ctx.Value(userRoleKey{}).(string)
	if !ok {
		return domain.RoleCustomer
	}
	return role
}
