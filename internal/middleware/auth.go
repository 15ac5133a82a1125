package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/models"
)

type contextKey string

const ctxUserKey contextKey = "user"

// TokenValidator verifies a bearer token and returns the subject user id.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// UserLoader resolves the authenticated user row. Loading per request keeps
// role flags (is_admin, is_active) and the balance current.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireAuth authenticates the request via Authorization: Bearer <jwt>,
// loads the user row and stores it in the request context. Missing, invalid
// or expired tokens, and inactive users, yield a 401 envelope.
func RequireAuth(tokens TokenValidator, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				api.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			userID, err := tokens.ValidateToken(r.Context(), raw)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil || user == nil || !user.IsActive {
				api.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-admin callers with a 403 envelope. Must run
// inside RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil {
			api.Fail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !user.IsAdmin {
			api.Fail(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromCtx returns the authenticated user or nil.
func UserFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxUserKey).(*models.User)
	return u
}

// WithUser returns a context carrying the given user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
