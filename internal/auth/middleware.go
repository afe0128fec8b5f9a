package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const adminKey contextKey = "hrportal_admin"

// CookieName is the cookie checked when no Authorization header is sent.
const CookieName = "admin_token"

// RequireAdmin rejects requests without a valid admin token. A nil issuer
// leaves the wrapped routes open.
func RequireAdmin(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if issuer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := issuer.ParseToken(token)
			if err != nil || claims.Subject == "" || claims.Role != RoleAdmin {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(adminKey)
	admin, ok := value.(string)
	return admin, ok
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}
