package httpapi

import (
	"net/http"
	"strings"

	"recruitsite-backend-go/internal/services"
)

const (
	tokenCookie   = "admin_token"
	sessionCookie = "admin_session"
)

// isAdmin accepts the shared token as a bearer header or admin_token cookie, or a
// valid admin_session cookie issued by Login.
func isAdmin(tokens services.TokenService, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		if tokens.VerifyAdminToken(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))) {
			return true
		}
	}
	if cookie, err := r.Cookie(tokenCookie); err == nil && tokens.VerifyAdminToken(cookie.Value) {
		return true
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if _, err := tokens.ParseSession(cookie.Value); err == nil {
			return true
		}
	}
	return false
}

func AdminGate(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAdmin(tokens, r) {
				WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
