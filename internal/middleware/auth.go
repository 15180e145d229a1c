package middleware

import (
	"log"
	"net/http"

	"github.com/hoangminh/cardbox/internal/services"
)

const sessionCookieName = "admin_session"

// AdminAuth guards the admin surface behind the session cookie.
type AdminAuth struct {
	authService services.AuthServiceInterface
}

func NewAdminAuth(authService services.AuthServiceInterface) *AdminAuth {
	return &AdminAuth{authService: authService}
}

func (a *AdminAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		valid, err := a.authService.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			log.Printf("Error validating session: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !valid {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
