// Package adminauth implements the shared-secret admin session guard. The
// admin credential is a single client-computed password hash compared against
// a server-held digest; possession of that digest in the session cookie is
// the whole proof of identity.
package adminauth

import (
	"crypto/subtle"
	"net/http"
	"time"

	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	"github.com/n1protocol/portal/pkg/config"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

// Guard verifies admin sessions and issues/clears the session cookie.
type Guard struct {
	secretHash    string
	secureCookies bool
	maxAge        time.Duration
}

// NewGuard creates a guard from the admin configuration.
func NewGuard(cfg config.AdminConfig) *Guard {
	maxAge := cfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Guard{
		secretHash:    cfg.SecretHash,
		secureCookies: cfg.SecureCookies,
		maxAge:        maxAge,
	}
}

// Login compares the candidate hash against the configured secret and, on
// match, sets the session cookie on the response. A mismatch issues no cookie
// and discloses nothing about why.
func (g *Guard) Login(w http.ResponseWriter, candidateHash string) error {
	if !g.matches(candidateHash) {
		return apperrors.UnAuthorizedError(nil, "invalid credentials")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    g.secretHash,
		Path:     "/",
		MaxAge:   int(g.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout clears the session cookie unconditionally.
func (g *Guard) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Check reports whether the request carries a valid admin session cookie.
func (g *Guard) Check(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return g.matches(cookie.Value)
}

// Require is chi middleware that rejects the request with 401 before the
// handler runs, so guarded operations can have no partial side effects.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Check(r) {
			apphttpError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) matches(candidate string) bool {
	if candidate == "" || g.secretHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(g.secretHash)) == 1
}
