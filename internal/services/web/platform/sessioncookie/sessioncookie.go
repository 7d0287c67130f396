// Package sessioncookie reads and writes the game session cookie.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/ontsnapping/internal/services/web/platform/requestmeta"
)

// Name is the session cookie name.
const Name = "ontsnapping_session"

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	return value, value != ""
}

// Write sets the session cookie. A positive ttl bounds the cookie lifetime;
// otherwise it lasts for the browser session.
func Write(w http.ResponseWriter, r *http.Request, policy requestmeta.Policy, sessionID string, ttl time.Duration) {
	if w == nil {
		return
	}
	cookie := newCookie(r, policy, strings.TrimSpace(sessionID))
	if ttl > 0 {
		cookie.MaxAge = int(ttl / time.Second)
	}
	http.SetCookie(w, cookie)
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy requestmeta.Policy) {
	if w == nil {
		return
	}
	cookie := newCookie(r, policy, "")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func newCookie(r *http.Request, policy requestmeta.Policy, value string) *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	}
}
