package middleware

import (
	"context"
	"net/http"
	"time"

	portalauth "github.com/stephschuch819-blip/portalauth"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "dg_session"

type caseContextKey struct{}

// CaseFromContext returns the case record injected by [RequireCase], if any.
func CaseFromContext(ctx context.Context) (*portalauth.CaseRecord, bool) {
	record, ok := ctx.Value(caseContextKey{}).(*portalauth.CaseRecord)
	return record, ok
}

// RequireCase returns middleware that resolves the request's session cookie
// through [portalauth.Guard.RequireCase] and injects the resolved case into
// the request context. Requests without a valid session are redirected to
// loginPath; handlers behind this middleware never see a case identifier
// from client input.
func RequireCase(guard *portalauth.Guard, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			token, ok := sessionToken(r)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			record, err := guard.RequireCase(withClientIP(r), token)
			if err != nil {
				ClearSessionCookie(w)
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), caseContextKey{}, record)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionTokenFromRequest returns the session token the client presented, or
// "" when no cookie is set. Login handlers pass it to
// [portalauth.Guard.LoginRotating] so a pre-set token is destroyed on
// success.
func SessionTokenFromRequest(r *http.Request) string {
	token, _ := sessionToken(r)
	return token
}

// SetSessionCookie writes the session token cookie after a successful login.
// maxAge should match the guard's configured idle window.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie. Call it on logout and when
// a presented token fails authorization.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func withClientIP(r *http.Request) context.Context {
	return portalauth.WithClientIP(r.Context(), clientIP(r))
}

func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}
