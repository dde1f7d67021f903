package middleware

import (
	"context"
	"net/http"

	"github.com/reliwe/storefront/internal/session"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "reliwe_session"

type contextKey string

const sessionKey contextKey = "session"

// Sessions attaches the caller's session to the request context,
// minting a fresh anonymous session (and cookie) when the token is
// absent or no longer live.
func Sessions(store *session.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session

		if cookie, err := r.Cookie(SessionCookie); err == nil {
			if existing, ok := store.Get(cookie.Value); ok {
				sess = existing
			}
		}
		if sess == nil {
			sess = store.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.Token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFrom returns the session attached by Sessions middleware.
func SessionFrom(r *http.Request) (*session.Session, bool) {
	sess, ok := r.Context().Value(sessionKey).(*session.Session)
	return sess, ok
}
