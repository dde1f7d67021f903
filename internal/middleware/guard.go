package middleware

import "net/http"

// Frontend entry points used when a guard turns a request away.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// RequireAuth turns anonymous callers away to the login entry point
// without rendering any content.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFrom(r)
		if !ok || !sess.Authenticated() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards privileged pages: anonymous callers go to the
// login entry point, authenticated non-admins to their default landing
// page. The role check uses the snapshot captured at login.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFrom(r)
		if !sess.IsAdmin() {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
