package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/reliwe/storefront/internal/auth"
	"github.com/reliwe/storefront/internal/http/respond"
	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/middleware"
	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/models/dto"
	"github.com/reliwe/storefront/internal/session"
)

// AuthHandler owns the register/login/logout endpoints.
type AuthHandler struct {
	svc      *auth.Service
	sessions *session.Store
	logger   logging.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *auth.Service, sessions *session.Store, logger logging.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, logger: logger}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	created, err := h.svc.Register(r.Context(), req, clientIP(r), r.UserAgent())
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "Registration successful! Please log in with your credentials.", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, req.Password, clientIP(r), r.UserAgent())
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	// The anonymous session (and its cart) carries over; login only
	// binds the identity to it.
	sess, ok := middleware.SessionFrom(r)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "no session")
		return
	}
	sess.Bind(user)

	redirect := middleware.DashboardPath
	if user.Role == models.RoleAdmin {
		redirect = "/admin"
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{User: user, Redirect: redirect})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r)
	if ok {
		if id, bound := sess.Identity(); bound {
			h.svc.RecordLogout(r.Context(), id.UserID, id.Email, clientIP(r), r.UserAgent())
		}
		// Session and cart die together.
		h.sessions.Destroy(sess.Token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "logged out", nil)
}

// writeAuthError maps the auth error taxonomy onto HTTP statuses.
// Validation messages are echoed; internal failures stay generic.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrDuplicateEmail):
		respond.Error(w, http.StatusConflict, "This email is already registered.")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, auth.ErrSuspended):
		respond.Error(w, http.StatusForbidden, "Your account has been suspended. Please contact support.")
	case errors.Is(err, auth.ErrLockedOut):
		respond.Error(w, http.StatusTooManyRequests, "Too many failed attempts. Please try again later.")
	default:
		h.logger.Error(r.Context(), "auth request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
