package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/reliwe/storefront/internal/http/respond"
	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/middleware"
	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/models/dto"
	"github.com/reliwe/storefront/internal/session"
	"github.com/reliwe/storefront/internal/storage"
)

const recentActivityLimit = 50

// AdminHandler serves the privileged dashboard data: user counts,
// the user list with status/role management, and the activity view.
// Every route sits behind the admin guard.
type AdminHandler struct {
	users    storage.UserStore
	activity storage.ActivityStore
	logger   logging.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(users storage.UserStore, activity storage.ActivityStore, logger logging.Logger) *AdminHandler {
	return &AdminHandler{users: users, activity: activity, logger: logger}
}

// Register attaches admin routes behind the admin guard.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /admin/stats", middleware.RequireAdmin(http.HandlerFunc(h.handleStats)))
	mux.Handle("GET /admin/users", middleware.RequireAdmin(http.HandlerFunc(h.handleListUsers)))
	mux.Handle("PATCH /admin/users/{id}", middleware.RequireAdmin(http.HandlerFunc(h.handleUpdateUser)))
	mux.Handle("GET /admin/activity", middleware.RequireAdmin(http.HandlerFunc(h.handleActivity)))
}

func (h *AdminHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.users.CountActiveByRole(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "count users", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	respond.JSON(w, http.StatusOK, "stats", map[string]any{
		"active_users":  total,
		"active_admins": counts[models.RoleAdmin],
	})
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "list users", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	respond.JSON(w, http.StatusOK, "users", users)
}

func (h *AdminHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req dto.AdminUserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Status == "" && req.Role == "" {
		respond.Error(w, http.StatusBadRequest, "nothing to update")
		return
	}

	sess, _ := middleware.SessionFrom(r)
	actor, _ := sess.Identity()

	if req.Status != "" {
		status := models.Status(req.Status)
		if !status.Valid() {
			respond.Error(w, http.StatusBadRequest, "unknown status")
			return
		}
		if err := h.users.UpdateStatus(r.Context(), targetID, status); err != nil {
			h.writeUpdateError(w, r, err)
			return
		}
		h.audit(r, actor, targetID, models.ActionUserStatusChange, "status changed to "+req.Status)
	}

	if req.Role != "" {
		role := models.Role(req.Role)
		if !role.Valid() {
			respond.Error(w, http.StatusBadRequest, "unknown role")
			return
		}
		if err := h.users.UpdateRole(r.Context(), targetID, role); err != nil {
			h.writeUpdateError(w, r, err)
			return
		}
		h.audit(r, actor, targetID, models.ActionUserRoleChange, "role changed to "+req.Role)
	}

	updated, err := h.users.FindByID(r.Context(), targetID)
	if err != nil {
		h.writeUpdateError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "user updated", updated)
}

func (h *AdminHandler) handleActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.activity.ListRecent(r.Context(), recentActivityLimit)
	if err != nil {
		h.logger.Error(r.Context(), "list activity", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load activity")
		return
	}
	respond.JSON(w, http.StatusOK, "activity", entries)
}

func (h *AdminHandler) writeUpdateError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	}
	h.logger.Error(r.Context(), "update user", "error", err)
	respond.Error(w, http.StatusInternalServerError, "failed to update user")
}

func (h *AdminHandler) audit(r *http.Request, actor session.Identity, targetID int64, action models.ActionType, desc string) {
	err := h.activity.Append(r.Context(), models.ActivityEntry{
		UserID:      &actor.UserID,
		ActionType:  action,
		Description: desc + " for user " + strconv.FormatInt(targetID, 10),
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		h.logger.Error(r.Context(), "append admin audit", "error", err)
	}
}
