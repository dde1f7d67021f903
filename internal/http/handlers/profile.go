package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reliwe/storefront/internal/http/respond"
	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/middleware"
	"github.com/reliwe/storefront/internal/models"
	"github.com/reliwe/storefront/internal/models/dto"
	"github.com/reliwe/storefront/internal/storage"
)

// ProfileHandler lets an authenticated user read and edit their
// personal information. The profile row is created lazily on first
// edit if registration left it empty.
type ProfileHandler struct {
	profiles storage.ProfileStore
	logger   logging.Logger
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(profiles storage.ProfileStore, logger logging.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// Register attaches profile routes behind the auth guard.
func (h *ProfileHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /profile", middleware.RequireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /profile", middleware.RequireAuth(http.HandlerFunc(h.handleUpdate)))
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r)
	id, _ := sess.Identity()

	profile, err := h.profiles.GetProfile(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Lazily-created profiles may not exist yet.
			respond.JSON(w, http.StatusOK, "profile", models.Profile{UserID: id.UserID})
			return
		}
		h.logger.Error(r.Context(), "load profile", "user_id", id.UserID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	respond.JSON(w, http.StatusOK, "profile", profile)
}

func (h *ProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r)
	id, _ := sess.Identity()

	var req dto.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	profile := models.Profile{
		UserID:    id.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
	}
	if err := h.profiles.UpsertProfile(r.Context(), profile); err != nil {
		h.logger.Error(r.Context(), "save profile", "user_id", id.UserID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated", profile)
}
