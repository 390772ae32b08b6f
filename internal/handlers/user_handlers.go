package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"carelog/internal/models"
	"carelog/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RenameUserRequest represents the request body for renaming a care recipient
// across every collection that references them.
type RenameUserRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// HandleListUserProfiles returns all stored profiles
func HandleListUserProfiles(users *repository.UserProfileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles := users.GetAll()
		if profiles == nil {
			profiles = []models.UserProfile{}
		}
		respondJSON(w, http.StatusOK, profiles)
	}
}

// HandleSaveUserProfile creates a profile, or updates the existing profile
// carrying the same display name.
func HandleSaveUserProfile(users *repository.UserProfileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile models.UserProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if profile.Name == "" {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}

		saved, err := users.Save(profile)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, saved)
	}
}

// HandleGetUserProfile returns one profile by id
func HandleGetUserProfile(users *repository.UserProfileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		profile := users.Get(id)
		if profile == nil {
			respondError(w, http.StatusNotFound, "User profile not found")
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

// HandleDeleteUserProfile deletes a profile. The policy query parameter
// decides what happens to dependent records: "block" (default) refuses while
// care events or case records still reference the profile, "cascade" removes
// them too.
func HandleDeleteUserProfile(users *repository.UserProfileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		policy := repository.DeleteBlock
		switch p := r.URL.Query().Get("policy"); p {
		case "", "block":
		case "cascade":
			policy = repository.DeleteCascade
		default:
			respondError(w, http.StatusBadRequest, "policy must be block or cascade")
			return
		}

		removed, err := users.Delete(id, policy)
		if errors.Is(err, repository.ErrProfileInUse) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !removed {
			respondError(w, http.StatusNotFound, "User profile not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleRenameUser rewrites a display name across profiles, care events and
// the custom name list in one operation. Each collection is rewritten
// independently, so a storage failure mid-way can leave some collections
// renamed; the response reports the first failure.
func HandleRenameUser(users *repository.UserProfileRepository, events *repository.CareEventRepository, settings *repository.SettingsRepository, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RenameUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.OldName == "" || req.NewName == "" {
			respondError(w, http.StatusBadRequest, "oldName and newName are required")
			return
		}
		if req.OldName == req.NewName {
			respondJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}

		if err := events.RenameUser(req.OldName, req.NewName); err != nil {
			logger.Error("rename failed on care events", zap.String("old", req.OldName), zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := users.RenameUser(req.OldName, req.NewName); err != nil {
			logger.Error("rename failed on profiles", zap.String("old", req.OldName), zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := settings.RenameCustomUserName(req.OldName, req.NewName); err != nil {
			logger.Error("rename failed on custom names", zap.String("old", req.OldName), zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
