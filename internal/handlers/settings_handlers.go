package handlers

import (
	"encoding/json"
	"net/http"

	"carelog/internal/models"
	"carelog/internal/repository"
)

// HandleGetAppSettings returns the facility settings, falling back to
// defaults when nothing has been saved.
func HandleGetAppSettings(settings *repository.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, settings.AppSettings())
	}
}

// HandleSaveAppSettings replaces the facility settings
func HandleSaveAppSettings(settings *repository.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s models.AppSettings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := settings.SaveAppSettings(s); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, s)
	}
}

// HandleGetCustomUserNames returns the staff-maintained name list
func HandleGetCustomUserNames(settings *repository.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := settings.CustomUserNames()
		if names == nil {
			names = []string{}
		}
		respondJSON(w, http.StatusOK, names)
	}
}

// HandleSaveCustomUserNames replaces the staff-maintained name list
func HandleSaveCustomUserNames(settings *repository.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var names []string
		if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := settings.SaveCustomUserNames(names); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, names)
	}
}

// HandleGetFormOptions returns the configurable form option sets
func HandleGetFormOptions(settings *repository.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options := settings.FormOptions()
		if options == nil {
			options = map[string]any{}
		}
		respondJSON(w, http.StatusOK, options)
	}
}

// HandleSaveFormOptions replaces the configurable form option sets
func HandleSaveFormOptions(settings *repository.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var options map[string]any
		if err := json.NewDecoder(r.Body).Decode(&options); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := settings.SaveFormOptions(options); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, options)
	}
}

// HandleResetFormOptions drops the stored form options so clients fall back
// to their built-in defaults.
func HandleResetFormOptions(settings *repository.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := settings.ResetFormOptions(); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
