package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"carelog/internal/models"
	"carelog/internal/repository"

	"github.com/go-chi/chi/v5"
)

// CreateCareEventRequest represents the request body for recording a care event
type CreateCareEventRequest struct {
	EventType string         `json:"eventType"`
	Timestamp string         `json:"timestamp,omitempty"`
	UserID    string         `json:"userId"`
	Time      string         `json:"time,omitempty"`
	TimeOfDay string         `json:"timeOfDay,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Photos    []string       `json:"photos,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// AttachPhotosRequest represents the request body for replacing an event's photos
type AttachPhotosRequest struct {
	Photos []string `json:"photos"`
}

var validTimeOfDay = map[string]bool{"morning": true, "afternoon": true, "evening": true, "night": true}

// HandleListCareEvents returns care events, optionally filtered by user,
// date (YYYY-MM-DD) or a trailing day window.
func HandleListCareEvents(events *repository.CareEventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		date := r.URL.Query().Get("date")
		daysStr := r.URL.Query().Get("days")

		var result []models.CareEvent
		switch {
		case date != "":
			if _, err := time.Parse("2006-01-02", date); err != nil {
				respondError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
				return
			}
			result = events.GetByDate(date, userID)
		case daysStr != "":
			days, err := strconv.Atoi(daysStr)
			if err != nil || days < 1 {
				respondError(w, http.StatusBadRequest, "days must be a positive integer")
				return
			}
			result = events.GetRecent(userID, days)
		case userID != "":
			result = events.GetByUser(userID)
		default:
			result = events.GetAll()
		}

		if result == nil {
			result = []models.CareEvent{}
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleCreateCareEvent records a new care event
func HandleCreateCareEvent(events *repository.CareEventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCareEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.EventType == "" {
			respondError(w, http.StatusBadRequest, "eventType is required")
			return
		}
		if req.UserID == "" {
			respondError(w, http.StatusBadRequest, "userId is required")
			return
		}
		if req.TimeOfDay != "" && !validTimeOfDay[req.TimeOfDay] {
			respondError(w, http.StatusBadRequest, "timeOfDay must be morning, afternoon, evening or night")
			return
		}

		timestamp := req.Timestamp
		if timestamp == "" {
			timestamp = time.Now().Format(time.RFC3339)
		} else if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
			respondError(w, http.StatusBadRequest, "invalid timestamp format, use RFC3339")
			return
		}

		clock := req.Time
		if clock == "" {
			ts, _ := time.Parse(time.RFC3339, timestamp)
			clock = ts.Local().Format("15:04")
		}

		photos := req.Photos
		if len(photos) > models.MaxEventPhotos {
			respondError(w, http.StatusBadRequest, "photos are limited to 3 per event")
			return
		}

		saved, err := events.Save(models.CareEvent{
			EventType: req.EventType,
			Timestamp: timestamp,
			UserID:    req.UserID,
			Time:      clock,
			TimeOfDay: req.TimeOfDay,
			Notes:     req.Notes,
			Photos:    photos,
			Extra:     req.Details,
		})
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, saved)
	}
}

// HandleGetCareEvent returns one care event by id
func HandleGetCareEvent(events *repository.CareEventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		event := events.GetByID(id)
		if event == nil {
			respondError(w, http.StatusNotFound, "Care event not found")
			return
		}
		respondJSON(w, http.StatusOK, event)
	}
}

// HandleDeleteCareEvent deletes a care event by id
func HandleDeleteCareEvent(events *repository.CareEventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		removed, err := events.Delete(id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !removed {
			respondError(w, http.StatusNotFound, "Care event not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleAttachPhotos replaces a care event's photo attachments
func HandleAttachPhotos(events *repository.CareEventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req AttachPhotosRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.Photos) > models.MaxEventPhotos {
			respondError(w, http.StatusBadRequest, "photos are limited to 3 per event")
			return
		}

		updated, err := events.AttachPhotos(id, req.Photos)
		if err == repository.ErrNotFound {
			respondError(w, http.StatusNotFound, "Care event not found")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}
