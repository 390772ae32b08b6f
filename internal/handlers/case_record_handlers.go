package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"carelog/internal/models"
	"carelog/internal/repository"

	"github.com/go-chi/chi/v5"
)

// HandleListCaseRecords returns case records, optionally filtered by user
// and date. When both user and date are given the single matching record is
// still returned inside an array for a uniform response shape.
func HandleListCaseRecords(records *repository.CaseRecordRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		date := r.URL.Query().Get("date")

		if date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				respondError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
				return
			}
		}

		var result []models.CaseRecord
		switch {
		case userID != "" && date != "":
			if rec := records.GetByDate(userID, date); rec != nil {
				result = []models.CaseRecord{*rec}
			}
		case userID != "":
			result = records.GetByUser(userID)
		case date != "":
			for _, rec := range records.GetAll() {
				if rec.Date == date {
					result = append(result, rec)
				}
			}
		default:
			result = records.GetAll()
		}

		if result == nil {
			result = []models.CaseRecord{}
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleSaveCaseRecord creates or updates a structured daily case record
func HandleSaveCaseRecord(records *repository.CaseRecordRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record models.CaseRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if record.UserID == "" {
			respondError(w, http.StatusBadRequest, "userId is required")
			return
		}
		if record.Date != "" {
			if _, err := time.Parse("2006-01-02", record.Date); err != nil {
				respondError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
				return
			}
		}

		saved, err := records.Save(record)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, saved)
	}
}

// HandleDeleteCaseRecord deletes a case record by id
func HandleDeleteCaseRecord(records *repository.CaseRecordRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		removed, err := records.Delete(id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !removed {
			respondError(w, http.StatusNotFound, "Case record not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
