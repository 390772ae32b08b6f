package handlers

import (
	"fmt"
	"net/http"
	"time"

	"carelog/internal/export"
	"carelog/internal/models"
	"carelog/internal/report"
	"carelog/internal/repository"

	"go.uber.org/zap"
)

// HandleGetDailyLog aggregates a user's care events for one calendar day
// into the fixed category summary.
func HandleGetDailyLog(events *repository.CareEventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.URL.Query().Get("user")
		if user == "" {
			respondError(w, http.StatusBadRequest, "user is required")
			return
		}

		day, ok := parseDayParam(w, r)
		if !ok {
			return
		}

		log := report.BuildDailyLog(events.GetAll(), user, day)
		respondJSON(w, http.StatusOK, log)
	}
}

// HandleExportCSV renders the daily log as a BOM-prefixed CSV download
func HandleExportCSV(events *repository.CareEventRepository, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log, dayEvents, ok := exportDailyLog(w, r, events)
		if !ok {
			return
		}

		body, err := export.DailyLogCSV(log, dayEvents, time.Now())
		if err != nil {
			logger.Error("csv export failed", zap.String("user", log.User), zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		sendAttachment(w, export.FileName(log, "csv"), "text/csv; charset=utf-8", []byte(body))
	}
}

// HandleExportPDF renders the daily log as a PDF download
func HandleExportPDF(events *repository.CareEventRepository, fontPath string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log, dayEvents, ok := exportDailyLog(w, r, events)
		if !ok {
			return
		}

		body, err := export.DailyLogPDF(log, dayEvents, time.Now(), fontPath)
		if err != nil {
			logger.Error("pdf export failed", zap.String("user", log.User), zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		sendAttachment(w, export.FileName(log, "pdf"), "application/pdf", body)
	}
}

// HandleExportXLSX renders the daily log as an Excel workbook download
func HandleExportXLSX(events *repository.CareEventRepository, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log, dayEvents, ok := exportDailyLog(w, r, events)
		if !ok {
			return
		}

		body, err := export.DailyLogXLSX(log, dayEvents, time.Now())
		if err != nil {
			logger.Error("xlsx export failed", zap.String("user", log.User), zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		sendAttachment(w, export.FileName(log, "xlsx"),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
	}
}

// exportDailyLog resolves the user/date query parameters shared by the export
// endpoints and returns the built log plus that day's events for the user.
func exportDailyLog(w http.ResponseWriter, r *http.Request, events *repository.CareEventRepository) (models.DailyLog, []models.CareEvent, bool) {
	user := r.URL.Query().Get("user")
	if user == "" {
		respondError(w, http.StatusBadRequest, "user is required")
		return models.DailyLog{}, nil, false
	}

	day, ok := parseDayParam(w, r)
	if !ok {
		return models.DailyLog{}, nil, false
	}

	all := events.GetAll()
	log := report.BuildDailyLog(all, user, day)
	dayEvents := repository.FilterOnDay(repository.FilterByUser(all, user), day)
	return log, dayEvents, true
}

// parseDayParam reads the optional date query parameter (YYYY-MM-DD, local
// zone), defaulting to today.
func parseDayParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return time.Now(), true
	}
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

// sendAttachment writes the rendered document only after generation
// succeeded, so a failed export never produces a truncated download.
func sendAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
