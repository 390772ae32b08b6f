package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"carelog/internal/repository"

	"go.uber.org/zap"
)

// maxBackupBytes bounds backup uploads. Photos are stored inline as data
// URLs so envelopes can grow large.
const maxBackupBytes = 64 << 20

// HandleExportBackup downloads a full backup envelope of every collection
func HandleExportBackup(backup *repository.BackupRepository, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		data, err := backup.Export(now.UTC().Format(time.RFC3339))
		if err != nil {
			logger.Error("backup export failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		filename := fmt.Sprintf("care-backup-%s.json", now.Format("2006-01-02"))
		sendAttachment(w, filename, "application/json; charset=utf-8", data)
	}
}

// HandleImportBackup replaces stored collections with the uploaded envelope.
// The current data is snapshotted to the recovery slot before anything is
// overwritten.
func HandleImportBackup(backup *repository.BackupRepository, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBackupBytes+1))
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		if len(body) > maxBackupBytes {
			respondError(w, http.StatusRequestEntityTooLarge, "backup exceeds the 64MB limit")
			return
		}

		if err := backup.Import(body); err != nil {
			if errors.Is(err, repository.ErrInvalidBackup) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("backup import failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// HandleClearData wipes every collection slot. The recovery snapshot slot is
// left alone so a restore stays possible after an accidental wipe.
func HandleClearData(backup *repository.BackupRepository, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := backup.Clear(); err != nil {
			logger.Error("clear failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// HandleStorageInfo reports storage usage of the slot store
func HandleStorageInfo(backup *repository.BackupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := backup.StorageInfo()
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, info)
	}
}
