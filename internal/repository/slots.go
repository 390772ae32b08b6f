package repository

import (
	"encoding/json"

	"carelog/internal/database"

	"go.uber.org/zap"
)

// Slot keys. Each key holds one JSON-serialized collection; writers replace
// the whole value. backupSlotKey is the recovery slot written before every
// import.
const (
	careEventsKey      = "careEvents"
	userProfilesKey    = "userProfiles"
	appSettingsKey     = "appSettings"
	customUserNamesKey = "customUserNames"
	formOptionsKey     = "form-options"
	caseRecordsKey     = "caseRecords"
	backupSlotKey      = "dataBackup"
)

// loadCollection reads a JSON array slot. Absent or corrupt slots degrade to
// an empty collection; read failures are logged, never surfaced.
func loadCollection[T any](db *database.DB, logger *zap.Logger, key string) []T {
	raw, ok, err := db.Get(key)
	if err != nil {
		logger.Warn("slot read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("corrupt slot treated as empty", zap.String("key", key), zap.Error(err))
		return nil
	}
	return items
}

// storeCollection rewrites a whole collection slot. A nil collection is
// stored as an empty array so readers of the raw slot always see valid JSON.
func storeCollection[T any](db *database.DB, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return db.Put(key, string(data))
}
