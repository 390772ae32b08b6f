package repository

import (
	"encoding/json"
	"fmt"

	"carelog/internal/database"
	"carelog/internal/models"

	"go.uber.org/zap"
)

// BackupRepository exports the whole store as one versioned envelope and
// restores from one, with a pre-import snapshot written to the recovery slot.
type BackupRepository struct {
	db       *database.DB
	logger   *zap.Logger
	events   *CareEventRepository
	profiles *UserProfileRepository
	records  *CaseRecordRepository
	settings *SettingsRepository
}

func NewBackupRepository(db *database.DB, logger *zap.Logger) *BackupRepository {
	return &BackupRepository{
		db:       db,
		logger:   logger,
		events:   NewCareEventRepository(db, logger),
		profiles: NewUserProfileRepository(db, logger),
		records:  NewCaseRecordRepository(db, logger),
		settings: NewSettingsRepository(db, logger),
	}
}

// Export gathers every collection into a versioned envelope. Reads are
// fail-soft, so a partially corrupt store still exports whatever survives.
func (r *BackupRepository) Export(exportDate string) ([]byte, error) {
	doc := models.BackupDocument{
		CareEvents:      orEmpty(r.events.GetAll()),
		UserProfiles:    orEmpty(r.profiles.GetAll()),
		AppSettings:     r.settings.AppSettings(),
		CustomUserNames: orEmpty(r.settings.CustomUserNames()),
		FormOptions:     r.settings.FormOptions(),
		CaseRecords:     orEmpty(r.records.GetAll()),
		ExportDate:      exportDate,
		Version:         models.BackupVersion,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("データのエクスポートに失敗しました: %w", err)
	}
	return data, nil
}

// backupEnvelope captures the raw sections of an imported document so partial
// envelopes can be applied without re-encoding what they carry.
type backupEnvelope struct {
	CareEvents      json.RawMessage `json:"careEvents"`
	UserProfiles    json.RawMessage `json:"userProfiles"`
	AppSettings     json.RawMessage `json:"appSettings"`
	CustomUserNames json.RawMessage `json:"customUserNames"`
	FormOptions     json.RawMessage `json:"formOptions"`
	CaseRecords     json.RawMessage `json:"caseRecords"`
}

// Import restores the store from an exported envelope. careEvents and
// userProfiles must be present and array-typed; validation happens before any
// write, and the pre-import state is snapshotted to the recovery slot before
// the first overwrite. Optional sections that are missing leave the existing
// slots untouched.
func (r *BackupRepository) Import(data []byte) error {
	var env backupEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("データのインポートに失敗しました: %w", err)
	}

	// A JSON null passes Unmarshal but leaves the slice nil; both required
	// sections must be actual arrays.
	var events []models.CareEvent
	if env.CareEvents == nil || json.Unmarshal(env.CareEvents, &events) != nil || events == nil {
		return fmt.Errorf("%w: careEvents", ErrInvalidBackup)
	}
	var profiles []models.UserProfile
	if env.UserProfiles == nil || json.Unmarshal(env.UserProfiles, &profiles) != nil || profiles == nil {
		return fmt.Errorf("%w: userProfiles", ErrInvalidBackup)
	}

	snapshot, err := r.Export(nowISO())
	if err != nil {
		return err
	}
	if err := r.db.Put(backupSlotKey, string(snapshot)); err != nil {
		return fmt.Errorf("データのインポートに失敗しました: %w", err)
	}

	if err := r.db.Put(careEventsKey, string(env.CareEvents)); err != nil {
		return fmt.Errorf("データのインポートに失敗しました: %w", err)
	}
	if err := r.db.Put(userProfilesKey, string(env.UserProfiles)); err != nil {
		return fmt.Errorf("データのインポートに失敗しました: %w", err)
	}

	optional := []struct {
		key string
		raw json.RawMessage
		dst any
	}{
		{appSettingsKey, env.AppSettings, &models.AppSettings{}},
		{customUserNamesKey, env.CustomUserNames, &[]string{}},
		{formOptionsKey, env.FormOptions, &map[string]any{}},
		{caseRecordsKey, env.CaseRecords, &[]models.CaseRecord{}},
	}
	for _, section := range optional {
		if section.raw == nil {
			continue
		}
		if err := json.Unmarshal(section.raw, section.dst); err != nil {
			r.logger.Warn("malformed backup section skipped", zap.String("key", section.key), zap.Error(err))
			continue
		}
		if err := r.db.Put(section.key, string(section.raw)); err != nil {
			return fmt.Errorf("データのインポートに失敗しました: %w", err)
		}
	}

	return nil
}

// Snapshot returns the recovery slot written by the last Import, or nil when
// no import has run.
func (r *BackupRepository) Snapshot() []byte {
	raw, ok, err := r.db.Get(backupSlotKey)
	if err != nil || !ok {
		return nil
	}
	return []byte(raw)
}

// Clear removes every collection slot. The recovery slot survives so a
// mistaken clear after an import can still be undone by hand.
func (r *BackupRepository) Clear() error {
	keys := []string{careEventsKey, userProfilesKey, appSettingsKey, customUserNamesKey, formOptionsKey, caseRecordsKey}
	for _, key := range keys {
		if err := r.db.Delete(key); err != nil {
			return fmt.Errorf("データの削除に失敗しました: %w", err)
		}
	}
	return nil
}

// StorageInfo reports how much space the store occupies.
func (r *BackupRepository) StorageInfo() (models.StorageInfo, error) {
	used, slots, err := r.db.Usage()
	if err != nil {
		return models.StorageInfo{}, err
	}
	return models.StorageInfo{UsedBytes: used, Slots: slots}, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
