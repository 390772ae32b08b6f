package repository

import (
	"encoding/json"
	"fmt"

	"carelog/internal/database"
	"carelog/internal/models"

	"go.uber.org/zap"
)

// SettingsRepository stores app settings, the custom user-name list and the
// form-option catalogue, one slot each.
type SettingsRepository struct {
	db     *database.DB
	logger *zap.Logger
}

func NewSettingsRepository(db *database.DB, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

// AppSettings returns the stored settings, or the defaults when nothing has
// been saved yet.
func (r *SettingsRepository) AppSettings() models.AppSettings {
	raw, ok, err := r.db.Get(appSettingsKey)
	if err != nil {
		r.logger.Warn("slot read failed", zap.String("key", appSettingsKey), zap.Error(err))
		return models.DefaultAppSettings()
	}
	if !ok {
		return models.DefaultAppSettings()
	}
	var settings models.AppSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		r.logger.Warn("corrupt slot treated as defaults", zap.String("key", appSettingsKey), zap.Error(err))
		return models.DefaultAppSettings()
	}
	return settings
}

func (r *SettingsRepository) SaveAppSettings(settings models.AppSettings) error {
	data, err := json.Marshal(settings)
	if err == nil {
		err = r.db.Put(appSettingsKey, string(data))
	}
	if err != nil {
		return fmt.Errorf("設定の保存に失敗しました: %w", err)
	}
	return nil
}

// CustomUserNames returns the quick-entry user name list.
func (r *SettingsRepository) CustomUserNames() []string {
	return loadCollection[string](r.db, r.logger, customUserNamesKey)
}

func (r *SettingsRepository) SaveCustomUserNames(names []string) error {
	if err := storeCollection(r.db, customUserNamesKey, names); err != nil {
		return fmt.Errorf("利用者名の保存に失敗しました: %w", err)
	}
	return nil
}

// RenameCustomUserName replaces oldName in the quick-entry list, preserving
// order.
func (r *SettingsRepository) RenameCustomUserName(oldName, newName string) error {
	names := r.CustomUserNames()
	changed := false
	for i, n := range names {
		if n == oldName {
			names[i] = newName
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.SaveCustomUserNames(names)
}

// FormOptions returns the per-form selectable option sets. The shape is
// form-defined, so it stays an open JSON object.
func (r *SettingsRepository) FormOptions() map[string]any {
	raw, ok, err := r.db.Get(formOptionsKey)
	if err != nil {
		r.logger.Warn("slot read failed", zap.String("key", formOptionsKey), zap.Error(err))
		return map[string]any{}
	}
	if !ok {
		return map[string]any{}
	}
	var options map[string]any
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		r.logger.Warn("corrupt slot treated as empty", zap.String("key", formOptionsKey), zap.Error(err))
		return map[string]any{}
	}
	return options
}

func (r *SettingsRepository) SaveFormOptions(options map[string]any) error {
	data, err := json.Marshal(options)
	if err == nil {
		err = r.db.Put(formOptionsKey, string(data))
	}
	if err != nil {
		return fmt.Errorf("フォーム選択項目の保存に失敗しました: %w", err)
	}
	return nil
}

// ResetFormOptions drops the stored catalogue so forms fall back to their
// built-in options.
func (r *SettingsRepository) ResetFormOptions() error {
	if err := r.db.Delete(formOptionsKey); err != nil {
		return fmt.Errorf("フォーム選択項目のリセットに失敗しました: %w", err)
	}
	return nil
}
