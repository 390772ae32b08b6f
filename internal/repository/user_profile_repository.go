package repository

import (
	"fmt"

	"carelog/internal/database"
	"carelog/internal/models"

	"go.uber.org/zap"
)

// DeletePolicy controls what happens to care events and case records that
// still reference a profile when it is deleted.
type DeletePolicy string

const (
	// DeleteBlock refuses the deletion while dependent records exist.
	DeleteBlock DeletePolicy = "block"
	// DeleteCascade removes dependent care events and case records together
	// with the profile.
	DeleteCascade DeletePolicy = "cascade"
)

// UserProfileRepository stores care recipients in the userProfiles slot.
type UserProfileRepository struct {
	db     *database.DB
	logger *zap.Logger
}

func NewUserProfileRepository(db *database.DB, logger *zap.Logger) *UserProfileRepository {
	return &UserProfileRepository{db: db, logger: logger}
}

// Save upserts a profile keyed by display name: when a profile with the same
// Name exists, that profile is updated in place, keeping its id and createdAt.
// Two distinct people sharing a display name will therefore merge; callers
// that care must warn before submitting.
func (r *UserProfileRepository) Save(profile models.UserProfile) (*models.UserProfile, error) {
	profiles := r.GetAll()
	now := nowISO()

	for i, existing := range profiles {
		if existing.Name != profile.Name {
			continue
		}
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		profile.UpdatedAt = now
		profiles[i] = profile

		if err := storeCollection(r.db, userProfilesKey, profiles); err != nil {
			return nil, fmt.Errorf("利用者プロフィールの保存に失敗しました: %w", err)
		}
		return &profile, nil
	}

	profile.ID = newID()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profiles = append(profiles, profile)

	if err := storeCollection(r.db, userProfilesKey, profiles); err != nil {
		return nil, fmt.Errorf("利用者プロフィールの保存に失敗しました: %w", err)
	}
	return &profile, nil
}

// GetAll returns every stored profile. Absent or corrupt storage reads as an
// empty collection.
func (r *UserProfileRepository) GetAll() []models.UserProfile {
	return loadCollection[models.UserProfile](r.db, r.logger, userProfilesKey)
}

// Get returns the profile with the given id, or nil.
func (r *UserProfileRepository) Get(id string) *models.UserProfile {
	for _, p := range r.GetAll() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// Delete removes a profile by id. Care events and case records hold weak
// back-references to the profile, so the policy decides their fate: block
// (the default boundary check) fails with ErrProfileInUse while references
// remain, cascade removes them first. Reports false when the id is unknown.
func (r *UserProfileRepository) Delete(id string, policy DeletePolicy) (bool, error) {
	profiles := r.GetAll()
	var target *models.UserProfile
	for i := range profiles {
		if profiles[i].ID == id {
			target = &profiles[i]
			break
		}
	}
	if target == nil {
		return false, nil
	}

	events := loadCollection[models.CareEvent](r.db, r.logger, careEventsKey)
	records := loadCollection[models.CaseRecord](r.db, r.logger, caseRecordsKey)
	refersTo := func(owner string) bool {
		// Legacy collections reference users by display name, newer ones by id.
		return owner == target.ID || owner == target.Name
	}

	referenced := false
	for _, e := range events {
		if refersTo(e.UserID) {
			referenced = true
			break
		}
	}
	if !referenced {
		for _, rec := range records {
			if refersTo(rec.UserID) {
				referenced = true
				break
			}
		}
	}

	if referenced {
		switch policy {
		case DeleteCascade:
			keptEvents := events[:0:0]
			for _, e := range events {
				if !refersTo(e.UserID) {
					keptEvents = append(keptEvents, e)
				}
			}
			keptRecords := records[:0:0]
			for _, rec := range records {
				if !refersTo(rec.UserID) {
					keptRecords = append(keptRecords, rec)
				}
			}
			if err := storeCollection(r.db, careEventsKey, keptEvents); err != nil {
				return false, fmt.Errorf("記録データの削除に失敗しました: %w", err)
			}
			if err := storeCollection(r.db, caseRecordsKey, keptRecords); err != nil {
				return false, fmt.Errorf("ケース記録の削除に失敗しました: %w", err)
			}
		default:
			return false, ErrProfileInUse
		}
	}

	kept := profiles[:0:0]
	for _, p := range profiles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := storeCollection(r.db, userProfilesKey, kept); err != nil {
		return false, fmt.Errorf("利用者プロフィールの削除に失敗しました: %w", err)
	}
	return true, nil
}

// RenameUser updates every profile whose display name matches oldName.
func (r *UserProfileRepository) RenameUser(oldName, newName string) error {
	profiles := r.GetAll()
	changed := false
	now := nowISO()
	for i := range profiles {
		if profiles[i].Name == oldName {
			profiles[i].Name = newName
			profiles[i].UpdatedAt = now
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := storeCollection(r.db, userProfilesKey, profiles); err != nil {
		return fmt.Errorf("プロフィールデータの利用者名更新に失敗しました: %w", err)
	}
	return nil
}
