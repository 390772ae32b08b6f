package repository

import (
	"fmt"
	"time"

	"carelog/internal/database"
	"carelog/internal/models"

	"go.uber.org/zap"
)

// CareEventRepository stores care events in the careEvents slot. Events are
// append-only apart from photo attachment and manual deletion; every write
// rewrites the whole collection.
type CareEventRepository struct {
	db     *database.DB
	logger *zap.Logger
}

func NewCareEventRepository(db *database.DB, logger *zap.Logger) *CareEventRepository {
	return &CareEventRepository{db: db, logger: logger}
}

// Save assigns a fresh id, appends the event and persists the collection.
func (r *CareEventRepository) Save(event models.CareEvent) (*models.CareEvent, error) {
	events := r.GetAll()
	event.ID = newID()
	events = append(events, event)

	if err := storeCollection(r.db, careEventsKey, events); err != nil {
		return nil, fmt.Errorf("ケア記録の保存に失敗しました: %w", err)
	}
	return &event, nil
}

// GetAll returns every stored care event. Absent or corrupt storage reads as
// an empty collection.
func (r *CareEventRepository) GetAll() []models.CareEvent {
	return loadCollection[models.CareEvent](r.db, r.logger, careEventsKey)
}

// GetByUser returns the events belonging to userID, order preserving.
func (r *CareEventRepository) GetByUser(userID string) []models.CareEvent {
	return FilterByUser(r.GetAll(), userID)
}

// GetByDate returns the events recorded on the given YYYY-MM-DD local date,
// optionally restricted to one user (empty userID means all users).
func (r *CareEventRepository) GetByDate(date, userID string) []models.CareEvent {
	events := r.GetAll()
	if userID != "" {
		events = FilterByUser(events, userID)
	}
	return FilterByDate(events, date)
}

// GetRecent returns the events of the last `days` days, optionally restricted
// to one user.
func (r *CareEventRepository) GetRecent(userID string, days int) []models.CareEvent {
	events := r.GetAll()
	if userID != "" {
		events = FilterByUser(events, userID)
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return FilterSince(events, cutoff)
}

// GetByID returns the event with the given id, or nil.
func (r *CareEventRepository) GetByID(id string) *models.CareEvent {
	for _, e := range r.GetAll() {
		if e.ID == id {
			return &e
		}
	}
	return nil
}

// Delete removes an event by id. It reports false, without touching storage,
// when the id does not exist.
func (r *CareEventRepository) Delete(id string) (bool, error) {
	events := r.GetAll()
	kept := events[:0:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return false, nil
	}

	if err := storeCollection(r.db, careEventsKey, kept); err != nil {
		return false, fmt.Errorf("ケア記録の削除に失敗しました: %w", err)
	}
	return true, nil
}

// AttachPhotos replaces an event's photo attachments, the only mutation an
// event supports after creation. The list is capped at models.MaxEventPhotos.
func (r *CareEventRepository) AttachPhotos(id string, photos []string) (*models.CareEvent, error) {
	if len(photos) > models.MaxEventPhotos {
		photos = photos[:models.MaxEventPhotos]
	}

	events := r.GetAll()
	for i := range events {
		if events[i].ID != id {
			continue
		}
		events[i].Photos = photos
		if err := storeCollection(r.db, careEventsKey, events); err != nil {
			return nil, fmt.Errorf("ケア記録の保存に失敗しました: %w", err)
		}
		updated := events[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

// RenameUser rewrites the owning-user reference on every event recorded under
// oldName. Events reference users by display name in legacy data, so renames
// have to touch the event collection as well.
func (r *CareEventRepository) RenameUser(oldName, newName string) error {
	events := r.GetAll()
	changed := false
	for i := range events {
		if events[i].UserID == oldName {
			events[i].UserID = newName
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := storeCollection(r.db, careEventsKey, events); err != nil {
		return fmt.Errorf("記録データの利用者名更新に失敗しました: %w", err)
	}
	return nil
}
