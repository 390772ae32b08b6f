package repository

import (
	"fmt"
	"time"

	"carelog/internal/database"
	"carelog/internal/models"

	"go.uber.org/zap"
)

// CaseRecordRepository stores per-day clinical log sheets in the caseRecords
// slot.
type CaseRecordRepository struct {
	db     *database.DB
	logger *zap.Logger
}

func NewCaseRecordRepository(db *database.DB, logger *zap.Logger) *CaseRecordRepository {
	return &CaseRecordRepository{db: db, logger: logger}
}

// Save upserts a case record: by id when one is given, otherwise a new record
// with a generated id. Every omitted section is filled with its typed default
// (empty lists, false flags, empty enums) so stored records are always fully
// shaped. The record is replaced wholesale.
func (r *CaseRecordRepository) Save(record models.CaseRecord) (*models.CaseRecord, error) {
	records := r.GetAll()
	now := nowISO()

	if record.ID == "" {
		record.ID = newID()
	}
	if record.Date == "" {
		record.Date = time.Now().Format("2006-01-02")
	}
	if record.CreatedAt == "" {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	fillDefaults(&record)

	replaced := false
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	if err := storeCollection(r.db, caseRecordsKey, records); err != nil {
		return nil, fmt.Errorf("ケース記録の保存に失敗しました: %w", err)
	}
	return &record, nil
}

// GetAll returns every stored case record. Absent or corrupt storage reads as
// an empty collection.
func (r *CaseRecordRepository) GetAll() []models.CaseRecord {
	return loadCollection[models.CaseRecord](r.db, r.logger, caseRecordsKey)
}

// GetByUser returns the case records belonging to userID, order preserving.
func (r *CaseRecordRepository) GetByUser(userID string) []models.CaseRecord {
	var out []models.CaseRecord
	for _, rec := range r.GetAll() {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

// GetByDate returns the user's record for a YYYY-MM-DD date, or nil. At most
// one record per (user, date) is intended; the first match wins.
func (r *CaseRecordRepository) GetByDate(userID, date string) *models.CaseRecord {
	for _, rec := range r.GetByUser(userID) {
		if rec.Date == date {
			return &rec
		}
	}
	return nil
}

// Delete removes a case record by id. Reports false, without touching
// storage, when the id does not exist.
func (r *CaseRecordRepository) Delete(id string) (bool, error) {
	records := r.GetAll()
	kept := records[:0:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := storeCollection(r.db, caseRecordsKey, kept); err != nil {
		return false, fmt.Errorf("ケース記録の削除に失敗しました: %w", err)
	}
	return true, nil
}

func fillDefaults(record *models.CaseRecord) {
	if record.Staff == nil {
		record.Staff = []string{}
	}
	if record.Vitals == nil {
		record.Vitals = []models.VitalEntry{}
	}
	if record.Excretion == nil {
		record.Excretion = []models.ExcretionEntry{}
	}
	if record.Hydration == nil {
		record.Hydration = []models.HydrationEntry{}
	}
	if record.OralIntake == nil {
		record.OralIntake = []models.OralIntakeEntry{}
	}
	if record.EyeDrops == nil {
		record.EyeDrops = []models.EyeDropEntry{}
	}
	if record.Massage.Areas == nil {
		record.Massage.Areas = []string{}
	}
	if record.ContracturePrevention.ProgressingContractures == nil {
		record.ContracturePrevention.ProgressingContractures = []string{}
	}
	if record.StaffSignatures == nil {
		record.StaffSignatures = []string{}
	}
}
