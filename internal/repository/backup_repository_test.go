package repository

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"carelog/internal/models"
)

func TestBackupRepository_ExportImportRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	backup := NewBackupRepository(db, testLogger())
	events := NewCareEventRepository(db, testLogger())
	users := NewUserProfileRepository(db, testLogger())
	settings := NewSettingsRepository(db, testLogger())

	if _, err := events.Save(models.CareEvent{
		EventType: "hydration",
		Timestamp: time.Now().Format(time.RFC3339),
		UserID:    "田中太郎",
		Extra:     map[string]any{"amount": float64(150)},
	}); err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}
	if _, err := users.Save(models.UserProfile{Name: "田中太郎"}); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}
	if err := settings.SaveCustomUserNames([]string{"田中太郎", "佐藤花子"}); err != nil {
		t.Fatalf("Failed to save names: %v", err)
	}

	data, err := backup.Export(time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}

	var doc models.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	if doc.Version != models.BackupVersion {
		t.Errorf("Expected version %s, got %s", models.BackupVersion, doc.Version)
	}
	if len(doc.CareEvents) != 1 || len(doc.UserProfiles) != 1 {
		t.Error("Expected exported collections populated")
	}

	// Wipe and restore.
	if err := backup.Clear(); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	if len(events.GetAll()) != 0 {
		t.Fatal("Expected store empty after clear")
	}

	if err := backup.Import(data); err != nil {
		t.Fatalf("Failed to import: %v", err)
	}

	restored := events.GetAll()
	if len(restored) != 1 {
		t.Fatalf("Expected 1 restored event, got %d", len(restored))
	}
	if restored[0].Extra["amount"] != float64(150) {
		t.Error("Expected type-specific field to survive the round trip")
	}
	if len(users.GetAll()) != 1 {
		t.Error("Expected restored profile")
	}
	if len(settings.CustomUserNames()) != 2 {
		t.Error("Expected restored custom names")
	}
}

func TestBackupRepository_ImportRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)
	backup := NewBackupRepository(db, testLogger())
	events := NewCareEventRepository(db, testLogger())

	if _, err := events.Save(models.CareEvent{
		EventType: "vitals",
		Timestamp: time.Now().Format(time.RFC3339),
		UserID:    "田中太郎",
	}); err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}

	tests := []struct {
		name string
		data string
	}{
		{"missing userProfiles", `{"careEvents":[]}`},
		{"missing careEvents", `{"userProfiles":[]}`},
		{"careEvents not an array", `{"careEvents":{},"userProfiles":[]}`},
		{"userProfiles not an array", `{"careEvents":[],"userProfiles":"x"}`},
		{"careEvents null", `{"careEvents":null,"userProfiles":[]}`},
		{"userProfiles null", `{"careEvents":[],"userProfiles":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := backup.Import([]byte(tt.data))
			if !errors.Is(err, ErrInvalidBackup) {
				t.Fatalf("Expected ErrInvalidBackup, got %v", err)
			}
			if len(events.GetAll()) != 1 {
				t.Error("Expected existing data untouched after rejected import")
			}
		})
	}
}

func TestBackupRepository_ImportSnapshotsBefore(t *testing.T) {
	db := setupTestDB(t)
	backup := NewBackupRepository(db, testLogger())
	events := NewCareEventRepository(db, testLogger())

	if _, err := events.Save(models.CareEvent{
		EventType: "activity",
		Timestamp: time.Now().Format(time.RFC3339),
		UserID:    "田中太郎",
	}); err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}

	if backup.Snapshot() != nil {
		t.Error("Expected no snapshot before any import")
	}

	if err := backup.Import([]byte(`{"careEvents":[],"userProfiles":[]}`)); err != nil {
		t.Fatalf("Failed to import: %v", err)
	}

	snap := backup.Snapshot()
	if snap == nil {
		t.Fatal("Expected a recovery snapshot after import")
	}
	var doc models.BackupDocument
	if err := json.Unmarshal(snap, &doc); err != nil {
		t.Fatalf("Snapshot is not valid JSON: %v", err)
	}
	if len(doc.CareEvents) != 1 {
		t.Error("Expected snapshot to hold the pre-import event")
	}
	if len(events.GetAll()) != 0 {
		t.Error("Expected imported empty collection applied")
	}
}

func TestBackupRepository_ImportPartialEnvelope(t *testing.T) {
	db := setupTestDB(t)
	backup := NewBackupRepository(db, testLogger())
	settings := NewSettingsRepository(db, testLogger())

	if err := settings.SaveCustomUserNames([]string{"田中太郎"}); err != nil {
		t.Fatalf("Failed to save names: %v", err)
	}

	// Envelope without optional sections leaves them untouched.
	if err := backup.Import([]byte(`{"careEvents":[],"userProfiles":[]}`)); err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if len(settings.CustomUserNames()) != 1 {
		t.Error("Expected omitted section to keep existing data")
	}

	// A malformed optional section is skipped, the rest still applies.
	if err := backup.Import([]byte(`{"careEvents":[],"userProfiles":[],"customUserNames":42,"appSettings":{"theme":"dark","language":"ja","autoSave":false,"notifications":true}}`)); err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if len(settings.CustomUserNames()) != 1 {
		t.Error("Expected malformed section skipped")
	}
	if settings.AppSettings().Theme != "dark" {
		t.Error("Expected valid optional section applied")
	}
}

func TestBackupRepository_ClearKeepsRecoverySlot(t *testing.T) {
	db := setupTestDB(t)
	backup := NewBackupRepository(db, testLogger())

	if err := backup.Import([]byte(`{"careEvents":[],"userProfiles":[]}`)); err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if err := backup.Clear(); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	if backup.Snapshot() == nil {
		t.Error("Expected recovery slot to survive a clear")
	}
}

func TestBackupRepository_StorageInfo(t *testing.T) {
	db := setupTestDB(t)
	backup := NewBackupRepository(db, testLogger())
	events := NewCareEventRepository(db, testLogger())

	info, err := backup.StorageInfo()
	if err != nil {
		t.Fatalf("Failed to read storage info: %v", err)
	}
	if info.Slots != 0 {
		t.Errorf("Expected 0 slots in a fresh store, got %d", info.Slots)
	}

	if _, err := events.Save(models.CareEvent{
		EventType: "vitals",
		Timestamp: time.Now().Format(time.RFC3339),
		UserID:    "田中太郎",
	}); err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}

	info, err = backup.StorageInfo()
	if err != nil {
		t.Fatalf("Failed to read storage info: %v", err)
	}
	if info.Slots != 1 || info.UsedBytes <= 0 {
		t.Errorf("Expected usage to reflect the write, got %+v", info)
	}
}
