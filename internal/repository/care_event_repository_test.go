package repository

import (
	"path/filepath"
	"testing"
	"time"

	"carelog/internal/database"
	"carelog/internal/models"

	"go.uber.org/zap"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestCareEventRepository_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareEventRepository(db, testLogger())

	saved, err := repo.Save(models.CareEvent{
		EventType: "hydration",
		Timestamp: time.Now().Format(time.RFC3339),
		UserID:    "田中太郎",
		Time:      "09:30",
		TimeOfDay: "morning",
		Notes:     "麦茶を飲んだ",
		Extra: map[string]any{
			"amount":    float64(150),
			"fluidType": "麦茶",
		},
	})
	if err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}
	if saved.ID == "" {
		t.Error("Expected a generated id")
	}

	got := repo.GetByID(saved.ID)
	if got == nil {
		t.Fatal("Expected to find saved event")
	}
	if got.EventType != "hydration" {
		t.Errorf("Expected eventType hydration, got %s", got.EventType)
	}
	if got.Notes != "麦茶を飲んだ" {
		t.Errorf("Expected notes preserved, got %s", got.Notes)
	}
	if got.Extra["fluidType"] != "麦茶" {
		t.Errorf("Expected type-specific field preserved, got %v", got.Extra["fluidType"])
	}
	if got.Extra["amount"] != float64(150) {
		t.Errorf("Expected numeric field preserved, got %v", got.Extra["amount"])
	}
}

func TestCareEventRepository_FiltersPreserveOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareEventRepository(db, testLogger())

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	for i, tc := range []struct {
		user string
		hour int
	}{
		{"田中太郎", 9},
		{"佐藤花子", 10},
		{"田中太郎", 14},
	} {
		_, err := repo.Save(models.CareEvent{
			EventType: "vitals",
			Timestamp: day.Add(time.Duration(tc.hour) * time.Hour).Format(time.RFC3339),
			UserID:    tc.user,
		})
		if err != nil {
			t.Fatalf("Failed to save event %d: %v", i, err)
		}
	}

	byUser := repo.GetByUser("田中太郎")
	if len(byUser) != 2 {
		t.Fatalf("Expected 2 events for user, got %d", len(byUser))
	}
	first, _ := ParseEventTime(byUser[0])
	second, _ := ParseEventTime(byUser[1])
	if !first.Before(second) {
		t.Error("Expected insertion order preserved")
	}

	byDate := repo.GetByDate("2024-06-01", "")
	if len(byDate) != 3 {
		t.Errorf("Expected 3 events on the day, got %d", len(byDate))
	}
	byDateUser := repo.GetByDate("2024-06-01", "佐藤花子")
	if len(byDateUser) != 1 {
		t.Errorf("Expected 1 event for user on the day, got %d", len(byDateUser))
	}
	if len(repo.GetByDate("2024-06-02", "")) != 0 {
		t.Error("Expected no events on a different day")
	}
}

func TestCareEventRepository_GetRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareEventRepository(db, testLogger())

	now := time.Now()
	for _, age := range []time.Duration{2 * time.Hour, 48 * time.Hour, 10 * 24 * time.Hour} {
		_, err := repo.Save(models.CareEvent{
			EventType: "activity",
			Timestamp: now.Add(-age).Format(time.RFC3339),
			UserID:    "田中太郎",
		})
		if err != nil {
			t.Fatalf("Failed to save event: %v", err)
		}
	}

	recent := repo.GetRecent("田中太郎", 7)
	if len(recent) != 2 {
		t.Errorf("Expected 2 events within 7 days, got %d", len(recent))
	}
	if len(repo.GetRecent("田中太郎", 1)) != 1 {
		t.Error("Expected 1 event within 1 day")
	}
}

func TestCareEventRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareEventRepository(db, testLogger())

	saved, err := repo.Save(models.CareEvent{
		EventType: "seizure",
		Timestamp: time.Now().Format(time.RFC3339),
		UserID:    "田中太郎",
	})
	if err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}

	removed, err := repo.Delete("no-such-id")
	if err != nil {
		t.Fatalf("Unexpected error deleting missing id: %v", err)
	}
	if removed {
		t.Error("Expected false for a missing id")
	}
	if len(repo.GetAll()) != 1 {
		t.Error("Expected storage untouched after missing-id delete")
	}

	removed, err = repo.Delete(saved.ID)
	if err != nil {
		t.Fatalf("Failed to delete event: %v", err)
	}
	if !removed {
		t.Error("Expected true for an existing id")
	}
	if len(repo.GetAll()) != 0 {
		t.Error("Expected collection empty after delete")
	}
}

func TestCareEventRepository_AttachPhotos(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareEventRepository(db, testLogger())

	saved, err := repo.Save(models.CareEvent{
		EventType: "skin_oral_care",
		Timestamp: time.Now().Format(time.RFC3339),
		UserID:    "田中太郎",
	})
	if err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}

	photos := []string{"data:image/png;base64,a", "data:image/png;base64,b", "data:image/png;base64,c", "data:image/png;base64,d"}
	updated, err := repo.AttachPhotos(saved.ID, photos)
	if err != nil {
		t.Fatalf("Failed to attach photos: %v", err)
	}
	if len(updated.Photos) != models.MaxEventPhotos {
		t.Errorf("Expected photos capped at %d, got %d", models.MaxEventPhotos, len(updated.Photos))
	}

	got := repo.GetByID(saved.ID)
	if len(got.Photos) != models.MaxEventPhotos {
		t.Errorf("Expected cap persisted, got %d photos", len(got.Photos))
	}

	if _, err := repo.AttachPhotos("no-such-id", photos[:1]); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCareEventRepository_RenameUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareEventRepository(db, testLogger())

	for _, user := range []string{"田中太郎", "佐藤花子", "田中太郎"} {
		_, err := repo.Save(models.CareEvent{
			EventType: "excretion",
			Timestamp: time.Now().Format(time.RFC3339),
			UserID:    user,
		})
		if err != nil {
			t.Fatalf("Failed to save event: %v", err)
		}
	}

	if err := repo.RenameUser("田中太郎", "田中次郎"); err != nil {
		t.Fatalf("Failed to rename: %v", err)
	}

	if len(repo.GetByUser("田中太郎")) != 0 {
		t.Error("Expected no events under the old name")
	}
	if len(repo.GetByUser("田中次郎")) != 2 {
		t.Error("Expected 2 events under the new name")
	}
	if len(repo.GetByUser("佐藤花子")) != 1 {
		t.Error("Expected other users untouched")
	}
}

func TestCareEventRepository_EmptyAndCorruptSlot(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareEventRepository(db, testLogger())

	if got := repo.GetAll(); len(got) != 0 {
		t.Errorf("Expected empty collection from untouched store, got %d", len(got))
	}

	if err := db.Put("careEvents", "{not json"); err != nil {
		t.Fatalf("Failed to seed corrupt slot: %v", err)
	}
	if got := repo.GetAll(); len(got) != 0 {
		t.Errorf("Expected corrupt slot to read as empty, got %d", len(got))
	}
}
