package export

import (
	"testing"

	"carelog/internal/models"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"田中太郎", "田中太郎"},
		{"たなか", "たなか"},
		{"タナカ", "タナカ"},
		{"Taro123", "Taro123"},
		{"田中 太郎", "田中_太郎"},
		{"a/b\\c:d", "a_b_c_d"},
		{"<script>", "_script_"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	log := models.DailyLog{User: "田中 太郎", Date: "2024/6/1"}
	if got := FileName(log, "csv"); got != "daily-log-田中_太郎-2024-6-1.csv" {
		t.Errorf("Unexpected file name: %s", got)
	}

	empty := FileName(models.DailyLog{}, "pdf")
	if empty != "daily-log-user-date.pdf" {
		t.Errorf("Expected placeholder name for empty log, got %s", empty)
	}
}
