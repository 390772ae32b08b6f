package export

import (
	"errors"
	"strings"
	"testing"
	"time"

	"carelog/internal/models"
	"carelog/internal/report"
)

func testDailyLog(t *testing.T, events []models.CareEvent, now time.Time) models.DailyLog {
	t.Helper()
	return report.BuildDailyLog(events, "田中太郎", now)
}

func TestDailyLogCSV_Layout(t *testing.T) {
	now := time.Date(2024, 6, 1, 16, 0, 0, 0, time.Local)
	events := []models.CareEvent{
		{
			ID:        "e1",
			EventType: "hydration",
			Timestamp: time.Date(2024, 6, 1, 9, 30, 0, 0, time.Local).Format(time.RFC3339),
			UserID:    "田中太郎",
			Notes:     "むせなし",
			Extra:     map[string]any{"amount": float64(150), "fluidType": "麦茶", "method": "経口"},
		},
	}
	log := testDailyLog(t, events, now)

	csv, err := DailyLogCSV(log, events, now)
	if err != nil {
		t.Fatalf("Failed to render CSV: %v", err)
	}

	if !strings.HasPrefix(csv, "\uFEFF") {
		t.Error("Expected a UTF-8 BOM prefix")
	}
	for _, want := range []string{
		"日常ケア記録レポート",
		"利用者,田中太郎",
		"記録日,2024/6/1",
		"生成日時,2024/6/1 16:00:00",
		"ケア項目,記録回数,最終記録時刻",
		"水分補給,1,09:30",
		"発作記録,0,未記録",
		"記録時刻,ケア項目,詳細情報,備考",
		"09:30,水分補給,\"水分量: 150ml",
	} {
		if !strings.Contains(csv, want) {
			t.Errorf("Expected CSV to contain %q", want)
		}
	}
}

func TestDailyLogCSV_CommaSubstitution(t *testing.T) {
	now := time.Date(2024, 6, 1, 16, 0, 0, 0, time.Local)
	events := []models.CareEvent{
		{
			ID:        "e1",
			EventType: "activity",
			Timestamp: time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local).Format(time.RFC3339),
			UserID:    "田中太郎",
			Notes:     `散歩,読み聞かせ,"休憩"`,
			Extra:     map[string]any{"activityType": "屋外,散歩", "participationLevel": "積極的"},
		},
	}
	log := testDailyLog(t, events, now)

	csv, err := DailyLogCSV(log, events, now)
	if err != nil {
		t.Fatalf("Failed to render CSV: %v", err)
	}

	var detailRow string
	for _, line := range strings.Split(csv, "\n") {
		if strings.HasPrefix(line, "10:00,") {
			detailRow = line
			break
		}
	}
	if detailRow == "" {
		t.Fatal("Expected a detail row at 10:00")
	}

	// Free-text commas become the substitute, so a naive comma split yields
	// exactly the four columns.
	if got := len(strings.Split(detailRow, ",")); got != 4 {
		t.Errorf("Expected 4 comma-separated columns, got %d: %s", got, detailRow)
	}
	if !strings.Contains(detailRow, "屋外；散歩") {
		t.Errorf("Expected comma substitution in details: %s", detailRow)
	}
	if !strings.Contains(detailRow, "散歩；読み聞かせ；") {
		t.Errorf("Expected comma substitution in notes: %s", detailRow)
	}
	if !strings.Contains(detailRow, `""休憩""`) {
		t.Errorf("Expected doubled quotes in notes: %s", detailRow)
	}
}

func TestDailyLogCSV_RejectsEmptyLog(t *testing.T) {
	_, err := DailyLogCSV(models.DailyLog{}, nil, time.Now())
	if !errors.Is(err, ErrInvalidDailyLog) {
		t.Errorf("Expected ErrInvalidDailyLog, got %v", err)
	}
}

func TestEventTypeName(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"seizure", "発作記録"},
		{"vitals", "バイタルサイン"},
		{"tube_feeding", "経管栄養"},
		{"custom-type", "custom-type"},
		{"", "不明なケア項目"},
	}
	for _, tt := range tests {
		if got := EventTypeName(tt.tag); got != tt.want {
			t.Errorf("EventTypeName(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestFormatEventDetails(t *testing.T) {
	tests := []struct {
		name  string
		event models.CareEvent
		want  string
	}{
		{
			name: "seizure",
			event: models.CareEvent{EventType: "seizure", Extra: map[string]any{
				"type": "強直間代", "duration": float64(45), "severity": "中等度",
			}},
			want: "種類: 強直間代, 持続時間: 45秒, 重症度: 中等度",
		},
		{
			name: "vitals with legacy field aliases",
			event: models.CareEvent{EventType: "vitals", Extra: map[string]any{
				"temperature": 36.5, "systolicBP": float64(110), "diastolicBP": float64(70), "heartRate": float64(82),
			}},
			want: "体温: 36.5℃, 血圧: 110/70, 心拍数: 82回/分",
		},
		{
			name:  "missing fields read as unrecorded",
			event: models.CareEvent{EventType: "hydration", Extra: map[string]any{"amount": float64(200)}},
			want:  "水分量: 200ml, 種類: 未記録, 方法: 未記録",
		},
		{
			name:  "type without a template",
			event: models.CareEvent{EventType: "medication"},
			want:  "詳細情報なし",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEventDetails(tt.event); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
