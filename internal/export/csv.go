// Package export turns a daily log and its raw care events into downloadable
// artifacts. Formatters are pure functions of their inputs: no storage I/O,
// no mutation, and no partial output on failure.
package export

import (
	"fmt"
	"strings"
	"time"

	"carelog/internal/models"
	"carelog/internal/repository"
)

// ErrInvalidDailyLog is returned when a formatter receives a daily log with
// no user or date.
var ErrInvalidDailyLog = fmt.Errorf("日次ログデータが不正です")

// bom makes common spreadsheet tools detect UTF-8 and render CJK correctly.
const bom = "\uFEFF"

// commaSubstitute replaces literal commas inside free-text fields. This is
// deliberately lossy when the substitute itself appears in input; the record
// sheets accept that in exchange for rows that split cleanly on commas.
const commaSubstitute = "；"

// DailyLogCSV renders the report: a header block, the per-category summary
// table, and a detail table of the day's events. The day is taken from `now`
// (the report is generated for "today").
func DailyLogCSV(log models.DailyLog, events []models.CareEvent, now time.Time) (string, error) {
	if log.User == "" || log.Date == "" {
		return "", fmt.Errorf("CSV出力に失敗しました: %w", ErrInvalidDailyLog)
	}

	var b strings.Builder
	b.WriteString(bom)
	b.WriteString("日常ケア記録レポート\n\n")
	fmt.Fprintf(&b, "利用者,%s\n", log.User)
	fmt.Fprintf(&b, "記録日,%s\n", log.Date)
	fmt.Fprintf(&b, "生成日時,%s\n\n", now.Format("2006/1/2 15:04:05"))

	b.WriteString("記録サマリー\n")
	b.WriteString("ケア項目,記録回数,最終記録時刻\n")
	for _, entry := range log.Events {
		name := entry.Name
		if name == "" {
			continue
		}
		last := entry.LastRecorded
		if last == "" {
			last = "未記録"
		}
		fmt.Fprintf(&b, "%s,%d,%s\n", name, entry.Count, last)
	}

	b.WriteString("\n詳細記録\n")
	b.WriteString("記録時刻,ケア項目,詳細情報,備考\n")
	for _, event := range repository.FilterOnDay(events, now) {
		ts, _ := repository.ParseEventTime(event)
		timeStr := ts.Local().Format("15:04")
		name := EventTypeName(event.EventType)
		details := strings.ReplaceAll(FormatEventDetails(event), ",", commaSubstitute)
		notes := strings.ReplaceAll(event.Notes, ",", commaSubstitute)
		notes = strings.ReplaceAll(notes, `"`, `""`)
		fmt.Fprintf(&b, "%s,%s,\"%s\",\"%s\"\n", timeStr, name, details, notes)
	}

	return b.String(), nil
}

// eventTypeNames maps event-type tags to their sheet display names.
var eventTypeNames = map[string]string{
	"seizure":              "発作記録",
	"expression":           "表情・反応",
	"vitals":               "バイタルサイン",
	"hydration":            "水分補給",
	"excretion":            "排泄",
	"activity":             "活動",
	"skin_oral_care":       "皮膚・口腔ケア",
	"tube_feeding":         "経管栄養",
	"communication":        "コミュニケーション",
	"medication":           "服薬管理",
	"therapy":              "リハビリテーション",
	"family-communication": "家族連携",
	"swallowing":           "摂食嚥下管理",
	"infection-prevention": "感染予防管理",
}

// EventTypeName returns the display name of an event-type tag. Unknown tags
// pass through unchanged; an empty tag gets the unknown-category label.
func EventTypeName(eventType string) string {
	if eventType == "" {
		return "不明なケア項目"
	}
	if name, ok := eventTypeNames[eventType]; ok {
		return name
	}
	return eventType
}

// FormatEventDetails synthesizes the free-text detail column from an event's
// type-specific fields. Missing fields render as 未記録; event types without a
// detail template render the no-details label.
func FormatEventDetails(event models.CareEvent) string {
	switch event.EventType {
	case "seizure":
		return fmt.Sprintf("種類: %s, 持続時間: %s秒, 重症度: %s",
			extraField(event, "type"), extraField(event, "duration"), extraField(event, "severity"))
	case "vitals":
		return fmt.Sprintf("体温: %s℃, 血圧: %s/%s, 心拍数: %s回/分",
			extraField(event, "temperature"),
			extraField(event, "bloodPressureSystolic", "systolicBP"),
			extraField(event, "bloodPressureDiastolic", "diastolicBP"),
			extraField(event, "heartRate"))
	case "hydration":
		return fmt.Sprintf("水分量: %sml, 種類: %s, 方法: %s",
			extraField(event, "amount"), extraField(event, "fluidType"), extraField(event, "method"))
	case "tube_feeding":
		return fmt.Sprintf("注入量: %sml, 栄養剤: %s, 方法: %s",
			extraField(event, "amount"), extraField(event, "nutritionBrand"), extraField(event, "infusionMethod"))
	case "expression":
		return fmt.Sprintf("表情: %s, 気分: %s",
			extraField(event, "facialExpression"), extraField(event, "emotionalState"))
	case "activity":
		return fmt.Sprintf("活動: %s, 参加度: %s",
			extraField(event, "activityType"), extraField(event, "participationLevel"))
	case "communication":
		return fmt.Sprintf("方法: %s, 反応: %s",
			extraField(event, "communicationMethod"), extraField(event, "responseLevel"))
	default:
		return "詳細情報なし"
	}
}

// extraField renders the first present key of an event's type-specific
// fields, or 未記録.
func extraField(event models.CareEvent, keys ...string) string {
	for _, key := range keys {
		v, ok := event.Extra[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val == "" {
				continue
			}
			return val
		case float64:
			return formatNumber(val)
		case bool:
			if val {
				return "あり"
			}
			return "なし"
		default:
			return fmt.Sprint(val)
		}
	}
	return "未記録"
}

// formatNumber formats a JSON number without a trailing ".0" for whole values.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
