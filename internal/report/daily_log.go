// Package report derives the per-user daily summary from raw care events.
package report

import (
	"time"

	"carelog/internal/models"
	"carelog/internal/repository"
)

// Category is one entry of the fixed, ordered list of care categories that
// appears on every daily sheet.
type Category struct {
	ID   string
	Name string
}

// Categories is the sheet order. Every daily log carries all of them, zero
// counts included.
var Categories = []Category{
	{"seizure", "発作記録"},
	{"expression", "表情・反応"},
	{"vitals", "バイタル"},
	{"hydration", "水分補給"},
	{"excretion", "排泄"},
	{"activity", "活動"},
	{"skin_oral_care", "皮膚・口腔ケア"},
	{"tube_feeding", "経管栄養"},
	{"communication", "コミュニケーション"},
	{"medication", "服薬管理"},
	{"therapy", "リハビリテーション"},
	{"family-communication", "家族連携"},
	{"swallowing", "摂食嚥下管理"},
	{"infection-prevention", "感染予防管理"},
}

// Unrecorded is the last-recorded sentinel for categories with no events.
const Unrecorded = "未記録"

// unsetLabel stands in for an empty user name on derived sheets.
const unsetLabel = "未設定"

// BuildDailyLog projects the user's events on the given local calendar day
// into the per-category count / last-recorded summary. It is a pure function
// of its inputs and never fails: an empty or malformed event list yields the
// all-zero skeleton. Calling it twice without intervening writes yields
// identical output.
func BuildDailyLog(events []models.CareEvent, user string, day time.Time) models.DailyLog {
	todays := repository.FilterOnDay(repository.FilterByUser(events, user), day)

	entries := make([]models.DailyLogEntry, 0, len(Categories))
	for _, cat := range Categories {
		count := 0
		last := Unrecorded
		var lastTS time.Time
		for _, e := range todays {
			if e.EventType != cat.ID {
				continue
			}
			count++
			// FilterOnDay only passes events with parseable timestamps.
			ts, _ := repository.ParseEventTime(e)
			if !ts.Before(lastTS) {
				lastTS = ts
				last = ts.Local().Format("15:04")
			}
		}
		entries = append(entries, models.DailyLogEntry{
			Type:         cat.ID,
			Name:         cat.Name,
			Count:        count,
			LastRecorded: last,
		})
	}

	if user == "" {
		user = unsetLabel
	}
	return models.DailyLog{
		User:   user,
		Date:   day.Local().Format("2006/1/2"),
		Events: entries,
	}
}
