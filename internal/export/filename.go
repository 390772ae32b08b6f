package export

import (
	"fmt"
	"strings"

	"carelog/internal/models"
)

// SanitizeFileName keeps ASCII letters and digits plus hiragana, katakana and
// common CJK ideographs; every other rune becomes an underscore.
func SanitizeFileName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0x3040 && r <= 0x309F: // hiragana
			b.WriteRune(r)
		case r >= 0x30A0 && r <= 0x30FF: // katakana
			b.WriteRune(r)
		case r >= 0x4E00 && r <= 0x9FAF: // CJK unified ideographs
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// FileName builds the download name for a daily-log artifact,
// daily-log-<user>-<date>.<ext>, with the user sanitized and the date's
// slashes turned into dashes.
func FileName(log models.DailyLog, ext string) string {
	user := log.User
	if user == "" {
		user = "user"
	}
	date := log.Date
	if date == "" {
		date = "date"
	}
	date = strings.ReplaceAll(date, "/", "-")
	return fmt.Sprintf("daily-log-%s-%s.%s", SanitizeFileName(user), date, ext)
}
