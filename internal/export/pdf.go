package export

import (
	"bytes"
	"fmt"
	"time"

	"carelog/internal/models"
	"carelog/internal/repository"

	"github.com/jung-kurt/gofpdf/v2"
)

// DailyLogPDF renders the same summary and detail content as the CSV into a
// paginated A4 document. fontPath may point at a UTF-8 TTF (required for CJK
// glyphs); when empty the built-in Helvetica is used and non-Latin text
// degrades to the cp1252 approximation.
func DailyLogPDF(log models.DailyLog, events []models.CareEvent, now time.Time, fontPath string) ([]byte, error) {
	if log.User == "" || log.Date == "" {
		return nil, fmt.Errorf("PDF生成に失敗しました: %w", ErrInvalidDailyLog)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	family := "Helvetica"
	text := func(s string) string { return s }
	if fontPath != "" {
		family = "report"
		pdf.AddUTF8Font(family, "", fontPath)
		pdf.AddUTF8Font(family, "B", fontPath)
	} else {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		text = tr
	}

	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, text("日常ケア記録レポート"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 6, text(fmt.Sprintf("利用者: %s", log.User)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, text(fmt.Sprintf("記録日: %s", log.Date)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, text(fmt.Sprintf("生成日時: %s", now.Format("2006/1/2 15:04:05"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Summary table
	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(0, 7, text("記録サマリー"), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "B", 9)
	pdf.SetFillColor(230, 243, 255)
	pdf.CellFormat(80, 7, text("ケア項目"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, text("記録回数"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, text("最終記録時刻"), "1", 1, "C", true, 0, "")

	pdf.SetFont(family, "", 9)
	for _, entry := range log.Events {
		pdf.CellFormat(80, 6, text(entry.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", entry.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, text(entry.LastRecorded), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	// Detail table
	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(0, 7, text("詳細記録"), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "B", 9)
	pdf.CellFormat(20, 7, text("記録時刻"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, text("ケア項目"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(70, 7, text("詳細情報"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, text("備考"), "1", 1, "L", true, 0, "")

	pdf.SetFont(family, "", 8)
	for _, event := range repository.FilterOnDay(events, now) {
		ts, _ := repository.ParseEventTime(event)
		pdf.CellFormat(20, 6, ts.Local().Format("15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, text(EventTypeName(event.EventType)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, text(truncate(FormatEventDetails(event), 60)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, text(truncate(event.Notes, 30)), "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF生成に失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-1]) + "…"
}
