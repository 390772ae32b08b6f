package export

import (
	"bytes"
	"fmt"
	"time"

	"carelog/internal/models"
	"carelog/internal/repository"

	"github.com/xuri/excelize/v2"
)

// DailyLogXLSX renders the same summary and detail content as the CSV into a
// styled workbook with one sheet per section.
func DailyLogXLSX(log models.DailyLog, events []models.CareEvent, now time.Time) ([]byte, error) {
	if log.User == "" || log.Date == "" {
		return nil, fmt.Errorf("Excel出力に失敗しました: %w", ErrInvalidDailyLog)
	}

	f := excelize.NewFile()
	// Not deferred: WriteTo needs the file open, Close runs after it.

	summary := "記録サマリー"
	index, err := f.NewSheet(summary)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("Excel出力に失敗しました: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("Excel出力に失敗しました: %w", err)
	}

	setRow := func(sheet string, row int, values ...any) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}
	styleRow := func(sheet string, row, cols int) error {
		first, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(cols, row)
		if err != nil {
			return err
		}
		return f.SetCellStyle(sheet, first, last, headerStyle)
	}

	writeSummary := func() error {
		if err := setRow(summary, 1, "日常ケア記録レポート"); err != nil {
			return err
		}
		if err := setRow(summary, 2, "利用者", log.User); err != nil {
			return err
		}
		if err := setRow(summary, 3, "記録日", log.Date); err != nil {
			return err
		}
		if err := setRow(summary, 4, "生成日時", now.Format("2006/1/2 15:04:05")); err != nil {
			return err
		}
		if err := setRow(summary, 6, "ケア項目", "記録回数", "最終記録時刻"); err != nil {
			return err
		}
		if err := styleRow(summary, 6, 3); err != nil {
			return err
		}
		for i, entry := range log.Events {
			if err := setRow(summary, 7+i, entry.Name, entry.Count, entry.LastRecorded); err != nil {
				return err
			}
		}
		return f.SetColWidth(summary, "A", "C", 22)
	}

	writeDetails := func() error {
		detail := "詳細記録"
		if _, err := f.NewSheet(detail); err != nil {
			return err
		}
		if err := setRow(detail, 1, "記録時刻", "ケア項目", "詳細情報", "備考"); err != nil {
			return err
		}
		if err := styleRow(detail, 1, 4); err != nil {
			return err
		}
		row := 2
		for _, event := range repository.FilterOnDay(events, now) {
			ts, _ := repository.ParseEventTime(event)
			err := setRow(detail, row,
				ts.Local().Format("15:04"),
				EventTypeName(event.EventType),
				FormatEventDetails(event),
				event.Notes,
			)
			if err != nil {
				return err
			}
			row++
		}
		if err := f.SetColWidth(detail, "A", "B", 16); err != nil {
			return err
		}
		return f.SetColWidth(detail, "C", "D", 40)
	}

	if err := writeSummary(); err != nil {
		f.Close()
		return nil, fmt.Errorf("Excel出力に失敗しました: %w", err)
	}
	if err := writeDetails(); err != nil {
		f.Close()
		return nil, fmt.Errorf("Excel出力に失敗しました: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("Excel出力に失敗しました: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("Excel出力に失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
