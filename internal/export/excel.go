package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AI2HU/bikeshare/internal/models"
)

const summarySheet = "Summary"

// WriteXLSX writes the report as a workbook with a summary sheet
// and one sheet per category count
func WriteXLSX(w io.Writer, report *models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Statistics for " + report.City,
		Creator: "bikeshare",
		Created: report.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	if err := writeSummary(f, report, title, bold); err != nil {
		return err
	}
	if err := writeCounts(f, "User Types", "User Type", report.UserTypes, bold); err != nil {
		return err
	}
	if err := writeCounts(f, "Genders", "Gender", report.Genders, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report *models.Report, titleStyle, boldStyle int) error {
	row := 1
	set := func(col int, value interface{}, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, value); err != nil {
			return err
		}
		if style != 0 {
			return f.SetCellStyle(summarySheet, cell, cell, style)
		}
		return nil
	}

	if err := set(1, "Statistics for "+report.City, titleStyle); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	row++
	scope := "Unfiltered"
	if len(report.FilterBy) > 0 {
		scope = "Filtered by " + strings.Join(report.FilterBy, ", ")
	}
	if err := set(1, scope, 0); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	row++
	if err := set(1, "Trips", boldStyle); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := set(2, report.Rows, 0); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	row += 2

	for _, section := range Sections(report) {
		if err := set(1, section.Title, boldStyle); err != nil {
			return fmt.Errorf("failed to write section %s: %w", section.Title, err)
		}
		row++
		if section.Message != "" {
			if err := set(2, section.Message, 0); err != nil {
				return fmt.Errorf("failed to write section %s: %w", section.Title, err)
			}
			row += 2
			continue
		}
		for _, r := range section.Rows {
			if err := set(1, r.Label, 0); err != nil {
				return fmt.Errorf("failed to write section %s: %w", section.Title, err)
			}
			if err := set(2, r.Value, 0); err != nil {
				return fmt.Errorf("failed to write section %s: %w", section.Title, err)
			}
			row++
		}
		row++
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 48)
}

func writeCounts(f *excelize.File, sheet, header string, counts models.CategoryCounts, boldStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []interface{}{header, "Trips"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", boldStyle); err != nil {
		return err
	}

	if !counts.Available {
		return f.SetCellValue(sheet, "A2", NoData)
	}

	for i, item := range counts.Sorted() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{item.Value, item.Count}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row: %w", sheet, err)
		}
	}

	return f.SetColWidth(sheet, "A", "A", 24)
}
