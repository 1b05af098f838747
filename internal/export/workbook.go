package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/instrumentation"
	"paggie/trainer-app/internal/report"
)

// ContentTypeXLSX is the MIME type of workbook exports.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetSummary is the first sheet of a training workbook.
const SheetSummary = "Resumo"

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// TrainingWorkbook builds a workbook with a summary sheet and one sheet per
// workout session.
func TrainingWorkbook(plan domain.TrainingPlan, trainer domain.TrainerProfile) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}

	theme := trainer.WithDefaults()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{excelColor(theme.PrimaryColor, domain.DefaultPrimaryColor)}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F6FD"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("label style: %w", err)
	}
	tableStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{excelColor(theme.SecondaryColor, domain.DefaultSecondaryColor)}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("table style: %w", err)
	}

	doc := report.TrainingPlan(plan, trainer)
	if err := summarySheet(f, doc, theme.Name, headerStyle, labelStyle); err != nil {
		return nil, err
	}

	used := map[string]bool{SheetSummary: true}
	for _, s := range doc.Sections {
		if s.Table == nil {
			continue
		}
		name := uniqueSheetName("Treino "+s.Number, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := workoutSheet(f, name, s, headerStyle, tableStyle); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func summarySheet(f *excelize.File, doc report.Document, trainerName string, headerStyle, labelStyle int) error {
	sheet := SheetSummary
	title := doc.Title
	if trainerName != "" {
		title += " · " + trainerName
	}
	cells := map[string]any{"A1": title}
	row := 3
	for _, info := range doc.Info {
		cells[fmt.Sprintf("A%d", row)] = info.Label + ":"
		cells[fmt.Sprintf("B%d", row)] = info.Value
		row++
	}
	if rec, ok := doc.Section(report.SectionRecommendations); ok {
		row++
		cells[fmt.Sprintf("A%d", row)] = rec.Title + ":"
		cells[fmt.Sprintf("B%d", row)] = rec.Quote
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}

	if err := f.MergeCell(sheet, "A1", "D1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheet, 1, 30); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A3", fmt.Sprintf("A%d", row), labelStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "D", 30)
}

func workoutSheet(f *excelize.File, sheet string, s report.Section, headerStyle, tableStyle int) error {
	lastCol, err := excelize.ColumnNumberToName(len(s.Table.Header))
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("%s · %s", s.Number, s.Title)); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, field := range s.Fields {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{field.Label, field.Value}); err != nil {
			return err
		}
		row++
	}

	row++
	header := make([]any, len(s.Table.Header))
	for i, h := range s.Table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), tableStyle); err != nil {
		return err
	}
	for _, r := range s.Table.Rows {
		row++
		values := make([]any, len(r))
		for i, v := range r {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 35); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", lastCol, 14)
}

// excelColor converts #RRGGBB to the RRGGBB form excelize expects.
func excelColor(c, def string) string {
	if len(c) != 7 || c[0] != '#' {
		c = def
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			c = def
			break
		}
	}
	return strings.ToUpper(c[1:])
}

func uniqueSheetName(name string, used map[string]bool) string {
	name = sheetNameReplacer.Replace(name)
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s (%d)", name, i)
	}
	used[candidate] = true
	return candidate
}

// ExportWorkbook builds the training workbook and hands it to the sink.
func (e *Exporter) ExportWorkbook(ctx context.Context, plan domain.TrainingPlan, trainer domain.TrainerProfile, opts Options) Result {
	f, err := TrainingWorkbook(plan, trainer)
	if err != nil {
		logrus.WithField("file", opts.Filename).Errorf("failed to build workbook: %v", err)
		return e.done(TypeXLSX, instrumentation.OutcomeError, failure(MsgWorkbookFailed))
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		logrus.WithField("file", opts.Filename).Errorf("failed to write workbook: %v", err)
		return e.done(TypeXLSX, instrumentation.OutcomeError, failure(MsgWorkbookFailed))
	}

	res, err := e.store(ctx, opts, ContentTypeXLSX, buf.Bytes())
	if err != nil {
		logrus.WithField("file", opts.Filename).Errorf("failed to store workbook: %v", err)
		return e.done(TypeXLSX, instrumentation.OutcomeError, failure(MsgWorkbookFailed))
	}
	return e.done(TypeXLSX, instrumentation.OutcomeOK, res)
}
