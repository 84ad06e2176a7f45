package export

import (
	"fmt"
	"path"

	"github.com/plateworks/menumetrics/internal/models"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Menu Analysis"

var reportHeader = []string{
	"Item", "Menu Class", "BCG Quadrant", "Popularity Index",
	"Profitability Index", "Qty Sold", "Orders", "Revenue",
	"Contribution", "Margin %",
}

// XLSXReport renders an owner-facing workbook: one row per item plus a
// summary block with quadrant counts and totals.
type XLSXReport struct {
	factory CloudWriterFactory
	folder  string
}

func NewXLSXReport(factory CloudWriterFactory, folder string) *XLSXReport {
	return &XLSXReport{factory: factory, folder: folder}
}

func (e *XLSXReport) Export(snapshots []models.AnalyticsSnapshot) error {
	for dir, rows := range groupByPartition(e.folder, snapshots) {
		if err := e.writeWorkbook(dir, rows); err != nil {
			return err
		}
	}
	return nil
}

func (e *XLSXReport) writeWorkbook(dir string, rows []models.AnalyticsSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, h := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(reportSheet, cell, h)
	}
	if err := f.SetCellStyle(reportSheet, "A1", "J1", headerStyle); err != nil {
		return err
	}
	f.SetColWidth(reportSheet, "A", "A", 28)

	for i, s := range rows {
		row := i + 2
		f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row), s.ItemName)
		f.SetCellValue(reportSheet, fmt.Sprintf("B%d", row), s.MenuEngineeringClass)
		f.SetCellValue(reportSheet, fmt.Sprintf("C%d", row), s.BCGQuadrant)
		f.SetCellValue(reportSheet, fmt.Sprintf("D%d", row), parseAmount(s.PopularityIndex))
		f.SetCellValue(reportSheet, fmt.Sprintf("E%d", row), parseAmount(s.ProfitabilityIndex))
		f.SetCellValue(reportSheet, fmt.Sprintf("F%d", row), s.QuantitySold)
		f.SetCellValue(reportSheet, fmt.Sprintf("G%d", row), s.OrderCount)
		f.SetCellValue(reportSheet, fmt.Sprintf("H%d", row), parseAmount(s.TotalRevenue))
		f.SetCellValue(reportSheet, fmt.Sprintf("I%d", row), parseAmount(s.Contribution))
		f.SetCellValue(reportSheet, fmt.Sprintf("J%d", row), parseAmount(s.GrossMarginPercent))
	}

	writeSummaryBlock(f, rows)

	w, err := e.factory.NewWriter(path.Join(dir, "menu_report.xlsx"))
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writeSummaryBlock(f *excelize.File, rows []models.AnalyticsSnapshot) {
	counts := make(map[string]int)
	var revenue float64
	for _, s := range rows {
		counts[s.BCGQuadrant]++
		revenue += parseAmount(s.TotalRevenue)
	}

	base := len(rows) + 3
	f.SetCellValue(reportSheet, fmt.Sprintf("A%d", base), "Summary")
	entries := []struct {
		label string
		value interface{}
	}{
		{"Items analysed", len(rows)},
		{"Total revenue", revenue},
		{"Stars", counts[models.QuadrantStar.BCGLabel()]},
		{"Cash cows", counts[models.QuadrantVolume.BCGLabel()]},
		{"Question marks", counts[models.QuadrantMargin.BCGLabel()]},
		{"Dogs", counts[models.QuadrantLow.BCGLabel()]},
	}
	for i, entry := range entries {
		row := base + 1 + i
		f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row), entry.label)
		f.SetCellValue(reportSheet, fmt.Sprintf("B%d", row), entry.value)
	}
}
