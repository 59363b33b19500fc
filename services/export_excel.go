package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateSheetExcel creates an Excel file with the worksheet's cost
// breakdown and pricing summary and returns the file contents.
func GenerateSheetExcel(data SheetExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars by the format.
	sheetName := data.Reference
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Worksheet"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 44, 14, 20, 20}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	title := fmt.Sprintf("Cost-Price Worksheet %s", data.Reference)
	if data.ProductName != "" {
		title += " - " + data.ProductName
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge subtitle: %w", err)
	}
	subtitle := fmt.Sprintf("State: %s  |  v%d  |  %s → %s (%s)",
		data.State, data.Version, data.SourceCurrency, data.ReportCurrency, data.RateMode)
	if data.EffectiveDate != "" {
		subtitle += "  |  Effective: " + data.EffectiveDate
	}
	f.SetCellValue(sheetName, "A2", subtitle)
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// ── Component table ─────────────────────────────────────────────────

	headers := []string{"#", "Description", "Category",
		"Amount (" + data.SourceCurrency + ")", "Amount (" + data.ReportCurrency + ")"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s4", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	row := 5
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Description))
		f.SetCellValue(sheetName, "C"+rowStr, r.Category)
		f.SetCellValue(sheetName, "D"+rowStr, r.AmountSource)
		f.SetCellValue(sheetName, "E"+rowStr, FormatAmount(r.AmountConverted, data.Symbol, data.Decimals))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, rowStyle)
		row++
	}

	// ── Summary ─────────────────────────────────────────────────────────

	row++
	writeSummary := func(label string, value float64) {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+rowStr, label)
		f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "E"+rowStr, FormatAmount(value, data.Symbol, data.Decimals))
		f.SetCellStyle(sheetName, "E"+rowStr, "E"+rowStr, summaryValueStyle)
		row++
	}

	writeSummary("Materials:", data.MaterialCost)
	writeSummary("Labor:", data.LaborCost)
	writeSummary("Overhead:", data.OverheadCost)
	writeSummary("Other:", data.OtherCost)
	writeSummary("Total Cost:", data.TotalCost)
	row++
	writeSummary(data.MarginLabel+":", data.MarginAmount)
	writeSummary("Price (excl. tax):", data.PriceSubtotal)
	for _, t := range data.TaxLines {
		writeSummary(t.Name+":", t.Amount)
	}
	writeSummary("Price (incl. tax):", data.PriceTotal)
	writeSummary(fmt.Sprintf("Unit Price (qty %.4g):", data.Quantity), data.UnitPrice)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
