package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateSheetPDF creates a PDF document for a worksheet using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateSheetPDF(data SheetExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addSheetHeader(m, data)
	addComponentTableHeader(m, data)
	for _, r := range data.Rows {
		addComponentRow(m, data, r)
	}
	addPricingSummary(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addSheetHeader adds the reference line, product and conversion info.
func addSheetHeader(m core.Maroto, data SheetExportData) {
	title := fmt.Sprintf("Cost-Price Worksheet %s", data.Reference)
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	info := fmt.Sprintf("%s  |  state: %s  |  v%d", data.ProductName, data.State, data.Version)
	conversion := fmt.Sprintf("%s → %s (%s)", data.SourceCurrency, data.ReportCurrency, data.RateMode)
	if data.EffectiveDate != "" {
		conversion += "  |  effective " + data.EffectiveDate
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(info, props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(conversion, props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addComponentTableHeader adds the column header row for the component table.
func addComponentTableHeader(m core.Maroto, data SheetExportData) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(&headerCell),
			col.New(5).Add(
				text.New("Description", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Category", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Amount ("+data.SourceCurrency+")", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Amount ("+data.ReportCurrency+")", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addComponentRow adds a single component line to the table.
func addComponentRow(m core.Maroto, data SheetExportData, r ExportComponentRow) {
	baseText := props.Text{
		Size:  8,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	desc := r.Description
	if r.PartnerName != "" {
		desc += " (" + r.PartnerName + ")"
	}

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(r.Index, baseText)),
			col.New(5).Add(text.New(desc, leftText)),
			col.New(2).Add(text.New(r.Category, baseText)),
			col.New(2).Add(text.New(formatSourceAmount(r.AmountSource), rightText)),
			col.New(2).Add(text.New(FormatAmount(r.AmountConverted, data.Symbol, data.Decimals), rightText)),
		),
	)
}

// addPricingSummary adds the cost subtotals, margin, taxes and prices.
func addPricingSummary(m core.Maroto, data SheetExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	addLine := func(label string, value float64) {
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(
					text.New(label, labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(FormatAmount(value, data.Symbol, data.Decimals), valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	addLine("Materials", data.MaterialCost)
	addLine("Labor", data.LaborCost)
	addLine("Overhead", data.OverheadCost)
	addLine("Other", data.OtherCost)
	addLine("Total Cost", data.TotalCost)
	addLine(data.MarginLabel, data.MarginAmount)
	addLine("Price (excl. tax)", data.PriceSubtotal)
	for _, t := range data.TaxLines {
		addLine(t.Name, t.Amount)
	}
	addLine("Price (incl. tax)", data.PriceTotal)
	addLine(fmt.Sprintf("Unit Price (qty %s)", formatSourceAmount(data.Quantity)), data.UnitPrice)
}

// formatSourceAmount returns a plain numeric string: whole numbers without
// decimals, fractional values with 2 decimal places.
func formatSourceAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
