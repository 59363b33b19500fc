package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ExportComponentRow is a single cost component line in a worksheet export.
type ExportComponentRow struct {
	Index           string
	Description     string
	Category        string
	PartnerName     string
	AmountSource    float64
	AmountConverted float64
}

// ExportTaxLine is one computed tax amount in the pricing summary.
type ExportTaxLine struct {
	Name   string
	Amount float64
}

// SheetExportData holds everything the Excel and PDF exporters need.
type SheetExportData struct {
	Reference      string
	ProductName    string
	State          string
	Version        int
	EffectiveDate  string
	Notes          string
	SourceCurrency string
	ReportCurrency string
	Symbol         string
	Decimals       int
	RateMode       string

	Rows []ExportComponentRow

	MaterialCost float64
	LaborCost    float64
	OverheadCost float64
	OtherCost    float64
	TotalCost    float64

	MarginLabel   string
	MarginAmount  float64
	PriceSubtotal float64
	TaxLines      []ExportTaxLine
	TotalTax      float64
	PriceTotal    float64
	Quantity      float64
	UnitPrice     float64
}

// BuildSheetExportData assembles the export payload for a worksheet from its
// record, components and related reference data.
func BuildSheetExportData(app *pocketbase.PocketBase, sheet *core.Record) (SheetExportData, error) {
	data := SheetExportData{
		Reference:     sheet.GetString("reference"),
		State:         sheet.GetString("state"),
		Version:       sheet.GetInt("version"),
		Notes:         sheet.GetString("notes"),
		MaterialCost:  sheet.GetFloat("material_cost"),
		LaborCost:     sheet.GetFloat("labor_cost"),
		OverheadCost:  sheet.GetFloat("overhead_cost"),
		OtherCost:     sheet.GetFloat("other_cost"),
		TotalCost:     sheet.GetFloat("total_cost"),
		PriceSubtotal: sheet.GetFloat("price_subtotal"),
		TotalTax:      sheet.GetFloat("total_tax"),
		PriceTotal:    sheet.GetFloat("price_total"),
		Quantity:      sheet.GetFloat("quantity"),
		UnitPrice:     sheet.GetFloat("unit_price"),
		Decimals:      2,
	}

	if ed := sheet.GetDateTime("effective_date"); !ed.IsZero() {
		data.EffectiveDate = ed.Time().Format("2006-01-02")
	}

	if product, err := app.FindRecordById("products", sheet.GetString("product")); err == nil {
		data.ProductName = product.GetString("name")
	}

	if cur, err := app.FindRecordById("currencies", sheet.GetString("currency")); err == nil {
		data.ReportCurrency = cur.GetString("code")
		data.Symbol = cur.GetString("symbol")
		if d := cur.GetInt("decimal_places"); d > 0 {
			data.Decimals = d
		}
	}
	if src, err := app.FindRecordById("currencies", sheet.GetString("source_currency")); err == nil {
		data.SourceCurrency = src.GetString("code")
	}

	if sheet.GetBool("use_system_rate") {
		data.RateMode = "system rate"
	} else {
		rate := sheet.GetFloat("exchange_rate")
		if rate == 0 {
			rate = 1.0
		}
		data.RateMode = fmt.Sprintf("fixed rate %.6g", rate)
	}

	subtotal := ApplyMargin(data.TotalCost, sheet.GetString("margin_type"), sheet.GetFloat("margin_value"))
	data.MarginAmount = subtotal - data.TotalCost

	if sheet.GetString("margin_type") == MarginAbsolute {
		data.MarginLabel = fmt.Sprintf("Margin (fixed %s)", FormatAmount(sheet.GetFloat("margin_value"), data.Symbol, data.Decimals))
	} else {
		data.MarginLabel = fmt.Sprintf("Margin (%.1f%%)", sheet.GetFloat("margin_value"))
	}

	components, err := SheetComponents(app, sheet.Id)
	if err != nil {
		return data, fmt.Errorf("export %s: load components: %w", data.Reference, err)
	}
	for i, c := range components {
		row := ExportComponentRow{
			Index:           fmt.Sprintf("%d", i+1),
			Description:     c.GetString("description"),
			Category:        c.GetString("category"),
			AmountSource:    c.GetFloat("amount_source"),
			AmountConverted: c.GetFloat("amount_converted"),
		}
		if pid := c.GetString("partner"); pid != "" {
			if partner, err := app.FindRecordById("partners", pid); err == nil {
				row.PartnerName = partner.GetString("name")
			}
		}
		data.Rows = append(data.Rows, row)
	}

	rules, err := LoadTaxRules(app, sheet.GetStringSlice("taxes"))
	if err != nil {
		return data, fmt.Errorf("export %s: load taxes: %w", data.Reference, err)
	}
	result := ComputeTaxes(subtotal, data.Quantity, rules, int32(data.Decimals))
	for _, t := range result.Taxes {
		data.TaxLines = append(data.TaxLines, ExportTaxLine{Name: t.Name, Amount: t.Amount})
	}

	return data, nil
}
