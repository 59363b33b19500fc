package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// PolicyFromSheet extracts the conversion policy a worksheet record carries.
func PolicyFromSheet(sheet *core.Record) ConversionPolicy {
	return ConversionPolicy{
		UseSystemRate:     sheet.GetBool("use_system_rate"),
		ExchangeRate:      sheet.GetFloat("exchange_rate"),
		SourceCurrencyID:  sheet.GetString("source_currency"),
		ReportingCurrency: sheet.GetString("currency"),
		CompanyID:         sheet.GetString("company"),
		EffectiveDate:     sheet.GetDateTime("effective_date").Time(),
	}
}

// SheetComponents returns the worksheet's components in display order
// (sequence, then creation order).
func SheetComponents(app *pocketbase.PocketBase, sheetID string) ([]*core.Record, error) {
	return app.FindRecordsByFilter(
		"cost_components",
		"sheet = {:sheetId}",
		"sequence,created",
		0,
		0,
		map[string]any{"sheetId": sheetID},
	)
}

// RecomputeAllSheets re-runs the recompute chain over every worksheet. It is
// called once at startup so sheets written outside the handler chain (seed
// data, migrated rows) carry up-to-date derived fields.
func RecomputeAllSheets(app *pocketbase.PocketBase, now time.Time) error {
	sheets, err := app.FindRecordsByFilter("cost_sheets", "id != ''", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("load sheets: %w", err)
	}
	for _, sheet := range sheets {
		if err := RecomputeSheet(app, sheet, now); err != nil {
			return err
		}
	}
	return nil
}

// CurrencyDecimals returns the decimal places configured for a currency,
// defaulting to 2 when the currency is unknown or unconfigured.
func CurrencyDecimals(app *pocketbase.PocketBase, currencyID string) int32 {
	if currencyID == "" {
		return 2
	}
	cur, err := app.FindRecordById("currencies", currencyID)
	if err != nil {
		return 2
	}
	if d := cur.GetInt("decimal_places"); d > 0 {
		return int32(d)
	}
	return 2
}

// RecomputeSheet is the explicit recompute-on-write chain. Handlers call it
// after every mutation of a component or of any pricing input on the sheet:
//  1. each component's amount_converted is re-derived from the sheet's
//     conversion policy and persisted when it changed;
//  2. converted amounts are folded into category subtotals and total_cost;
//  3. margin and taxes derive price_subtotal, total_tax, price_total and
//     unit_price.
//
// Conversion and tax failures propagate unmodified to the caller; the sheet
// record itself is saved once at the end.
func RecomputeSheet(app *pocketbase.PocketBase, sheet *core.Record, now time.Time) error {
	components, err := SheetComponents(app, sheet.Id)
	if err != nil {
		return fmt.Errorf("load components for %s: %w", sheet.GetString("reference"), err)
	}

	policy := PolicyFromSheet(sheet)
	provider := NewRateTable(app)
	decimals := CurrencyDecimals(app, sheet.GetString("currency"))

	amounts := make([]ComponentAmount, 0, len(components))
	for _, c := range components {
		converted, err := ConvertAmount(policy, provider, c.GetFloat("amount_source"), now)
		if err != nil {
			return fmt.Errorf("convert component %s: %w", c.Id, err)
		}
		converted = decimal.NewFromFloat(converted).Round(decimals).InexactFloat64()

		if c.GetFloat("amount_converted") != converted {
			c.Set("amount_converted", converted)
			if err := app.Save(c); err != nil {
				return fmt.Errorf("save component %s: %w", c.Id, err)
			}
		}

		amounts = append(amounts, ComponentAmount{
			Category:  c.GetString("category"),
			Converted: converted,
		})
	}

	totals := CalcCostTotals(amounts)
	sheet.Set("material_cost", totals.Material)
	sheet.Set("labor_cost", totals.Labor)
	sheet.Set("overhead_cost", totals.Overhead)
	sheet.Set("other_cost", totals.Other)
	sheet.Set("total_cost", totals.Total)

	if err := RecomputePrice(app, sheet, totals.Total, decimals); err != nil {
		return err
	}

	if err := app.Save(sheet); err != nil {
		return fmt.Errorf("save sheet %s: %w", sheet.GetString("reference"), err)
	}
	return nil
}

// RecomputePrice derives the pricing fields from the total cost, margin,
// tax set and quantity and sets them on the record (without saving it).
// It is triggered by the same chain as the cost totals since both depend on
// the component set.
func RecomputePrice(app *pocketbase.PocketBase, sheet *core.Record, totalCost float64, decimals int32) error {
	rules, err := LoadTaxRules(app, sheet.GetStringSlice("taxes"))
	if err != nil {
		return fmt.Errorf("load taxes for %s: %w", sheet.GetString("reference"), err)
	}

	subtotal := ApplyMargin(totalCost, sheet.GetString("margin_type"), sheet.GetFloat("margin_value"))
	quantity := sheet.GetFloat("quantity")

	result := ComputeTaxes(subtotal, quantity, rules, decimals)

	totalTax := 0.0
	for _, t := range result.Taxes {
		totalTax += t.Amount
	}

	sheet.Set("price_subtotal", result.TotalExcluded)
	sheet.Set("total_tax", totalTax)
	sheet.Set("price_total", result.TotalIncluded)
	sheet.Set("unit_price", CalcUnitPrice(result.TotalIncluded, quantity))
	return nil
}
