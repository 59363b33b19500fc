// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app, runs collections.Setup to create all tables and
// registers the data-layer validations. The temporary directory is cleaned
// up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)
	collections.RegisterValidations(app)

	return app
}

// CreateTestCurrency creates a currency record and returns it.
func CreateTestCurrency(t *testing.T, app *pocketbase.PocketBase, code, symbol string, decimalPlaces int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("currencies")
	if err != nil {
		t.Fatalf("failed to find currencies collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", code)
	record.Set("symbol", symbol)
	record.Set("decimal_places", decimalPlaces)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test currency %s: %v", code, err)
	}

	return record
}

// CreateTestCompany creates a company record with the given reporting currency.
func CreateTestCompany(t *testing.T, app *pocketbase.PocketBase, name, currencyID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("companies")
	if err != nil {
		t.Fatalf("failed to find companies collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("currency", currencyID)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test company: %v", err)
	}

	return record
}

// CreateTestRate inserts a dated row into the system rate table.
// date uses the "2006-01-02" layout.
func CreateTestRate(t *testing.T, app *pocketbase.PocketBase, fromID, toID, companyID string, rate float64, date string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("currency_rates")
	if err != nil {
		t.Fatalf("failed to find currency_rates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("from_currency", fromID)
	record.Set("to_currency", toID)
	if companyID != "" {
		record.Set("company", companyID)
	}
	record.Set("rate", rate)
	record.Set("date", date+" 00:00:00.000Z")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test rate: %v", err)
	}

	return record
}

// CreateTestProduct creates a product record and returns it.
func CreateTestProduct(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		t.Fatalf("failed to find products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("uom", "Unit")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test product: %v", err)
	}

	return record
}

// CreateTestTax creates a tax record and returns it.
func CreateTestTax(t *testing.T, app *pocketbase.PocketBase, name, amountType string, amount float64, priceInclude bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("taxes")
	if err != nil {
		t.Fatalf("failed to find taxes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("amount_type", amountType)
	record.Set("amount", amount)
	record.Set("price_include", priceInclude)
	record.Set("sequence", 10)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test tax %s: %v", name, err)
	}

	return record
}

// CreateTestSheet creates a draft worksheet with sane defaults: fixed rate
// mode, percent margin 0, quantity 1.
func CreateTestSheet(t *testing.T, app *pocketbase.PocketBase, reference, productID, currencyID, sourceCurrencyID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("cost_sheets")
	if err != nil {
		t.Fatalf("failed to find cost_sheets collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("reference", reference)
	record.Set("product", productID)
	record.Set("currency", currencyID)
	record.Set("source_currency", sourceCurrencyID)
	record.Set("margin_type", "percent")
	record.Set("margin_value", 0.0)
	record.Set("quantity", 1.0)
	record.Set("state", "draft")
	record.Set("version", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test sheet: %v", err)
	}

	return record
}

// CreateTestComponent creates a cost component on a worksheet.
func CreateTestComponent(t *testing.T, app *pocketbase.PocketBase, sheetID, description, category string, amountSource float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("cost_components")
	if err != nil {
		t.Fatalf("failed to find cost_components collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("sheet", sheetID)
	record.Set("description", description)
	record.Set("category", category)
	record.Set("amount_source", amountSource)
	record.Set("sequence", 10)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test component %s: %v", description, err)
	}

	return record
}
