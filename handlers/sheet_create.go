package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/services"
)

type sheetCreateInput struct {
	Product        string   `json:"product" form:"product"`
	Company        string   `json:"company" form:"company"`
	Currency       string   `json:"currency" form:"currency"`
	SourceCurrency string   `json:"source_currency" form:"source_currency"`
	UseSystemRate  bool     `json:"use_system_rate" form:"use_system_rate"`
	ExchangeRate   float64  `json:"exchange_rate" form:"exchange_rate"`
	MarginType     string   `json:"margin_type" form:"margin_type"`
	MarginValue    float64  `json:"margin_value" form:"margin_value"`
	Taxes          []string `json:"taxes" form:"taxes"`
	Quantity       *float64 `json:"quantity" form:"quantity"`
	Notes          string   `json:"notes" form:"notes"`
}

// HandleSheetCreate creates a draft worksheet with a generated reference.
func HandleSheetCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var input sheetCreateInput
		if err := e.BindBody(&input); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		if input.Product == "" {
			return jsonError(e, http.StatusBadRequest, "Product is required")
		}
		if input.Company == "" {
			return jsonError(e, http.StatusBadRequest, "Company is required")
		}
		if input.SourceCurrency == "" {
			return jsonError(e, http.StatusBadRequest, "Source currency is required")
		}

		company, err := app.FindRecordById("companies", input.Company)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Company not found")
		}

		// Reporting currency defaults to the company currency.
		currency := input.Currency
		if currency == "" {
			currency = company.GetString("currency")
		}
		if currency == "" {
			return jsonError(e, http.StatusBadRequest, "Currency is required")
		}

		reference, err := services.GenerateSheetReference(app, time.Now())
		if err != nil {
			log.Printf("sheet_create: could not generate reference: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not generate sheet reference")
		}

		collection, err := app.FindCollectionByNameOrId("cost_sheets")
		if err != nil {
			log.Printf("sheet_create: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		marginType := input.MarginType
		if marginType == "" {
			marginType = services.MarginPercent
		}
		quantity := 1.0
		if input.Quantity != nil {
			quantity = *input.Quantity
		}

		record := core.NewRecord(collection)
		record.Set("reference", reference)
		record.Set("product", input.Product)
		record.Set("company", input.Company)
		record.Set("currency", currency)
		record.Set("source_currency", input.SourceCurrency)
		record.Set("use_system_rate", input.UseSystemRate)
		record.Set("exchange_rate", input.ExchangeRate)
		record.Set("margin_type", marginType)
		record.Set("margin_value", input.MarginValue)
		record.Set("taxes", input.Taxes)
		record.Set("quantity", quantity)
		record.Set("state", services.StateDraft)
		record.Set("version", 1)
		record.Set("notes", input.Notes)

		if err := app.Save(record); err != nil {
			log.Printf("sheet_create: error saving sheet: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not create sheet")
		}

		if err := services.RecomputeSheet(app, record, time.Now()); err != nil {
			log.Printf("sheet_create: recompute failed for %s: %v", record.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Could not compute sheet totals")
		}

		payload, err := sheetDetailPayload(app, record)
		if err != nil {
			log.Printf("sheet_create: could not build payload: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusCreated, payload)
	}
}
