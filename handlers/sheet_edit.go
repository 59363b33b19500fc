package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/services"
)

// sheetEditInput uses pointers so only the fields present in the body change.
type sheetEditInput struct {
	Product        *string   `json:"product" form:"product"`
	Currency       *string   `json:"currency" form:"currency"`
	SourceCurrency *string   `json:"source_currency" form:"source_currency"`
	UseSystemRate  *bool     `json:"use_system_rate" form:"use_system_rate"`
	ExchangeRate   *float64  `json:"exchange_rate" form:"exchange_rate"`
	MarginType     *string   `json:"margin_type" form:"margin_type"`
	MarginValue    *float64  `json:"margin_value" form:"margin_value"`
	Taxes          *[]string `json:"taxes" form:"taxes"`
	Quantity       *float64  `json:"quantity" form:"quantity"`
	EffectiveDate  *string   `json:"effective_date" form:"effective_date"`
	Notes          *string   `json:"notes" form:"notes"`
}

// HandleSheetEdit patches worksheet inputs and recomputes all derived values.
// Derived fields and the reference are never writable through this endpoint.
func HandleSheetEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheetID := e.Request.PathValue("id")
		if sheetID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing sheet ID")
		}

		sheet, err := app.FindRecordById("cost_sheets", sheetID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Sheet not found")
		}

		var input sheetEditInput
		if err := e.BindBody(&input); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		if input.Product != nil {
			sheet.Set("product", *input.Product)
		}
		if input.Currency != nil {
			sheet.Set("currency", *input.Currency)
		}
		if input.SourceCurrency != nil {
			sheet.Set("source_currency", *input.SourceCurrency)
		}
		if input.UseSystemRate != nil {
			sheet.Set("use_system_rate", *input.UseSystemRate)
		}
		if input.ExchangeRate != nil {
			sheet.Set("exchange_rate", *input.ExchangeRate)
		}
		if input.MarginType != nil {
			if *input.MarginType != services.MarginPercent && *input.MarginType != services.MarginAbsolute {
				return jsonError(e, http.StatusBadRequest, "Invalid margin type")
			}
			sheet.Set("margin_type", *input.MarginType)
		}
		if input.MarginValue != nil {
			sheet.Set("margin_value", *input.MarginValue)
		}
		if input.Taxes != nil {
			sheet.Set("taxes", *input.Taxes)
		}
		if input.Quantity != nil {
			sheet.Set("quantity", *input.Quantity)
		}
		if input.EffectiveDate != nil {
			sheet.Set("effective_date", *input.EffectiveDate)
		}
		if input.Notes != nil {
			sheet.Set("notes", *input.Notes)
		}

		if err := services.RecomputeSheet(app, sheet, time.Now()); err != nil {
			log.Printf("sheet_edit: recompute failed for %s: %v", sheetID, err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		payload, err := sheetDetailPayload(app, sheet)
		if err != nil {
			log.Printf("sheet_edit: could not build payload for %s: %v", sheetID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, payload)
	}
}

// HandleSheetDelete removes a worksheet; components cascade with it.
func HandleSheetDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheetID := e.Request.PathValue("id")
		if sheetID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing sheet ID")
		}

		sheet, err := app.FindRecordById("cost_sheets", sheetID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Sheet not found")
		}

		if err := app.Delete(sheet); err != nil {
			log.Printf("sheet_delete: error deleting %s: %v", sheetID, err)
			return jsonError(e, http.StatusInternalServerError, "Could not delete sheet")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": sheetID})
	}
}
