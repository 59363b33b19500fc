package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/collections"
	"costsheet/services"
)

type componentCreateInput struct {
	Description  string   `json:"description" form:"description"`
	Category     string   `json:"category" form:"category"`
	AmountSource float64  `json:"amount_source" form:"amount_source"`
	Sequence     *float64 `json:"sequence" form:"sequence"`
	Account      string   `json:"account" form:"account"`
	Partner      string   `json:"partner" form:"partner"`
	PurchaseRef  string   `json:"purchase_ref" form:"purchase_ref"`
	StockMoveRef string   `json:"stock_move_ref" form:"stock_move_ref"`
}

type componentEditInput struct {
	Description  *string  `json:"description" form:"description"`
	Category     *string  `json:"category" form:"category"`
	AmountSource *float64 `json:"amount_source" form:"amount_source"`
	Sequence     *float64 `json:"sequence" form:"sequence"`
	Account      *string  `json:"account" form:"account"`
	Partner      *string  `json:"partner" form:"partner"`
	PurchaseRef  *string  `json:"purchase_ref" form:"purchase_ref"`
	StockMoveRef *string  `json:"stock_move_ref" form:"stock_move_ref"`
}

func validCategory(category string) bool {
	switch category {
	case services.CategoryMaterial, services.CategoryLabor, services.CategoryOverhead, services.CategoryOther:
		return true
	}
	return false
}

// saveComponentError maps the negative-amount hook error to a 400, everything
// else to a 500.
func saveComponentError(e *core.RequestEvent, action string, err error) error {
	if errors.Is(err, collections.ErrNegativeAmount) {
		return jsonError(e, http.StatusBadRequest, "Component amount cannot be negative")
	}
	log.Printf("components: %s: %v", action, err)
	return jsonError(e, http.StatusInternalServerError, "Could not save component")
}

// HandleComponentCreate adds a cost line to a worksheet and recomputes it.
func HandleComponentCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheetID := e.Request.PathValue("id")
		if sheetID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing sheet ID")
		}

		sheet, err := app.FindRecordById("cost_sheets", sheetID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Sheet not found")
		}

		var input componentCreateInput
		if err := e.BindBody(&input); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		if input.Description == "" {
			return jsonError(e, http.StatusBadRequest, "Description is required")
		}
		if !validCategory(input.Category) {
			return jsonError(e, http.StatusBadRequest, "Invalid component category")
		}
		if input.AmountSource < 0 {
			return jsonError(e, http.StatusBadRequest, "Component amount cannot be negative")
		}

		collection, err := app.FindCollectionByNameOrId("cost_components")
		if err != nil {
			log.Printf("components: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		sequence := 10.0
		if input.Sequence != nil {
			sequence = *input.Sequence
		}

		record := core.NewRecord(collection)
		record.Set("sheet", sheet.Id)
		record.Set("description", input.Description)
		record.Set("category", input.Category)
		record.Set("amount_source", input.AmountSource)
		record.Set("sequence", sequence)
		record.Set("account", input.Account)
		record.Set("partner", input.Partner)
		record.Set("purchase_ref", input.PurchaseRef)
		record.Set("stock_move_ref", input.StockMoveRef)

		if err := app.Save(record); err != nil {
			return saveComponentError(e, "create", err)
		}

		if err := services.RecomputeSheet(app, sheet, time.Now()); err != nil {
			log.Printf("components: recompute failed for sheet %s: %v", sheetID, err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		// Refetch so the response carries the converted amount just computed.
		if fresh, err := app.FindRecordById("cost_components", record.Id); err == nil {
			record = fresh
		}
		return e.JSON(http.StatusCreated, componentPayload(record))
	}
}

// HandleComponentEdit patches a cost line and recomputes its worksheet.
func HandleComponentEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheetID := e.Request.PathValue("id")
		componentID := e.Request.PathValue("componentId")
		if sheetID == "" || componentID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing required IDs")
		}

		sheet, err := app.FindRecordById("cost_sheets", sheetID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Sheet not found")
		}

		record, err := app.FindRecordById("cost_components", componentID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Component not found")
		}
		if record.GetString("sheet") != sheet.Id {
			return jsonError(e, http.StatusBadRequest, "Component does not belong to this sheet")
		}

		var input componentEditInput
		if err := e.BindBody(&input); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		if input.Description != nil {
			record.Set("description", *input.Description)
		}
		if input.Category != nil {
			if !validCategory(*input.Category) {
				return jsonError(e, http.StatusBadRequest, "Invalid component category")
			}
			record.Set("category", *input.Category)
		}
		if input.AmountSource != nil {
			if *input.AmountSource < 0 {
				return jsonError(e, http.StatusBadRequest, "Component amount cannot be negative")
			}
			record.Set("amount_source", *input.AmountSource)
		}
		if input.Sequence != nil {
			record.Set("sequence", *input.Sequence)
		}
		if input.Account != nil {
			record.Set("account", *input.Account)
		}
		if input.Partner != nil {
			record.Set("partner", *input.Partner)
		}
		if input.PurchaseRef != nil {
			record.Set("purchase_ref", *input.PurchaseRef)
		}
		if input.StockMoveRef != nil {
			record.Set("stock_move_ref", *input.StockMoveRef)
		}

		if err := app.Save(record); err != nil {
			return saveComponentError(e, "edit", err)
		}

		if err := services.RecomputeSheet(app, sheet, time.Now()); err != nil {
			log.Printf("components: recompute failed for sheet %s: %v", sheetID, err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		if fresh, err := app.FindRecordById("cost_components", record.Id); err == nil {
			record = fresh
		}
		return e.JSON(http.StatusOK, componentPayload(record))
	}
}

// HandleComponentDelete removes a cost line and recomputes its worksheet.
func HandleComponentDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheetID := e.Request.PathValue("id")
		componentID := e.Request.PathValue("componentId")
		if sheetID == "" || componentID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing required IDs")
		}

		sheet, err := app.FindRecordById("cost_sheets", sheetID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Sheet not found")
		}

		record, err := app.FindRecordById("cost_components", componentID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Component not found")
		}
		if record.GetString("sheet") != sheet.Id {
			return jsonError(e, http.StatusBadRequest, "Component does not belong to this sheet")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("components: delete failed for %s: %v", componentID, err)
			return jsonError(e, http.StatusInternalServerError, "Could not delete component")
		}

		if err := services.RecomputeSheet(app, sheet, time.Now()); err != nil {
			log.Printf("components: recompute failed for sheet %s: %v", sheetID, err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": componentID})
	}
}
