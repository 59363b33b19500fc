package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleSheetList lists worksheets, optionally filtered by ?state= and ?product=.
func HandleSheetList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		filter := "id != ''"
		params := map[string]any{}

		if state := e.Request.URL.Query().Get("state"); state != "" {
			filter += " && state = {:state}"
			params["state"] = state
		}
		if product := e.Request.URL.Query().Get("product"); product != "" {
			filter += " && product = {:product}"
			params["product"] = product
		}

		sheets, err := app.FindRecordsByFilter("cost_sheets", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("sheet_list: query failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not load sheets")
		}

		items := make([]map[string]any, 0, len(sheets))
		for _, sheet := range sheets {
			items = append(items, sheetPayload(sheet))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

// HandleSheetView returns one worksheet with its component lines.
func HandleSheetView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheetID := e.Request.PathValue("id")
		if sheetID == "" {
			return jsonError(e, http.StatusBadRequest, "Missing sheet ID")
		}

		sheet, err := app.FindRecordById("cost_sheets", sheetID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Sheet not found")
		}

		payload, err := sheetDetailPayload(app, sheet)
		if err != nil {
			log.Printf("sheet_view: could not build payload for %s: %v", sheetID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, payload)
	}
}
