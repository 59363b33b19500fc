package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/services"
)

// HandleSheetSubmitReview moves a worksheet into the review state.
func HandleSheetSubmitReview(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheet, err := findSheet(app, e)
		if err != nil {
			return err
		}

		if err := services.SubmitReview(app, sheet); err != nil {
			log.Printf("workflow: submit review failed for %s: %v", sheet.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Could not submit sheet for review")
		}
		return e.JSON(http.StatusOK, sheetPayload(sheet))
	}
}

// HandleSheetApprove runs the approval checks, freezes the effective date and
// recomputes the sheet against that date.
func HandleSheetApprove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheet, err := findSheet(app, e)
		if err != nil {
			return err
		}

		if err := services.Approve(app, sheet, time.Now()); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		// System-rate conversions must now reflect the frozen date.
		if err := services.RecomputeSheet(app, sheet, time.Now()); err != nil {
			log.Printf("workflow: recompute after approval failed for %s: %v", sheet.Id, err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		return e.JSON(http.StatusOK, sheetPayload(sheet))
	}
}

// HandleSheetArchive moves a worksheet into the archived state.
func HandleSheetArchive(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheet, err := findSheet(app, e)
		if err != nil {
			return err
		}

		if err := services.Archive(app, sheet); err != nil {
			log.Printf("workflow: archive failed for %s: %v", sheet.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Could not archive sheet")
		}
		return e.JSON(http.StatusOK, sheetPayload(sheet))
	}
}

// findSheet resolves the {id} path value or writes the error response itself.
func findSheet(app *pocketbase.PocketBase, e *core.RequestEvent) (*core.Record, error) {
	sheetID := e.Request.PathValue("id")
	if sheetID == "" {
		return nil, jsonError(e, http.StatusBadRequest, "Missing sheet ID")
	}
	sheet, err := app.FindRecordById("cost_sheets", sheetID)
	if err != nil {
		return nil, jsonError(e, http.StatusNotFound, "Sheet not found")
	}
	return sheet, nil
}
