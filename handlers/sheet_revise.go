package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/services"
)

// HandleSheetRevise copies a worksheet into a fresh draft with version+1.
// The copy gets its own reference, a cleared effective date and duplicated
// component lines; the source sheet is left untouched.
func HandleSheetRevise(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		source, err := findSheet(app, e)
		if err != nil {
			return err
		}

		reference, err := services.GenerateSheetReference(app, time.Now())
		if err != nil {
			log.Printf("sheet_revise: could not generate reference: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not generate sheet reference")
		}

		sheetsCol, err := app.FindCollectionByNameOrId("cost_sheets")
		if err != nil {
			log.Printf("sheet_revise: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		componentsCol, err := app.FindCollectionByNameOrId("cost_components")
		if err != nil {
			log.Printf("sheet_revise: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		revision := core.NewRecord(sheetsCol)
		revision.Set("reference", reference)
		revision.Set("product", source.GetString("product"))
		revision.Set("company", source.GetString("company"))
		revision.Set("currency", source.GetString("currency"))
		revision.Set("source_currency", source.GetString("source_currency"))
		revision.Set("use_system_rate", source.GetBool("use_system_rate"))
		revision.Set("exchange_rate", source.GetFloat("exchange_rate"))
		revision.Set("margin_type", source.GetString("margin_type"))
		revision.Set("margin_value", source.GetFloat("margin_value"))
		revision.Set("taxes", source.GetStringSlice("taxes"))
		revision.Set("quantity", source.GetFloat("quantity"))
		revision.Set("state", services.StateDraft)
		revision.Set("version", source.GetFloat("version")+1)
		revision.Set("notes", source.GetString("notes"))

		if err := app.Save(revision); err != nil {
			log.Printf("sheet_revise: error saving revision of %s: %v", source.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Could not create revision")
		}

		components, err := services.SheetComponents(app, source.Id)
		if err != nil {
			log.Printf("sheet_revise: could not load components of %s: %v", source.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Could not copy components")
		}

		for _, c := range components {
			clone := core.NewRecord(componentsCol)
			clone.Set("sheet", revision.Id)
			clone.Set("description", c.GetString("description"))
			clone.Set("category", c.GetString("category"))
			clone.Set("amount_source", c.GetFloat("amount_source"))
			clone.Set("sequence", c.GetFloat("sequence"))
			clone.Set("account", c.GetString("account"))
			clone.Set("partner", c.GetString("partner"))
			clone.Set("purchase_ref", c.GetString("purchase_ref"))
			clone.Set("stock_move_ref", c.GetString("stock_move_ref"))
			if err := app.Save(clone); err != nil {
				log.Printf("sheet_revise: error copying component %s: %v", c.Id, err)
				return jsonError(e, http.StatusInternalServerError, "Could not copy components")
			}
		}

		if err := services.RecomputeSheet(app, revision, time.Now()); err != nil {
			log.Printf("sheet_revise: recompute failed for %s: %v", revision.Id, err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		payload, err := sheetDetailPayload(app, revision)
		if err != nil {
			log.Printf("sheet_revise: could not build payload for %s: %v", revision.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusCreated, payload)
	}
}
