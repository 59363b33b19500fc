package main

import (
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/collections"
	"costsheet/handlers"
	"costsheet/services"
)

func main() {
	app := pocketbase.New()

	// Create collections, validations and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		collections.RegisterValidations(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateSheetRateMode(app); err != nil {
			log.Printf("Warning: rate mode migration failed: %v", err)
		}
		if err := services.RecomputeAllSheets(app, time.Now()); err != nil {
			log.Printf("Warning: sheet recompute failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Worksheet CRUD ───────────────────────────────────────
		se.Router.GET("/sheets", handlers.HandleSheetList(app))
		se.Router.POST("/sheets", handlers.HandleSheetCreate(app))
		se.Router.GET("/sheets/{id}", handlers.HandleSheetView(app))
		se.Router.PATCH("/sheets/{id}", handlers.HandleSheetEdit(app))
		se.Router.DELETE("/sheets/{id}", handlers.HandleSheetDelete(app))

		// ── Component lines ──────────────────────────────────────
		se.Router.POST("/sheets/{id}/components", handlers.HandleComponentCreate(app))
		se.Router.PATCH("/sheets/{id}/components/{componentId}", handlers.HandleComponentEdit(app))
		se.Router.DELETE("/sheets/{id}/components/{componentId}", handlers.HandleComponentDelete(app))

		// ── Workflow ─────────────────────────────────────────────
		se.Router.POST("/sheets/{id}/submit-review", handlers.HandleSheetSubmitReview(app))
		se.Router.POST("/sheets/{id}/approve", handlers.HandleSheetApprove(app))
		se.Router.POST("/sheets/{id}/archive", handlers.HandleSheetArchive(app))
		se.Router.POST("/sheets/{id}/revise", handlers.HandleSheetRevise(app))

		// ── Exports ──────────────────────────────────────────────
		se.Router.GET("/sheets/{id}/export/excel", handlers.HandleSheetExportExcel(app))
		se.Router.GET("/sheets/{id}/export/pdf", handlers.HandleSheetExportPDF(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
