package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateSheetRateMode backfills worksheets created before the conversion
// mode fields existed. A sheet with use_system_rate off and no stored
// multiplier would silently convert at 1.0; make that explicit instead.
func MigrateSheetRateMode(app *pocketbase.PocketBase) error {
	sheetsCol, err := app.FindCollectionByNameOrId("cost_sheets")
	if err != nil {
		return fmt.Errorf("migrate: could not find cost_sheets collection: %w", err)
	}

	stale, err := app.FindRecordsByFilter(
		sheetsCol,
		"use_system_rate = false && exchange_rate = 0",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query cost_sheets: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found %d sheet(s) without an explicit exchange rate -- defaulting to 1.0...\n", len(stale))

	for _, sheet := range stale {
		sheet.Set("exchange_rate", 1.0)
		if err := app.Save(sheet); err != nil {
			return fmt.Errorf("migrate: sheet %s: %w", sheet.GetString("reference"), err)
		}
	}

	return nil
}
