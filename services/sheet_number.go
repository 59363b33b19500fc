package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatSheetReference constructs the worksheet reference from components.
func formatSheetReference(year int, sequence int) string {
	return fmt.Sprintf("CPS-%d-%04d", year, sequence)
}

// GenerateSheetReference creates the next worksheet reference.
// Format: CPS-{year}-{sequence}, sequence 4-digit zero-padded per calendar
// year. The reference is assigned once at creation and never regenerated,
// so deleting a worksheet does not free its number for reuse within a
// running sequence (the next number keeps counting from the live maximum).
func GenerateSheetReference(app *pocketbase.PocketBase, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("CPS-%d-", year)

	existing, err := app.FindRecordsByFilter(
		"cost_sheets",
		"reference ~ {:prefix}",
		"-reference",
		1,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("lookup last reference: %w", err)
	}

	nextSeq := 1
	if len(existing) > 0 {
		var lastYear, lastSeq int
		if _, err := fmt.Sscanf(existing[0].GetString("reference"), "CPS-%d-%d", &lastYear, &lastSeq); err == nil {
			nextSeq = lastSeq + 1
		}
	}

	return formatSheetReference(year, nextSeq), nil
}
