package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Worksheet states.
const (
	StateDraft    = "draft"
	StateReview   = "review"
	StateApproved = "approved"
	StateArchived = "archived"
)

// ApprovalCheck validates a worksheet (and its components) before approval.
// Checks are pluggable so deployments can tighten the control point without
// touching the state machine.
type ApprovalCheck func(sheet *core.Record, components []*core.Record) error

// DefaultApprovalChecks are run by Approve unless the caller supplies its
// own list: non-negative margin, at least one component, and every component
// carrying a category.
var DefaultApprovalChecks = []ApprovalCheck{
	CheckMarginNotNegative,
	CheckHasComponents,
	CheckComponentsCategorized,
}

func CheckMarginNotNegative(sheet *core.Record, _ []*core.Record) error {
	if sheet.GetFloat("margin_value") < 0 {
		return fmt.Errorf("margin value must not be negative")
	}
	return nil
}

func CheckHasComponents(_ *core.Record, components []*core.Record) error {
	if len(components) == 0 {
		return fmt.Errorf("worksheet has no cost components")
	}
	return nil
}

func CheckComponentsCategorized(_ *core.Record, components []*core.Record) error {
	for _, c := range components {
		if c.GetString("category") == "" {
			return fmt.Errorf("component %q has no category", c.GetString("description"))
		}
	}
	return nil
}

// SubmitReview moves the worksheet into review. Transitions are deliberately
// permissive: any state may be resubmitted.
func SubmitReview(app *pocketbase.PocketBase, sheet *core.Record) error {
	sheet.Set("state", StateReview)
	if err := app.Save(sheet); err != nil {
		return fmt.Errorf("submit review %s: %w", sheet.GetString("reference"), err)
	}
	return nil
}

// Approve runs the approval checks, freezes the effective date to now and
// moves the worksheet to approved. Freezing matters: from this point
// convert_amount resolves rates at the frozen date instead of tracking
// "today", so later recomputes keep pricing against the approved rate.
func Approve(app *pocketbase.PocketBase, sheet *core.Record, now time.Time, checks ...ApprovalCheck) error {
	if checks == nil {
		checks = DefaultApprovalChecks
	}

	components, err := SheetComponents(app, sheet.Id)
	if err != nil {
		return fmt.Errorf("approve %s: %w", sheet.GetString("reference"), err)
	}
	for _, check := range checks {
		if err := check(sheet, components); err != nil {
			return fmt.Errorf("approve %s: %w", sheet.GetString("reference"), err)
		}
	}

	effective, err := types.ParseDateTime(now.UTC().Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("approve %s: effective date: %w", sheet.GetString("reference"), err)
	}

	sheet.Set("state", StateApproved)
	sheet.Set("effective_date", effective)
	if err := app.Save(sheet); err != nil {
		return fmt.Errorf("approve %s: %w", sheet.GetString("reference"), err)
	}
	return nil
}

// Archive moves the worksheet to its terminal state. The record stays
// readable and exportable; nothing at the data layer prevents later edits.
func Archive(app *pocketbase.PocketBase, sheet *core.Record) error {
	sheet.Set("state", StateArchived)
	if err := app.Save(sheet); err != nil {
		return fmt.Errorf("archive %s: %w", sheet.GetString("reference"), err)
	}
	return nil
}
