package services

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"costsheet/testhelpers"
)

func TestSubmitReviewAndArchive(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)

	if err := SubmitReview(app, sheet); err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}
	sheet = reload(t, app, "cost_sheets", sheet.Id)
	if sheet.GetString("state") != StateReview {
		t.Errorf("state = %q, want %q", sheet.GetString("state"), StateReview)
	}

	if err := Archive(app, sheet); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	sheet = reload(t, app, "cost_sheets", sheet.Id)
	if sheet.GetString("state") != StateArchived {
		t.Errorf("state = %q, want %q", sheet.GetString("state"), StateArchived)
	}
}

func TestApprove_FreezesEffectiveDate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)
	testhelpers.CreateTestComponent(t, app, sheet.Id, "Wood", CategoryMaterial, 100)

	approvedAt := time.Date(2025, time.July, 4, 15, 30, 0, 0, time.UTC)
	if err := Approve(app, sheet, approvedAt); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	sheet = reload(t, app, "cost_sheets", sheet.Id)
	if sheet.GetString("state") != StateApproved {
		t.Errorf("state = %q, want %q", sheet.GetString("state"), StateApproved)
	}

	// Date-only: the time-of-day of the approval must not leak in.
	frozen := sheet.GetDateTime("effective_date").Time()
	if frozen.Year() != 2025 || frozen.Month() != time.July || frozen.Day() != 4 {
		t.Errorf("effective_date = %v, want 2025-07-04", frozen)
	}
	if frozen.Hour() != 0 || frozen.Minute() != 0 {
		t.Errorf("effective_date carries time of day: %v", frozen)
	}
}

func TestApprove_RejectsNegativeMargin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)
	sheet.Set("margin_value", -5.0)
	if err := app.Save(sheet); err != nil {
		t.Fatalf("failed to save sheet: %v", err)
	}
	testhelpers.CreateTestComponent(t, app, sheet.Id, "Wood", CategoryMaterial, 100)

	if err := Approve(app, sheet, time.Now()); err == nil {
		t.Error("expected approval to fail on negative margin")
	}
	if sheet.GetString("state") == StateApproved {
		t.Error("sheet must not reach approved when a check fails")
	}
}

func TestApprove_RejectsEmptySheet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)

	if err := Approve(app, sheet, time.Now()); err == nil {
		t.Error("expected approval to fail with no components")
	}
}

func TestApprove_CustomChecksReplaceDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)

	// No components, but a permissive check set lets it through.
	allow := func(_ *core.Record, _ []*core.Record) error { return nil }
	if err := Approve(app, sheet, time.Now(), allow); err != nil {
		t.Fatalf("Approve() with permissive check error = %v", err)
	}

	sheet = reload(t, app, "cost_sheets", sheet.Id)
	if sheet.GetString("state") != StateApproved {
		t.Errorf("state = %q, want %q", sheet.GetString("state"), StateApproved)
	}
}
