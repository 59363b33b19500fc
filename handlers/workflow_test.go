package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"costsheet/testhelpers"
)

func TestHandleSheetSubmitReview(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)

	handler := HandleSheetSubmitReview(app)
	req := httptest.NewRequest(http.MethodPost, "/sheets/"+sheet.Id+"/submit-review", nil)
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["state"] != "review" {
		t.Errorf("state = %v, want review", body["state"])
	}
}

func TestHandleSheetApprove_SetsEffectiveDate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)
	testhelpers.CreateTestComponent(t, app, sheet.Id, "Wood", "material", 100)

	handler := HandleSheetApprove(app)
	req := httptest.NewRequest(http.MethodPost, "/sheets/"+sheet.Id+"/approve", nil)
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["state"] != "approved" {
		t.Errorf("state = %v, want approved", body["state"])
	}
	if date, _ := body["effective_date"].(string); date == "" {
		t.Error("effective_date must be set on approval")
	}
}

func TestHandleSheetApprove_FailsOnEmptySheet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)

	handler := HandleSheetApprove(app)
	req := httptest.NewRequest(http.MethodPost, "/sheets/"+sheet.Id+"/approve", nil)
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSheetArchive(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)

	handler := HandleSheetArchive(app)
	req := httptest.NewRequest(http.MethodPost, "/sheets/"+sheet.Id+"/archive", nil)
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["state"] != "archived" {
		t.Errorf("state = %v, want archived", body["state"])
	}
}
