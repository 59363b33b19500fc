package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"costsheet/testhelpers"
)

func TestHandleSheetEdit_MarginChangeRecomputes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)
	testhelpers.CreateTestComponent(t, app, sheet.Id, "Wood", "material", 100)

	handler := HandleSheetEdit(app)
	req := jsonRequest(t, http.MethodPatch, "/sheets/"+sheet.Id, map[string]any{
		"margin_type":  "percent",
		"margin_value": 20,
	})
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if math.Abs(body["price_subtotal"].(float64)-120) > 0.001 {
		t.Errorf("price_subtotal = %v, want 120", body["price_subtotal"])
	}
	if math.Abs(body["total_cost"].(float64)-100) > 0.001 {
		t.Errorf("total_cost = %v, want 100", body["total_cost"])
	}
}

func TestHandleSheetEdit_InvalidMarginType(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)

	handler := HandleSheetEdit(app)
	req := jsonRequest(t, http.MethodPatch, "/sheets/"+sheet.Id, map[string]any{
		"margin_type": "markup",
	})
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSheetEdit_DerivedFieldsNotWritable(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)
	testhelpers.CreateTestComponent(t, app, sheet.Id, "Wood", "material", 100)

	handler := HandleSheetEdit(app)
	req := jsonRequest(t, http.MethodPatch, "/sheets/"+sheet.Id, map[string]any{
		"total_cost":  9999,
		"price_total": 9999,
		"reference":   "CPS-9999-9999",
	})
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	if math.Abs(body["total_cost"].(float64)-100) > 0.001 {
		t.Errorf("total_cost = %v, derived value must win", body["total_cost"])
	}
	if body["reference"] != "CPS-2025-0001" {
		t.Errorf("reference = %v, must be immutable", body["reference"])
	}
}

func TestHandleSheetDelete_CascadesComponents(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")
	sheet := testhelpers.CreateTestSheet(t, app, "CPS-2025-0001", product.Id, cup.Id, cup.Id)
	component := testhelpers.CreateTestComponent(t, app, sheet.Id, "Wood", "material", 100)

	handler := HandleSheetDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/sheets/"+sheet.Id, nil)
	req.SetPathValue("id", sheet.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := app.FindRecordById("cost_sheets", sheet.Id); err == nil {
		t.Error("sheet should be deleted")
	}
	if _, err := app.FindRecordById("cost_components", component.Id); err == nil {
		t.Error("components should cascade with their sheet")
	}
}
