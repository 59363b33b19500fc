package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"costsheet/testhelpers"
)

func TestHandleSheetCreate_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	mlc := testhelpers.CreateTestCurrency(t, app, "MLC", "MLC", 2)
	company := testhelpers.CreateTestCompany(t, app, "Test Co", cup.Id)
	product := testhelpers.CreateTestProduct(t, app, "Chair")

	handler := HandleSheetCreate(app)
	req := jsonRequest(t, http.MethodPost, "/sheets", map[string]any{
		"product":         product.Id,
		"company":         company.Id,
		"source_currency": mlc.Id,
		"exchange_rate":   1.5,
	})
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	reference, _ := body["reference"].(string)
	if !strings.HasPrefix(reference, "CPS-") {
		t.Errorf("reference = %q, want CPS- prefix", reference)
	}
	if body["state"] != "draft" {
		t.Errorf("state = %v, want draft", body["state"])
	}
	if body["version"] != float64(1) {
		t.Errorf("version = %v, want 1", body["version"])
	}
	// Reporting currency defaulted from the company.
	if body["currency"] != cup.Id {
		t.Errorf("currency = %v, want company currency %s", body["currency"], cup.Id)
	}
	if body["quantity"] != float64(1) {
		t.Errorf("quantity = %v, want default 1", body["quantity"])
	}
}

func TestHandleSheetCreate_SequentialReferences(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	company := testhelpers.CreateTestCompany(t, app, "Test Co", cup.Id)
	product := testhelpers.CreateTestProduct(t, app, "Chair")

	handler := HandleSheetCreate(app)
	var refs []string
	for i := 0; i < 2; i++ {
		req := jsonRequest(t, http.MethodPost, "/sheets", map[string]any{
			"product":         product.Id,
			"company":         company.Id,
			"source_currency": cup.Id,
		})
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		body := decodeJSON(t, rec)
		refs = append(refs, body["reference"].(string))
	}

	if refs[0] == refs[1] {
		t.Errorf("references must be unique, both were %q", refs[0])
	}
}

func TestHandleSheetCreate_MissingProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	company := testhelpers.CreateTestCompany(t, app, "Test Co", cup.Id)

	handler := HandleSheetCreate(app)
	req := jsonRequest(t, http.MethodPost, "/sheets", map[string]any{
		"company":         company.Id,
		"source_currency": cup.Id,
	})
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSheetCreate_UnknownCompany(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	product := testhelpers.CreateTestProduct(t, app, "Chair")

	handler := HandleSheetCreate(app)
	req := jsonRequest(t, http.MethodPost, "/sheets", map[string]any{
		"product":         product.Id,
		"company":         "missing123",
		"source_currency": cup.Id,
	})
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
