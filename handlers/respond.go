package handlers

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/services"
)

// jsonError writes a uniform error envelope so clients can always read .error.
func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]any{"error": message})
}

// componentPayload maps a cost_components record to its JSON shape.
func componentPayload(c *core.Record) map[string]any {
	return map[string]any{
		"id":               c.Id,
		"sheet":            c.GetString("sheet"),
		"description":      c.GetString("description"),
		"category":         c.GetString("category"),
		"amount_source":    c.GetFloat("amount_source"),
		"amount_converted": c.GetFloat("amount_converted"),
		"sequence":         c.GetFloat("sequence"),
		"account":          c.GetString("account"),
		"partner":          c.GetString("partner"),
		"purchase_ref":     c.GetString("purchase_ref"),
		"stock_move_ref":   c.GetString("stock_move_ref"),
	}
}

// sheetPayload maps a cost_sheets record to its JSON shape, without components.
func sheetPayload(sheet *core.Record) map[string]any {
	return map[string]any{
		"id":              sheet.Id,
		"reference":       sheet.GetString("reference"),
		"product":         sheet.GetString("product"),
		"company":         sheet.GetString("company"),
		"currency":        sheet.GetString("currency"),
		"source_currency": sheet.GetString("source_currency"),
		"use_system_rate": sheet.GetBool("use_system_rate"),
		"exchange_rate":   sheet.GetFloat("exchange_rate"),
		"material_cost":   sheet.GetFloat("material_cost"),
		"labor_cost":      sheet.GetFloat("labor_cost"),
		"overhead_cost":   sheet.GetFloat("overhead_cost"),
		"other_cost":      sheet.GetFloat("other_cost"),
		"total_cost":      sheet.GetFloat("total_cost"),
		"margin_type":     sheet.GetString("margin_type"),
		"margin_value":    sheet.GetFloat("margin_value"),
		"taxes":           sheet.GetStringSlice("taxes"),
		"quantity":        sheet.GetFloat("quantity"),
		"price_subtotal":  sheet.GetFloat("price_subtotal"),
		"total_tax":       sheet.GetFloat("total_tax"),
		"price_total":     sheet.GetFloat("price_total"),
		"unit_price":      sheet.GetFloat("unit_price"),
		"state":           sheet.GetString("state"),
		"version":         sheet.GetFloat("version"),
		"effective_date":  sheet.GetString("effective_date"),
		"notes":           sheet.GetString("notes"),
	}
}

// sheetDetailPayload is sheetPayload plus the ordered component lines.
func sheetDetailPayload(app *pocketbase.PocketBase, sheet *core.Record) (map[string]any, error) {
	components, err := services.SheetComponents(app, sheet.Id)
	if err != nil {
		return nil, err
	}

	lines := make([]map[string]any, 0, len(components))
	for _, c := range components {
		lines = append(lines, componentPayload(c))
	}

	payload := sheetPayload(sheet)
	payload["components"] = lines
	return payload, nil
}
