// Package services provides the calculation core for cost-price worksheets:
// currency conversion, cost roll-up, margin and tax pricing, reference
// generation and export.
package services

import "github.com/shopspring/decimal"

// Cost categories a component can be tagged with.
const (
	CategoryMaterial = "material"
	CategoryLabor    = "labor"
	CategoryOverhead = "overhead"
	CategoryOther    = "other"
)

// Margin modes.
const (
	MarginPercent  = "percent"
	MarginAbsolute = "absolute"
)

// ComponentAmount is the slice of a component the cost roll-up needs.
type ComponentAmount struct {
	Category  string
	Converted float64
}

// CostTotals holds the per-category sums and the grand total, all in the
// worksheet's reporting currency.
type CostTotals struct {
	Material float64
	Labor    float64
	Overhead float64
	Other    float64
	Total    float64
}

// CalcCostTotals partitions components by category and sums their converted
// amounts. Total always equals the sum of the four category sums. The fold is
// pure and idempotent; callers re-run it after every component change.
func CalcCostTotals(components []ComponentAmount) CostTotals {
	var t CostTotals
	for _, c := range components {
		switch c.Category {
		case CategoryMaterial:
			t.Material += c.Converted
		case CategoryLabor:
			t.Labor += c.Converted
		case CategoryOverhead:
			t.Overhead += c.Converted
		case CategoryOther:
			t.Other += c.Converted
		}
	}
	t.Total = t.Material + t.Labor + t.Overhead + t.Other
	return t
}

// ApplyMargin derives the pre-tax subtotal from the total cost.
// Percent margins scale with cost, absolute margins are added as-is.
// Unknown margin types fall back to percent, matching the reference default.
func ApplyMargin(totalCost float64, marginType string, marginValue float64) float64 {
	cost := decimal.NewFromFloat(totalCost)
	value := decimal.NewFromFloat(marginValue)

	if marginType == MarginAbsolute {
		return cost.Add(value).InexactFloat64()
	}
	factor := decimal.NewFromInt(1).Add(value.Div(decimal.NewFromInt(100)))
	return cost.Mul(factor).InexactFloat64()
}

// CalcUnitPrice divides the tax-included total by the base quantity.
// A zero quantity yields 0 rather than an error; division by zero must
// never propagate out of the pricing chain.
func CalcUnitPrice(priceTotal, quantity float64) float64 {
	if quantity == 0 {
		return 0
	}
	return decimal.NewFromFloat(priceTotal).
		Div(decimal.NewFromFloat(quantity)).
		InexactFloat64()
}
