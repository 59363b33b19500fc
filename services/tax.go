package services

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"
)

// Tax amount types.
const (
	TaxPercent = "percent"
	TaxFixed   = "fixed"
)

// TaxRule is one applicable tax, loaded from the taxes collection.
type TaxRule struct {
	ID           string
	Name         string
	AmountType   string // percent | fixed
	Amount       float64
	PriceInclude bool
	Sequence     int
}

// TaxDetail is the computed amount for a single tax.
type TaxDetail struct {
	TaxID  string
	Name   string
	Amount float64
}

// TaxResult is the outcome of running a tax set over a base price.
// TotalIncluded always equals TotalExcluded plus the sum of the per-tax
// amounts.
type TaxResult struct {
	TotalExcluded float64
	TotalIncluded float64
	Taxes         []TaxDetail
}

// ComputeTaxes evaluates the rules against priceUnit*quantity, in sequence
// order. Rules flagged price_include are backed out of the base (reducing
// the excluded total); all other rules add on top. Amounts are rounded to
// the reporting currency's decimal places.
func ComputeTaxes(priceUnit, quantity float64, rules []TaxRule, decimals int32) TaxResult {
	if quantity == 0 {
		quantity = 1.0
	}

	ordered := make([]TaxRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})

	base := decimal.NewFromFloat(priceUnit).Mul(decimal.NewFromFloat(quantity))
	excluded := base
	totalTax := decimal.Zero
	hundred := decimal.NewFromInt(100)

	var details []TaxDetail
	for _, r := range ordered {
		var amount decimal.Decimal
		switch r.AmountType {
		case TaxFixed:
			amount = decimal.NewFromFloat(r.Amount).Mul(decimal.NewFromFloat(quantity))
			if r.PriceInclude {
				// base already carries the tax: back it out.
				excluded = excluded.Sub(amount)
			}
		default: // percent
			rate := decimal.NewFromFloat(r.Amount)
			if r.PriceInclude {
				// base already carries the tax: back it out.
				divisor := hundred.Add(rate)
				amount = base.Sub(base.Mul(hundred).DivRound(divisor, decimals+4))
				excluded = excluded.Sub(amount)
			} else {
				amount = base.Mul(rate).DivRound(hundred, decimals+4)
			}
		}
		amount = amount.Round(decimals)
		totalTax = totalTax.Add(amount)
		details = append(details, TaxDetail{TaxID: r.ID, Name: r.Name, Amount: amount.InexactFloat64()})
	}

	excluded = excluded.Round(decimals)
	included := excluded.Add(totalTax)

	return TaxResult{
		TotalExcluded: excluded.InexactFloat64(),
		TotalIncluded: included.InexactFloat64(),
		Taxes:         details,
	}
}

// LoadTaxRules reads the given tax records and maps them to rules.
// Missing IDs are an error: a worksheet must not be priced with a partially
// resolved tax set.
func LoadTaxRules(app *pocketbase.PocketBase, taxIDs []string) ([]TaxRule, error) {
	rules := make([]TaxRule, 0, len(taxIDs))
	for _, id := range taxIDs {
		rec, err := app.FindRecordById("taxes", id)
		if err != nil {
			return nil, fmt.Errorf("tax %s: %w", id, err)
		}
		rules = append(rules, TaxRule{
			ID:           rec.Id,
			Name:         rec.GetString("name"),
			AmountType:   rec.GetString("amount_type"),
			Amount:       rec.GetFloat("amount"),
			PriceInclude: rec.GetBool("price_include"),
			Sequence:     rec.GetInt("sequence"),
		})
	}
	return rules, nil
}
