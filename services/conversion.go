package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// RateProvider converts an amount between two currencies at a given date.
// Implementations may apply historical, dated rates.
type RateProvider interface {
	Convert(amount float64, fromCurrency, toCurrency, companyID string, date time.Time) (float64, error)
}

// ConversionPolicy is the per-worksheet conversion configuration components
// delegate to. ExchangeRate is the multiplier from the source currency to the
// reporting currency (NOT the inverse); installers configuring fixed rates
// must respect that direction or every worksheet using them mis-prices
// silently.
type ConversionPolicy struct {
	UseSystemRate     bool
	ExchangeRate      float64
	SourceCurrencyID  string
	ReportingCurrency string
	CompanyID         string
	EffectiveDate     time.Time // zero means "not yet frozen"
}

// ConvertAmount converts a source-currency amount into the reporting currency
// using the policy. The effective date wins over now; approval freezes it.
// Provider errors propagate unmodified; there is no retry and no fallback.
func ConvertAmount(policy ConversionPolicy, provider RateProvider, amount float64, now time.Time) (float64, error) {
	date := policy.EffectiveDate
	if date.IsZero() {
		date = now
	}

	if policy.UseSystemRate {
		return provider.Convert(amount, policy.SourceCurrencyID, policy.ReportingCurrency, policy.CompanyID, date)
	}

	rate := policy.ExchangeRate
	if rate == 0 {
		rate = 1.0
	}
	return amount * rate, nil
}

// RateTable is the system-wide currency rate table, backed by the
// currency_rates collection. For a conversion it picks the newest rate row
// for the currency pair whose valid-from date is on or before the requested
// date, preferring a company-specific row over a global one.
type RateTable struct {
	app *pocketbase.PocketBase
}

// NewRateTable returns a RateProvider reading from the currency_rates
// collection of the given app.
func NewRateTable(app *pocketbase.PocketBase) *RateTable {
	return &RateTable{app: app}
}

// Convert implements RateProvider. Same-currency conversions return the
// amount unchanged. A missing rate is an error, not a 1.0 fallback: a
// worksheet must not be silently priced with an unconfigured pair.
func (rt *RateTable) Convert(amount float64, fromCurrency, toCurrency, companyID string, date time.Time) (float64, error) {
	if fromCurrency == toCurrency {
		return amount, nil
	}

	rows, err := rt.app.FindRecordsByFilter(
		"currency_rates",
		"from_currency = {:from} && to_currency = {:to} && date <= {:date} && (company = {:company} || company = '')",
		"-date,-company",
		1,
		0,
		map[string]any{
			"from":    fromCurrency,
			"to":      toCurrency,
			"date":    date.UTC().Format("2006-01-02 15:04:05.000Z"),
			"company": companyID,
		},
	)
	if err != nil {
		return 0, fmt.Errorf("rate lookup %s->%s: %w", fromCurrency, toCurrency, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("no exchange rate for %s->%s on or before %s", fromCurrency, toCurrency, date.Format("2006-01-02"))
	}

	return amount * rows[0].GetFloat("rate"), nil
}
