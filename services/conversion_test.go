package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"costsheet/testhelpers"
)

// stubRates implements RateProvider with a fixed rate and records the date
// it was asked for.
type stubRates struct {
	rate      float64
	err       error
	askedDate time.Time
}

func (s *stubRates) Convert(amount float64, fromCurrency, toCurrency, companyID string, date time.Time) (float64, error) {
	s.askedDate = date
	if s.err != nil {
		return 0, s.err
	}
	return amount * s.rate, nil
}

func TestConvertAmount_FixedRate(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		amount float64
		expect float64
	}{
		{"multiplies source to reporting", 2.0, 100, 200},
		{"fractional rate", 1.5, 150, 225},
		{"zero rate treated as 1.0", 0, 80, 80},
		{"zero amount", 2.0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := ConversionPolicy{UseSystemRate: false, ExchangeRate: tt.rate}
			got, err := ConvertAmount(policy, nil, tt.amount, time.Now())
			if err != nil {
				t.Fatalf("ConvertAmount() error = %v", err)
			}
			if math.Abs(got-tt.expect) > 0.001 {
				t.Errorf("ConvertAmount(rate=%v, amount=%v) = %v, want %v",
					tt.rate, tt.amount, got, tt.expect)
			}
		})
	}
}

func TestConvertAmount_SystemRateDelegates(t *testing.T) {
	provider := &stubRates{rate: 120}
	policy := ConversionPolicy{
		UseSystemRate:     true,
		SourceCurrencyID:  "usd",
		ReportingCurrency: "cup",
	}

	got, err := ConvertAmount(policy, provider, 10, time.Now())
	if err != nil {
		t.Fatalf("ConvertAmount() error = %v", err)
	}
	if math.Abs(got-1200) > 0.001 {
		t.Errorf("ConvertAmount() = %v, want 1200", got)
	}
}

func TestConvertAmount_ProviderErrorPropagates(t *testing.T) {
	wantErr := errors.New("no rate")
	provider := &stubRates{err: wantErr}
	policy := ConversionPolicy{UseSystemRate: true}

	_, err := ConvertAmount(policy, provider, 10, time.Now())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected provider error to propagate, got %v", err)
	}
}

func TestConvertAmount_EffectiveDateWinsOverNow(t *testing.T) {
	provider := &stubRates{rate: 1}
	frozen := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	policy := ConversionPolicy{UseSystemRate: true, EffectiveDate: frozen}

	if _, err := ConvertAmount(policy, provider, 1, time.Now()); err != nil {
		t.Fatalf("ConvertAmount() error = %v", err)
	}
	if !provider.askedDate.Equal(frozen) {
		t.Errorf("provider asked for %v, want frozen date %v", provider.askedDate, frozen)
	}
}

func TestRateTable_PicksNewestRateOnOrBeforeDate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	usd := testhelpers.CreateTestCurrency(t, app, "USD", "$", 2)
	company := testhelpers.CreateTestCompany(t, app, "Test Co", cup.Id)
	testhelpers.CreateTestRate(t, app, usd.Id, cup.Id, company.Id, 120, "2025-01-01")
	testhelpers.CreateTestRate(t, app, usd.Id, cup.Id, company.Id, 125, "2025-06-01")

	rt := NewRateTable(app)

	// A date between the two rows resolves to the January rate.
	march := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	got, err := rt.Convert(10, usd.Id, cup.Id, company.Id, march)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if math.Abs(got-1200) > 0.001 {
		t.Errorf("Convert() in March = %v, want 1200", got)
	}

	// After June the newer rate applies.
	july := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	got, err = rt.Convert(10, usd.Id, cup.Id, company.Id, july)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if math.Abs(got-1250) > 0.001 {
		t.Errorf("Convert() in July = %v, want 1250", got)
	}
}

func TestRateTable_SameCurrencyIsIdentity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)

	rt := NewRateTable(app)
	got, err := rt.Convert(42.5, cup.Id, cup.Id, "", time.Now())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != 42.5 {
		t.Errorf("Convert() = %v, want 42.5", got)
	}
}

func TestRateTable_MissingRateIsError(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	eur := testhelpers.CreateTestCurrency(t, app, "EUR", "€", 2)

	rt := NewRateTable(app)
	if _, err := rt.Convert(10, eur.Id, cup.Id, "", time.Now()); err == nil {
		t.Error("expected error for unconfigured currency pair, got nil")
	}
}

func TestRateTable_RateDatedAfterRequestIsInvisible(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cup := testhelpers.CreateTestCurrency(t, app, "CUP", "$", 2)
	usd := testhelpers.CreateTestCurrency(t, app, "USD", "$", 2)
	company := testhelpers.CreateTestCompany(t, app, "Test Co", cup.Id)
	testhelpers.CreateTestRate(t, app, usd.Id, cup.Id, company.Id, 120, "2025-06-01")

	rt := NewRateTable(app)
	before := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if _, err := rt.Convert(10, usd.Id, cup.Id, company.Id, before); err == nil {
		t.Error("expected error when the only rate is dated after the request")
	}
}
