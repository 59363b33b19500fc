package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type currencyDef struct {
	code          string
	name          string
	symbol        string
	decimalPlaces int
}

type rateDef struct {
	from string // currency code
	to   string
	rate float64
	date string // YYYY-MM-DD
}

type taxDef struct {
	name         string
	amountType   string
	amount       float64
	priceInclude bool
	sequence     int
}

type componentDef struct {
	description  string
	category     string
	amountSource float64
	sequence     int
	account      string // account name, resolved at insert time
	partner      string // partner name
	purchaseRef  string
	stockMoveRef string
}

type sheetDef struct {
	reference      string
	product        string // product name
	sourceCurrency string // currency code
	useSystemRate  bool
	exchangeRate   float64
	marginType     string
	marginValue    float64
	taxes          []string // tax names
	quantity       float64
	notes          string
	components     []componentDef
}

// Seed inserts a demo dataset: currencies, rates, taxes and two worksheets
// exercising both conversion modes. It is a no-op once any sheet exists.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if sheets already exist ────────────────────
	sheetsCol, err := app.FindCollectionByNameOrId("cost_sheets")
	if err != nil {
		return fmt.Errorf("seed: could not find cost_sheets collection: %w", err)
	}
	existing, err := app.FindAllRecords(sheetsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query cost_sheets: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: cost_sheets collection is empty – inserting seed data …")

	// ── lookup helper collections ────────────────────────────────────
	currenciesCol, err := app.FindCollectionByNameOrId("currencies")
	if err != nil {
		return fmt.Errorf("seed: could not find currencies collection: %w", err)
	}
	companiesCol, err := app.FindCollectionByNameOrId("companies")
	if err != nil {
		return fmt.Errorf("seed: could not find companies collection: %w", err)
	}
	ratesCol, err := app.FindCollectionByNameOrId("currency_rates")
	if err != nil {
		return fmt.Errorf("seed: could not find currency_rates collection: %w", err)
	}
	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return fmt.Errorf("seed: could not find products collection: %w", err)
	}
	partnersCol, err := app.FindCollectionByNameOrId("partners")
	if err != nil {
		return fmt.Errorf("seed: could not find partners collection: %w", err)
	}
	accountsCol, err := app.FindCollectionByNameOrId("accounts")
	if err != nil {
		return fmt.Errorf("seed: could not find accounts collection: %w", err)
	}
	taxesCol, err := app.FindCollectionByNameOrId("taxes")
	if err != nil {
		return fmt.Errorf("seed: could not find taxes collection: %w", err)
	}
	componentsCol, err := app.FindCollectionByNameOrId("cost_components")
	if err != nil {
		return fmt.Errorf("seed: could not find cost_components collection: %w", err)
	}

	// ── currencies ───────────────────────────────────────────────────
	currencyDefs := []currencyDef{
		{"CUP", "Peso cubano", "$", 2},
		{"MLC", "Moneda libremente convertible", "MLC", 2},
		{"USD", "US Dollar", "$", 2},
		{"EUR", "Euro", "€", 2},
	}
	currencyIDs := map[string]string{}
	for _, d := range currencyDefs {
		r := core.NewRecord(currenciesCol)
		r.Set("code", d.code)
		r.Set("name", d.name)
		r.Set("symbol", d.symbol)
		r.Set("decimal_places", d.decimalPlaces)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: currency %s: %w", d.code, err)
		}
		currencyIDs[d.code] = r.Id
	}

	// ── company (reporting currency CUP) ─────────────────────────────
	company := core.NewRecord(companiesCol)
	company.Set("name", "Comercializadora Caribe SA")
	company.Set("currency", currencyIDs["CUP"])
	if err := app.Save(company); err != nil {
		return fmt.Errorf("seed: company: %w", err)
	}

	// ── dated rates into the reporting currency ──────────────────────
	rateDefs := []rateDef{
		{"MLC", "CUP", 240.0, "2025-01-01"},
		{"MLC", "CUP", 265.0, "2025-06-01"},
		{"USD", "CUP", 120.0, "2025-01-01"},
		{"USD", "CUP", 125.0, "2025-06-01"},
		{"EUR", "CUP", 132.5, "2025-06-01"},
	}
	for _, d := range rateDefs {
		r := core.NewRecord(ratesCol)
		r.Set("from_currency", currencyIDs[d.from])
		r.Set("to_currency", currencyIDs[d.to])
		r.Set("company", company.Id)
		r.Set("rate", d.rate)
		r.Set("date", d.date+" 00:00:00.000Z")
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: rate %s->%s: %w", d.from, d.to, err)
		}
	}

	// ── taxes ────────────────────────────────────────────────────────
	taxDefs := []taxDef{
		{"IVA 10%", "percent", 10.0, false, 10},
		{"Impuesto sobre ventas 5% (incluido)", "percent", 5.0, true, 20},
		{"Contribución fija 2.50", "fixed", 2.5, false, 30},
	}
	taxIDs := map[string]string{}
	for _, d := range taxDefs {
		r := core.NewRecord(taxesCol)
		r.Set("name", d.name)
		r.Set("amount_type", d.amountType)
		r.Set("amount", d.amount)
		r.Set("price_include", d.priceInclude)
		r.Set("sequence", d.sequence)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: tax %s: %w", d.name, err)
		}
		taxIDs[d.name] = r.Id
	}

	// ── products, partners, accounts ─────────────────────────────────
	productIDs := map[string]string{}
	for _, name := range []string{"Silla de oficina", "Mesa plegable"} {
		r := core.NewRecord(productsCol)
		r.Set("name", name)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: product %s: %w", name, err)
		}
		productIDs[name] = r.Id
	}

	partnerIDs := map[string]string{}
	for _, name := range []string{"Proveedor Insumos SA", "Taller Metalúrgico Habana"} {
		r := core.NewRecord(partnersCol)
		r.Set("name", name)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: partner %s: %w", name, err)
		}
		partnerIDs[name] = r.Id
	}

	accountIDs := map[string]string{}
	accountDefs := [][2]string{
		{"5001", "Materias primas"},
		{"5002", "Mano de obra directa"},
		{"5003", "Gastos indirectos de producción"},
	}
	for _, d := range accountDefs {
		r := core.NewRecord(accountsCol)
		r.Set("code", d[0])
		r.Set("name", d[1])
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: account %s: %w", d[0], err)
		}
		accountIDs[d[1]] = r.Id
	}

	// ── worksheets ───────────────────────────────────────────────────
	sheetDefs := []sheetDef{
		{
			reference:      "CPS-2025-0001",
			product:        "Silla de oficina",
			sourceCurrency: "MLC",
			useSystemRate:  true,
			marginType:     "percent",
			marginValue:    15,
			taxes:          []string{"IVA 10%"},
			quantity:       10,
			notes:          "Lote inicial, costos en MLC convertidos a la tasa vigente.",
			components: []componentDef{
				{"Madera y herrajes", "material", 100, 10, "Materias primas", "Proveedor Insumos SA", "PO-00045", ""},
				{"Ensamblaje y acabado", "labor", 50, 20, "Mano de obra directa", "Taller Metalúrgico Habana", "", ""},
				{"Electricidad y depreciación", "overhead", 20, 30, "Gastos indirectos de producción", "", "", ""},
			},
		},
		{
			reference:      "CPS-2025-0002",
			product:        "Mesa plegable",
			sourceCurrency: "USD",
			useSystemRate:  false,
			exchangeRate:   1.5,
			marginType:     "absolute",
			marginValue:    30,
			taxes:          []string{"Impuesto sobre ventas 5% (incluido)", "Contribución fija 2.50"},
			quantity:       1,
			notes:          "Tasa pactada fija con el proveedor.",
			components: []componentDef{
				{"Tablero laminado", "material", 80, 10, "Materias primas", "Proveedor Insumos SA", "PO-00051", "WH/OUT/0012"},
				{"Corte y montaje", "labor", 40, 20, "Mano de obra directa", "", "", ""},
			},
		},
	}

	for _, d := range sheetDefs {
		sheet := core.NewRecord(sheetsCol)
		sheet.Set("reference", d.reference)
		sheet.Set("product", productIDs[d.product])
		sheet.Set("company", company.Id)
		sheet.Set("currency", currencyIDs["CUP"])
		sheet.Set("source_currency", currencyIDs[d.sourceCurrency])
		sheet.Set("use_system_rate", d.useSystemRate)
		sheet.Set("exchange_rate", d.exchangeRate)
		sheet.Set("margin_type", d.marginType)
		sheet.Set("margin_value", d.marginValue)
		taxes := make([]string, 0, len(d.taxes))
		for _, name := range d.taxes {
			taxes = append(taxes, taxIDs[name])
		}
		sheet.Set("taxes", taxes)
		sheet.Set("quantity", d.quantity)
		sheet.Set("state", "draft")
		sheet.Set("version", 1)
		sheet.Set("notes", d.notes)
		if err := app.Save(sheet); err != nil {
			return fmt.Errorf("seed: sheet %s: %w", d.reference, err)
		}

		for _, c := range d.components {
			r := core.NewRecord(componentsCol)
			r.Set("sheet", sheet.Id)
			r.Set("description", c.description)
			r.Set("category", c.category)
			r.Set("amount_source", c.amountSource)
			r.Set("sequence", c.sequence)
			r.Set("account", accountIDs[c.account])
			r.Set("partner", partnerIDs[c.partner])
			r.Set("purchase_ref", c.purchaseRef)
			r.Set("stock_move_ref", c.stockMoveRef)
			if err := app.Save(r); err != nil {
				return fmt.Errorf("seed: sheet %s component %s: %w", d.reference, c.description, err)
			}
		}
	}

	log.Println("seed: done")
	return nil
}
