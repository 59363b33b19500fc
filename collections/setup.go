package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all collections used by the
// cost-price worksheet app: reference data (companies, currencies, rates,
// products, partners, accounts, taxes) and the worksheet pair
// (cost_sheets + cost_components).
func Setup(app *pocketbase.PocketBase) {
	currencies := ensureCollection(app, "currencies", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "symbol"})
		c.Fields.Add(&core.NumberField{Name: "decimal_places", OnlyInt: true})
	})

	companies := ensureCollection(app, "companies", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "currency",
			Required:     true,
			CollectionId: currencies.Id,
			MaxSelect:    1,
		})
	})

	ensureCollection(app, "currency_rates", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "from_currency",
			Required:     true,
			CollectionId: currencies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "to_currency",
			Required:     true,
			CollectionId: currencies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "company",
			CollectionId: companies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: true})
		c.Fields.Add(&core.DateField{Name: "date", Required: true})
	})

	products := ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "default_code"})
		c.Fields.Add(&core.TextField{Name: "uom"})
	})

	partners := ensureCollection(app, "partners", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "kind",
			Values:    []string{"supplier", "worker", "other"},
			MaxSelect: 1,
		})
	})

	accounts := ensureCollection(app, "accounts", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
	})

	taxes := ensureCollection(app, "taxes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "amount_type",
			Required:  true,
			Values:    []string{"percent", "fixed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.BoolField{Name: "price_include"})
		c.Fields.Add(&core.NumberField{Name: "sequence", OnlyInt: true})
	})

	sheets := ensureCollection(app, "cost_sheets", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "reference", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "product",
			Required:     true,
			CollectionId: products.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "company",
			CollectionId: companies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "currency",
			Required:     true,
			CollectionId: currencies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "source_currency",
			Required:     true,
			CollectionId: currencies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.BoolField{Name: "use_system_rate"})
		c.Fields.Add(&core.NumberField{Name: "exchange_rate"})

		// Derived cost fields, written only by the recompute chain.
		c.Fields.Add(&core.NumberField{Name: "material_cost"})
		c.Fields.Add(&core.NumberField{Name: "labor_cost"})
		c.Fields.Add(&core.NumberField{Name: "overhead_cost"})
		c.Fields.Add(&core.NumberField{Name: "other_cost"})
		c.Fields.Add(&core.NumberField{Name: "total_cost"})

		c.Fields.Add(&core.SelectField{
			Name:      "margin_type",
			Required:  true,
			Values:    []string{"percent", "absolute"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "margin_value"})
		c.Fields.Add(&core.RelationField{
			Name:         "taxes",
			CollectionId: taxes.Id,
			MaxSelect:    99,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity"})

		// Derived pricing fields.
		c.Fields.Add(&core.NumberField{Name: "price_subtotal"})
		c.Fields.Add(&core.NumberField{Name: "total_tax"})
		c.Fields.Add(&core.NumberField{Name: "price_total"})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})

		c.Fields.Add(&core.SelectField{
			Name:      "state",
			Required:  true,
			Values:    []string{"draft", "review", "approved", "archived"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "version", OnlyInt: true})
		c.Fields.Add(&core.DateField{Name: "effective_date"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "cost_components", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "sheet",
			Required:      true,
			CollectionId:  sheets.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"material", "labor", "overhead", "other"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount_source"})
		c.Fields.Add(&core.NumberField{Name: "amount_converted"})
		c.Fields.Add(&core.NumberField{Name: "sequence", OnlyInt: true})

		// Traceability only; never read by any computation.
		c.Fields.Add(&core.RelationField{
			Name:         "account",
			CollectionId: accounts.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "partner",
			CollectionId: partners.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "purchase_ref"})
		c.Fields.Add(&core.TextField{Name: "stock_move_ref"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
