package collections

import (
	"errors"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ErrNegativeAmount is returned when a component write carries a negative
// source amount. The save is aborted and no totals are touched.
var ErrNegativeAmount = errors.New("amount_source cannot be negative")

// RegisterValidations binds data-layer validation hooks. Rejecting negative
// source amounts here, rather than only in the HTTP layer, means direct
// record writes are covered too.
func RegisterValidations(app *pocketbase.PocketBase) {
	check := func(e *core.RecordEvent) error {
		if e.Record.GetFloat("amount_source") < 0 {
			return ErrNegativeAmount
		}
		return e.Next()
	}

	app.OnRecordCreate("cost_components").BindFunc(check)
	app.OnRecordUpdate("cost_components").BindFunc(check)
}
