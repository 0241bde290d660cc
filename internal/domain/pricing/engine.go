// Package pricing turns per-category service parameters into quotes. It has
// no state beyond the catalog it was built with and is safe for concurrent use.
package pricing

import (
	"fmt"
	"marketplace_escrow/internal/domain/entities"

	"github.com/shopspring/decimal"
)

const minimumAdjustmentLabel = "Minimum charge adjustment"

type Engine struct {
	catalog Catalog
}

func NewEngine(c Catalog) *Engine {
	return &Engine{catalog: c}
}

func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// ComputeQuote prices in. Line items keep full precision; only the subtotal,
// tax and total are rounded.
func (e *Engine) ComputeQuote(in QuoteInput) (entities.Quote, error) {
	if in == nil {
		return entities.Quote{}, entities.NewValidationError("service_type", "required")
	}
	rates, ok := e.catalog.Categories[in.Category()]
	if !ok {
		return entities.Quote{}, entities.NewValidationError("service_type", "unknown category "+string(in.Category()))
	}

	items := lineItems{}
	items.add("Base fee", rates.Base)

	switch v := in.(type) {
	case ResidentialCleaningInput:
		rooms, err := requirePositive("number_of_rooms", v.Rooms)
		if err != nil {
			return entities.Quote{}, err
		}
		items.add(unitLabel("Rooms", rooms, rates.UnitRate), rates.UnitRate.Mul(decimal.NewFromInt(rooms)))
		if v.Bathrooms != nil {
			if *v.Bathrooms < 0 {
				return entities.Quote{}, entities.NewValidationError("number_of_bathrooms", "must not be negative")
			}
			n := int64(*v.Bathrooms)
			items.add(unitLabel("Bathrooms", n, rates.BathroomRate), rates.BathroomRate.Mul(decimal.NewFromInt(n)))
		}
	case AreaCleaningInput:
		if v.SquareMeters == nil {
			return entities.Quote{}, entities.NewValidationError("square_meters", "required")
		}
		if !v.SquareMeters.IsPositive() {
			return entities.Quote{}, entities.NewValidationError("square_meters", "must be greater than zero")
		}
		items.add(fmt.Sprintf("Area (%s m² x %s)", v.SquareMeters.String(), entities.FormatAmount(rates.UnitRate)),
			rates.UnitRate.Mul(*v.SquareMeters))
	case KeyServiceInput:
		if v.Operation == "" {
			return entities.Quote{}, entities.NewValidationError("key_operation", "required")
		}
		op, ok := rates.operation(v.Operation)
		if !ok {
			return entities.Quote{}, entities.NewValidationError("key_operation", fmt.Sprintf("unknown operation %q for %s", v.Operation, in.Category()))
		}
		items.add(op.Label, op.Price)
		if v.ExtraKeys != nil {
			if *v.ExtraKeys < 0 {
				return entities.Quote{}, entities.NewValidationError("number_of_keys", "must not be negative")
			}
			n := int64(*v.ExtraKeys)
			items.add(unitLabel("Extra keys", n, rates.UnitRate), rates.UnitRate.Mul(decimal.NewFromInt(n)))
		}
	case ItemServiceInput:
		n, err := requirePositive("number_of_items", v.Items)
		if err != nil {
			return entities.Quote{}, err
		}
		items.add(unitLabel("Items", n, rates.UnitRate), rates.UnitRate.Mul(decimal.NewFromInt(n)))
	default:
		return entities.Quote{}, entities.NewValidationError("service_type", "unsupported input")
	}

	seen := map[string]bool{}
	for _, id := range in.addOnIDs() {
		if seen[id] {
			return entities.Quote{}, entities.NewValidationError("add_ons", fmt.Sprintf("duplicate add-on %q", id))
		}
		seen[id] = true
		opt, ok := rates.addOn(id)
		if !ok {
			return entities.Quote{}, entities.NewValidationError("add_ons", fmt.Sprintf("unknown add-on %q for %s", id, in.Category()))
		}
		items.add(opt.Label, opt.Price)
	}

	if sum := items.sum(); sum.LessThan(rates.Minimum) {
		items.add(minimumAdjustmentLabel, rates.Minimum.Sub(sum))
	}
	if len(items) == 0 {
		return entities.Quote{}, entities.NewValidationError("service_type", "category prices to zero")
	}

	subtotal := entities.Round2(items.sum())
	return entities.Quote{
		Category:  in.Category(),
		LineItems: items,
		Subtotal:  subtotal,
		TaxRate:   e.catalog.TaxRate,
		TaxAmount: entities.Round2(subtotal.Mul(e.catalog.TaxRate)),
		Total:     entities.Round2(subtotal.Mul(decimal.NewFromInt(1).Add(e.catalog.TaxRate))),
	}, nil
}

type lineItems []entities.LineItem

// add drops zero-amount components.
func (l *lineItems) add(label string, amount decimal.Decimal) {
	if amount.IsZero() {
		return
	}
	*l = append(*l, entities.LineItem{Label: label, Amount: amount})
}

func (l lineItems) sum() decimal.Decimal {
	s := decimal.Zero
	for _, li := range l {
		s = s.Add(li.Amount)
	}
	return s
}

func requirePositive(field string, v *int) (int64, error) {
	if v == nil {
		return 0, entities.NewValidationError(field, "required")
	}
	if *v <= 0 {
		return 0, entities.NewValidationError(field, "must be greater than zero")
	}
	return int64(*v), nil
}

func unitLabel(what string, n int64, rate decimal.Decimal) string {
	return fmt.Sprintf("%s (%d x %s)", what, n, entities.FormatAmount(rate))
}
