package response

import (
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/domain/pricing"
)

type LineItemResponse struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type QuoteResponse struct {
	ServiceCategory string             `json:"service_category"`
	LineItems       []LineItemResponse `json:"line_items"`
	Subtotal        string             `json:"subtotal"`
	TaxRate         string             `json:"tax_rate"`
	TaxAmount       string             `json:"tax_amount"`
	Total           string             `json:"total"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	items := make([]LineItemResponse, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		items = append(items, LineItemResponse{Label: li.Label, Amount: entities.FormatAmount(li.Amount)})
	}
	return QuoteResponse{
		ServiceCategory: string(q.Category),
		LineItems:       items,
		Subtotal:        entities.FormatAmount(q.Subtotal),
		TaxRate:         q.TaxRate.String(),
		TaxAmount:       entities.FormatAmount(q.TaxAmount),
		Total:           entities.FormatAmount(q.Total),
	}
}

type OptionResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Price string `json:"price"`
}

type CategoryResponse struct {
	ServiceType  string           `json:"service_type"`
	Label        string           `json:"label"`
	Base         string           `json:"base"`
	Minimum      string           `json:"minimum"`
	UnitRate     string           `json:"unit_rate"`
	BathroomRate string           `json:"bathroom_rate,omitempty"`
	AddOns       []OptionResponse `json:"add_ons"`
	Operations   []OptionResponse `json:"operations,omitempty"`
}

type CatalogResponse struct {
	TaxRate    string             `json:"tax_rate"`
	Categories []CategoryResponse `json:"categories"`
}

func FromCatalog(c pricing.Catalog) CatalogResponse {
	out := CatalogResponse{TaxRate: c.TaxRate.String(), Categories: []CategoryResponse{}}
	for _, name := range c.Names() {
		r := c.Categories[name]
		cat := CategoryResponse{
			ServiceType: string(name),
			Label:       r.Label,
			Base:        entities.FormatAmount(r.Base),
			Minimum:     entities.FormatAmount(r.Minimum),
			UnitRate:    entities.FormatAmount(r.UnitRate),
			AddOns:      fromOptions(r.AddOns),
			Operations:  fromOptions(r.Operations),
		}
		if !r.BathroomRate.IsZero() {
			cat.BathroomRate = entities.FormatAmount(r.BathroomRate)
		}
		if len(r.Operations) == 0 {
			cat.Operations = nil
		}
		out.Categories = append(out.Categories, cat)
	}
	return out
}

func fromOptions(opts []pricing.Option) []OptionResponse {
	out := make([]OptionResponse, 0, len(opts))
	for _, o := range opts {
		out = append(out, OptionResponse{ID: o.ID, Label: o.Label, Price: entities.FormatAmount(o.Price)})
	}
	return out
}
