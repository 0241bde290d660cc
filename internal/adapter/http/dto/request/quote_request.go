package request

import (
	"marketplace_escrow/internal/domain/pricing"
	"strings"

	"github.com/shopspring/decimal"
)

// QuoteRequest is the flat quote form. Only the fields of the chosen
// service_type are read.
type QuoteRequest struct {
	ServiceType       string           `json:"service_type" binding:"required"`
	SquareMeters      *decimal.Decimal `json:"square_meters,omitempty" swaggertype:"string"`
	NumberOfRooms     *int             `json:"number_of_rooms,omitempty"`
	NumberOfBathrooms *int             `json:"number_of_bathrooms,omitempty"`
	NumberOfItems     *int             `json:"number_of_items,omitempty"`
	ExtraKeys         *int             `json:"extra_keys,omitempty"`
	KeyOperation      string           `json:"key_operation,omitempty"`
	AddOns            []string         `json:"add_ons,omitempty"`
}

func (r QuoteRequest) ToInput() (pricing.QuoteInput, error) {
	addOns := make([]string, 0, len(r.AddOns))
	for _, a := range r.AddOns {
		if a = strings.TrimSpace(a); a != "" {
			addOns = append(addOns, a)
		}
	}
	return pricing.InputFromParams(pricing.Params{
		Category:     strings.TrimSpace(r.ServiceType),
		SquareMeters: r.SquareMeters,
		Rooms:        r.NumberOfRooms,
		Bathrooms:    r.NumberOfBathrooms,
		Items:        r.NumberOfItems,
		ExtraKeys:    r.ExtraKeys,
		KeyOperation: strings.TrimSpace(r.KeyOperation),
		AddOns:       addOns,
	})
}
