package pricing

import (
	"marketplace_escrow/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// QuoteInput is one of the per-category parameter sets below. Each carries
// only the fields its category prices.
type QuoteInput interface {
	Category() entities.ServiceCategory
	addOnIDs() []string
}

type ResidentialCleaningInput struct {
	Rooms     *int
	Bathrooms *int
	AddOns    []string
}

type AreaCleaningInput struct {
	SquareMeters *decimal.Decimal
	AddOns       []string
}

type KeyServiceInput struct {
	Operation string
	// Keys beyond the first, charged at the unit rate.
	ExtraKeys *int
	AddOns    []string
}

type ItemServiceInput struct {
	Items  *int
	AddOns []string
}

func (ResidentialCleaningInput) Category() entities.ServiceCategory {
	return entities.CategoryResidentialCleaning
}
func (AreaCleaningInput) Category() entities.ServiceCategory { return entities.CategoryAreaCleaning }
func (KeyServiceInput) Category() entities.ServiceCategory   { return entities.CategoryKeyService }
func (ItemServiceInput) Category() entities.ServiceCategory  { return entities.CategoryItemService }

func (i ResidentialCleaningInput) addOnIDs() []string { return i.AddOns }
func (i AreaCleaningInput) addOnIDs() []string        { return i.AddOns }
func (i KeyServiceInput) addOnIDs() []string          { return i.AddOns }
func (i ItemServiceInput) addOnIDs() []string         { return i.AddOns }

// Params is the flat form shape used by the HTTP and CLI surfaces.
type Params struct {
	Category     string
	SquareMeters *decimal.Decimal
	Rooms        *int
	Bathrooms    *int
	Items        *int
	ExtraKeys    *int
	KeyOperation string
	AddOns       []string
}

// InputFromParams picks the variant for p.Category. Fields foreign to the
// category are ignored.
func InputFromParams(p Params) (QuoteInput, error) {
	switch entities.ServiceCategory(p.Category) {
	case entities.CategoryResidentialCleaning:
		return ResidentialCleaningInput{Rooms: p.Rooms, Bathrooms: p.Bathrooms, AddOns: p.AddOns}, nil
	case entities.CategoryAreaCleaning:
		return AreaCleaningInput{SquareMeters: p.SquareMeters, AddOns: p.AddOns}, nil
	case entities.CategoryKeyService:
		return KeyServiceInput{Operation: p.KeyOperation, ExtraKeys: p.ExtraKeys, AddOns: p.AddOns}, nil
	case entities.CategoryItemService:
		return ItemServiceInput{Items: p.Items, AddOns: p.AddOns}, nil
	case "":
		return nil, entities.NewValidationError("service_type", "required")
	}
	return nil, entities.NewValidationError("service_type", "unknown category "+p.Category)
}
