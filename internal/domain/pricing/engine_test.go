package pricing

import (
	"marketplace_escrow/internal/domain/entities"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func decp(s string) *decimal.Decimal {
	d := entities.MustAmount(s)
	return &d
}

func assertQuote(t *testing.T, q entities.Quote, subtotal, tax, total string) {
	t.Helper()
	assert.Equal(t, subtotal, entities.FormatAmount(q.Subtotal), "subtotal")
	assert.Equal(t, tax, entities.FormatAmount(q.TaxAmount), "tax")
	assert.Equal(t, total, entities.FormatAmount(q.Total), "total")
	assert.True(t, q.Valid(), "quote invariants")
}

func TestEngine_Scenarios(t *testing.T) {
	e := NewEngine(DefaultCatalog())

	t.Run("residential cleaning", func(t *testing.T) {
		q, err := e.ComputeQuote(ResidentialCleaningInput{Rooms: intp(4), Bathrooms: intp(2), AddOns: []string{"fridge"}})
		require.NoError(t, err)
		assertQuote(t, q, "295.00", "59.00", "354.00")
		require.Len(t, q.LineItems, 4)
		assert.Equal(t, "Base fee", q.LineItems[0].Label)
		assert.Equal(t, "Fridge cleaning", q.LineItems[3].Label)
	})

	t.Run("area cleaning above floor", func(t *testing.T) {
		q, err := e.ComputeQuote(AreaCleaningInput{SquareMeters: decp("80")})
		require.NoError(t, err)
		assertQuote(t, q, "640.00", "128.00", "768.00")
		require.Len(t, q.LineItems, 1)
	})

	t.Run("area cleaning below floor", func(t *testing.T) {
		q, err := e.ComputeQuote(AreaCleaningInput{SquareMeters: decp("3.5")})
		require.NoError(t, err)
		assertQuote(t, q, "50.00", "10.00", "60.00")
		last := q.LineItems[len(q.LineItems)-1]
		assert.Equal(t, minimumAdjustmentLabel, last.Label)
		assert.Equal(t, "22.00", entities.FormatAmount(last.Amount))
	})

	t.Run("key service base only", func(t *testing.T) {
		q, err := e.ComputeQuote(KeyServiceInput{Operation: "handover"})
		require.NoError(t, err)
		assertQuote(t, q, "50.00", "10.00", "60.00")
	})

	t.Run("item service", func(t *testing.T) {
		q, err := e.ComputeQuote(ItemServiceInput{Items: intp(3), AddOns: []string{"assembly"}})
		require.NoError(t, err)
		assertQuote(t, q, "105.00", "21.00", "126.00")
	})

	t.Run("fractional area rounds at subtotal", func(t *testing.T) {
		q, err := e.ComputeQuote(AreaCleaningInput{SquareMeters: decp("12.3456")})
		require.NoError(t, err)
		assert.Equal(t, "98.7648", q.LineItems[0].Amount.String())
		assertQuote(t, q, "98.76", "19.75", "118.51")
	})
}

func TestEngine_Validation(t *testing.T) {
	e := NewEngine(DefaultCatalog())

	cases := []struct {
		name  string
		in    QuoteInput
		field string
	}{
		{"nil input", nil, "service_type"},
		{"missing rooms", ResidentialCleaningInput{}, "number_of_rooms"},
		{"zero rooms", ResidentialCleaningInput{Rooms: intp(0)}, "number_of_rooms"},
		{"negative bathrooms", ResidentialCleaningInput{Rooms: intp(1), Bathrooms: intp(-1)}, "number_of_bathrooms"},
		{"missing area", AreaCleaningInput{}, "square_meters"},
		{"negative area", AreaCleaningInput{SquareMeters: decp("-1")}, "square_meters"},
		{"missing operation", KeyServiceInput{}, "key_operation"},
		{"unknown operation", KeyServiceInput{Operation: "pick_lock"}, "key_operation"},
		{"negative keys", KeyServiceInput{Operation: "copy", ExtraKeys: intp(-2)}, "number_of_keys"},
		{"missing items", ItemServiceInput{}, "number_of_items"},
		{"unknown add-on", ItemServiceInput{Items: intp(1), AddOns: []string{"oven"}}, "add_ons"},
		{"duplicate add-on", ResidentialCleaningInput{Rooms: intp(1), AddOns: []string{"oven", "oven"}}, "add_ons"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.ComputeQuote(tc.in)
			var ve *entities.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	t.Run("category missing from catalog", func(t *testing.T) {
		c := DefaultCatalog()
		delete(c.Categories, entities.CategoryItemService)
		_, err := NewEngine(c).ComputeQuote(ItemServiceInput{Items: intp(1)})
		assert.ErrorIs(t, err, entities.ErrValidation)
	})
}

func TestEngine_Deterministic(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	in := ResidentialCleaningInput{Rooms: intp(3), Bathrooms: intp(1), AddOns: []string{"windows", "oven"}}
	first, err := e.ComputeQuote(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := e.ComputeQuote(in)
			assert.NoError(t, err)
			assert.Equal(t, first, q)
		}()
	}
	wg.Wait()
}

func TestInputFromParams(t *testing.T) {
	in, err := InputFromParams(Params{Category: "key_service", KeyOperation: "copy", ExtraKeys: intp(2)})
	require.NoError(t, err)
	assert.Equal(t, KeyServiceInput{Operation: "copy", ExtraKeys: intp(2)}, in)

	_, err = InputFromParams(Params{Category: "gardening"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = InputFromParams(Params{})
	assert.ErrorIs(t, err, entities.ErrValidation)
}
