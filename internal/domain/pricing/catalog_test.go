package pricing

import (
	"marketplace_escrow/internal/domain/entities"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
tax_rate: 0.15
categories:
  area_cleaning:
    label: Area cleaning
    base: 10
    minimum: 40
    unit_rate: "7.5"
    add_ons:
      - id: deep_clean
        label: Deep clean
        price: 12.25
  key_service:
    label: Keys
    base: 50
    unit_rate: 5
    operations:
      - id: copy
        label: Key copy
        price: 15
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)
	assert.Equal(t, "0.15", c.TaxRate.String())
	assert.Equal(t, []entities.ServiceCategory{entities.CategoryAreaCleaning, entities.CategoryKeyService}, c.Names())

	area := c.Categories[entities.CategoryAreaCleaning]
	assert.Equal(t, "7.5", area.UnitRate.String())
	require.Len(t, area.AddOns, 1)
	assert.Equal(t, "12.25", area.AddOns[0].Price.String())

	q, err := NewEngine(c).ComputeQuote(AreaCleaningInput{SquareMeters: decp("10"), AddOns: []string{"deep_clean"}})
	require.NoError(t, err)
	assert.Equal(t, "97.25", entities.FormatAmount(q.Subtotal))
	assert.Equal(t, "14.59", entities.FormatAmount(q.TaxAmount))
	assert.Equal(t, "111.84", entities.FormatAmount(q.Total))
}

func TestParseCatalog_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"bad number":    "tax_rate: abc\ncategories: {}\n",
		"tax too high":  "tax_rate: 1.5\ncategories:\n  item_service: {base: 1}\n",
		"empty":         "tax_rate: 0.2\n",
		"negative rate": "tax_rate: 0.2\ncategories:\n  item_service: {base: -1}\n",
		"duplicate option": `tax_rate: 0.2
categories:
  item_service:
    base: 1
    add_ons:
      - {id: a, label: A, price: 1}
      - {id: a, label: B, price: 2}
`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.NoError(t, c.Validate())
	assert.Len(t, c.Names(), 4)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))
	c, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Names(), 2)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
