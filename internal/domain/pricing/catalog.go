package pricing

import (
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Option is a priced add-on or key operation.
type Option struct {
	ID    string          `yaml:"id" json:"id"`
	Label string          `yaml:"label" json:"label"`
	Price decimal.Decimal `yaml:"-" json:"price"`
}

// Rates are the per-category figures supplied by the pricing collaborator.
// UnitRate is the room, square-metre, extra-key or item rate depending on
// the category. BathroomRate applies to residential cleaning only.
type Rates struct {
	Label        string          `json:"label"`
	Base         decimal.Decimal `json:"base"`
	Minimum      decimal.Decimal `json:"minimum"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	BathroomRate decimal.Decimal `json:"bathroom_rate,omitempty"`
	AddOns       []Option        `json:"add_ons,omitempty"`
	Operations   []Option        `json:"operations,omitempty"`
}

func (r Rates) addOn(id string) (Option, bool) {
	return findOption(r.AddOns, id)
}

func (r Rates) operation(id string) (Option, bool) {
	return findOption(r.Operations, id)
}

func findOption(opts []Option, id string) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

type Catalog struct {
	TaxRate    decimal.Decimal                    `json:"tax_rate"`
	Categories map[entities.ServiceCategory]Rates `json:"categories"`
}

// Names lists the configured categories in a stable order.
func (c Catalog) Names() []entities.ServiceCategory {
	out := make([]entities.ServiceCategory, 0, len(c.Categories))
	for k := range c.Categories {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c Catalog) Validate() error {
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("catalog: tax_rate %s out of range [0,1)", c.TaxRate)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog: no categories")
	}
	for name, r := range c.Categories {
		for _, d := range []decimal.Decimal{r.Base, r.Minimum, r.UnitRate, r.BathroomRate} {
			if d.IsNegative() {
				return fmt.Errorf("catalog: %s has a negative rate", name)
			}
		}
		seen := map[string]bool{}
		for _, o := range append(append([]Option(nil), r.AddOns...), r.Operations...) {
			if o.ID == "" || seen[o.ID] {
				return fmt.Errorf("catalog: %s option id %q empty or duplicated", name, o.ID)
			}
			if o.Price.IsNegative() {
				return fmt.Errorf("catalog: %s option %s has a negative price", name, o.ID)
			}
			seen[o.ID] = true
		}
	}
	return nil
}

// DefaultCatalog is used when no CATALOG_FILE is configured.
func DefaultCatalog() Catalog {
	d := entities.MustAmount
	return Catalog{
		TaxRate: d("0.20"),
		Categories: map[entities.ServiceCategory]Rates{
			entities.CategoryResidentialCleaning: {
				Label:        "Residential cleaning",
				Base:         d("100"),
				Minimum:      d("100"),
				UnitRate:     d("25"),
				BathroomRate: d("35"),
				AddOns: []Option{
					{ID: "fridge", Label: "Fridge cleaning", Price: d("25")},
					{ID: "oven", Label: "Oven cleaning", Price: d("30")},
					{ID: "windows", Label: "Interior windows", Price: d("40")},
					{ID: "ironing", Label: "Ironing", Price: d("20")},
				},
			},
			entities.CategoryAreaCleaning: {
				Label:    "Area cleaning",
				Base:     decimal.Zero,
				Minimum:  d("50"),
				UnitRate: d("8"),
				AddOns: []Option{
					{ID: "post_construction", Label: "Post-construction debris", Price: d("60")},
					{ID: "deep_clean", Label: "Deep clean", Price: d("45")},
				},
			},
			entities.CategoryKeyService: {
				Label:    "Key service",
				Base:     d("50"),
				Minimum:  d("50"),
				UnitRate: d("5"),
				Operations: []Option{
					{ID: "handover", Label: "Key handover", Price: decimal.Zero},
					{ID: "copy", Label: "Key copy", Price: d("15")},
					{ID: "lock_change", Label: "Lock change", Price: d("60")},
				},
				AddOns: []Option{
					{ID: "urgent", Label: "Same-day service", Price: d("20")},
				},
			},
			entities.CategoryItemService: {
				Label:    "Item service",
				Base:     d("30"),
				Minimum:  d("30"),
				UnitRate: d("20"),
				AddOns: []Option{
					{ID: "assembly", Label: "Assembly", Price: d("15")},
					{ID: "disposal", Label: "Packaging disposal", Price: d("10")},
				},
			},
		},
	}
}

// yamlAmount decodes a YAML scalar through decimal parsing so rates never
// pass through float64.
type yamlAmount struct{ decimal.Decimal }

func (a *yamlAmount) UnmarshalYAML(n *yaml.Node) error {
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	a.Decimal = d
	return nil
}

type yamlOption struct {
	ID    string     `yaml:"id"`
	Label string     `yaml:"label"`
	Price yamlAmount `yaml:"price"`
}

type yamlRates struct {
	Label        string       `yaml:"label"`
	Base         yamlAmount   `yaml:"base"`
	Minimum      yamlAmount   `yaml:"minimum"`
	UnitRate     yamlAmount   `yaml:"unit_rate"`
	BathroomRate yamlAmount   `yaml:"bathroom_rate"`
	AddOns       []yamlOption `yaml:"add_ons"`
	Operations   []yamlOption `yaml:"operations"`
}

type yamlCatalog struct {
	TaxRate    yamlAmount           `yaml:"tax_rate"`
	Categories map[string]yamlRates `yaml:"categories"`
}

func toOptions(in []yamlOption) []Option {
	out := make([]Option, 0, len(in))
	for _, o := range in {
		out = append(out, Option{ID: o.ID, Label: o.Label, Price: o.Price.Decimal})
	}
	return out
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(b []byte) (Catalog, error) {
	var raw yamlCatalog
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Catalog{}, fmt.Errorf("catalog: %w", err)
	}
	c := Catalog{TaxRate: raw.TaxRate.Decimal, Categories: map[entities.ServiceCategory]Rates{}}
	for name, r := range raw.Categories {
		c.Categories[entities.ServiceCategory(name)] = Rates{
			Label:        r.Label,
			Base:         r.Base.Decimal,
			Minimum:      r.Minimum.Decimal,
			UnitRate:     r.UnitRate.Decimal,
			BathroomRate: r.BathroomRate.Decimal,
			AddOns:       toOptions(r.AddOns),
			Operations:   toOptions(r.Operations),
		}
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// LoadCatalog reads path, or returns DefaultCatalog when path is empty.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: %w", err)
	}
	return ParseCatalog(b)
}
