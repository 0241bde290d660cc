package commands

import (
	"marketplace_escrow/internal/adapter/http/dto/response"
	"marketplace_escrow/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func quoteCmd() *cobra.Command {
	var (
		p            pricing.Params
		squareMeters string
		rooms        int
		bathrooms    int
		items        int
		extraKeys    int
		catalogFile  string
	)
	cmd := &cobra.Command{
		Use:   "quote --service-type <category>",
		Short: "Price a service offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := catalogFile
			if path == "" {
				path = cfg.CatalogFile
			}
			catalog, err := pricing.LoadCatalog(path)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("square-meters") {
				m, err := decimal.NewFromString(squareMeters)
				if err != nil {
					return err
				}
				p.SquareMeters = &m
			}
			if flags.Changed("rooms") {
				p.Rooms = &rooms
			}
			if flags.Changed("bathrooms") {
				p.Bathrooms = &bathrooms
			}
			if flags.Changed("items") {
				p.Items = &items
			}
			if flags.Changed("extra-keys") {
				p.ExtraKeys = &extraKeys
			}

			in, err := pricing.InputFromParams(p)
			if err != nil {
				return err
			}
			q, err := pricing.NewEngine(catalog).ComputeQuote(in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), response.FromQuote(q))
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Category, "service-type", "", "residential_cleaning, area_cleaning, key_service or item_service")
	f.StringVar(&squareMeters, "square-meters", "", "area in square meters")
	f.IntVar(&rooms, "rooms", 0, "number of rooms")
	f.IntVar(&bathrooms, "bathrooms", 0, "number of bathrooms")
	f.IntVar(&items, "items", 0, "number of items")
	f.IntVar(&extraKeys, "extra-keys", 0, "keys beyond the first")
	f.StringVar(&p.KeyOperation, "key-operation", "", "key service operation")
	f.StringSliceVar(&p.AddOns, "add-on", nil, "add-on id (repeatable)")
	f.StringVar(&catalogFile, "catalog", "", "catalog YAML file (default CATALOG_FILE or the built-in catalog)")
	_ = cmd.MarkFlagRequired("service-type")
	return cmd
}
