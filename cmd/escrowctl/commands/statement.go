package commands

import (
	"marketplace_escrow/internal/adapter/http/dto/response"
	"marketplace_escrow/internal/app"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"time"

	"github.com/spf13/cobra"
)

func statementCmd() *cobra.Command {
	var (
		account  string
		from, to string
		kinds    []string
	)
	cmd := &cobra.Command{
		Use:   "statement --account <id>",
		Short: "Print an account's statement rows as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := interfaces.TransactionFilter{}
			for _, k := range kinds {
				filter.Kinds = append(filter.Kinds, entities.TxKind(k))
			}
			var err error
			if filter.From, err = parseDay(from, false); err != nil {
				return err
			}
			if filter.To, err = parseDay(to, true); err != nil {
				return err
			}
			return withWire(cmd, func(w *app.Wire) error {
				rows, err := w.Ledger.Statement(cmd.Context(), account, filter)
				if err != nil {
					return err
				}
				return response.WriteStatementCSV(cmd.OutOrStdout(), rows)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&account, "account", "", "wallet account id")
	f.StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "last day (YYYY-MM-DD), inclusive")
	f.StringSliceVar(&kinds, "kind", nil, "transaction kind filter (repeatable)")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

// parseDay reads a DateOnly bound; an inclusive upper bound covers the whole day.
func parseDay(v string, endOfDay bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}
