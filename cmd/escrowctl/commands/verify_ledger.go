package commands

import (
	"errors"
	"marketplace_escrow/internal/app"
	"marketplace_escrow/internal/usecase"

	"github.com/spf13/cobra"
)

var errLedgerInconsistent = errors.New("stored balances differ from the transaction log")

func verifyLedgerCmd() *cobra.Command {
	var accounts []string
	cmd := &cobra.Command{
		Use:   "verify-ledger --account <id> [--account <id>...]",
		Short: "Check stored balances against the fold of the transaction log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWire(cmd, func(w *app.Wire) error {
				checks := make([]usecase.LedgerCheck, 0, len(accounts))
				consistent := true
				for _, id := range accounts {
					check, err := w.Ledger.VerifyAccount(cmd.Context(), id)
					if err != nil {
						return err
					}
					consistent = consistent && check.Consistent
					checks = append(checks, check)
				}
				if err := writeJSON(cmd.OutOrStdout(), checks); err != nil {
					return err
				}
				if !consistent {
					return errLedgerInconsistent
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&accounts, "account", nil, "wallet account id (repeatable)")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
