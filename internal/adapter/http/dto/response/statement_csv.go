package response

import (
	"encoding/csv"
	"io"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase"
	"time"
)

var statementHeader = []string{"date", "description", "amount", "type", "status", "order_id"}

// WriteStatementCSV renders statement rows for the report collaborator.
// Amounts are signed with two decimals.
func WriteStatementCSV(w io.Writer, rows []usecase.StatementRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statementHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Date.UTC().Format(time.RFC3339),
			r.Description,
			entities.FormatAmount(r.Amount),
			string(r.Type),
			string(r.Status),
			r.OrderID,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
