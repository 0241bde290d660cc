package response

import (
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase"
	"time"
)

type BalanceResponse struct {
	AccountID    string `json:"account_id"`
	Available    string `json:"available"`
	Locked       string `json:"locked"`
	Verification string `json:"verification"`
}

func FromAccount(a entities.WalletAccount) BalanceResponse {
	return BalanceResponse{
		AccountID:    a.OwnerID,
		Available:    entities.FormatAmount(a.Available),
		Locked:       entities.FormatAmount(a.Locked),
		Verification: string(a.Verification),
	}
}

type TransactionResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id,omitempty"`
	Kind        string    `json:"kind"`
	Direction   string    `json:"direction"`
	Amount      string    `json:"amount"`
	WorkerShare string    `json:"worker_share,omitempty"`
	Commission  string    `json:"commission,omitempty"`
	Available   string    `json:"resulting_available"`
	Locked      string    `json:"resulting_locked"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromTransaction(t entities.Transaction) TransactionResponse {
	out := TransactionResponse{
		ID:          t.ID,
		OrderID:     t.OrderID,
		Kind:        string(t.Kind),
		Direction:   string(t.Direction),
		Amount:      entities.FormatAmount(t.Amount),
		Available:   entities.FormatAmount(t.Resulting.Available),
		Locked:      entities.FormatAmount(t.Resulting.Locked),
		Status:      string(t.Status),
		Description: t.Description,
		Reference:   t.Reference,
		CreatedAt:   t.CreatedAt,
	}
	if t.Share != nil {
		out.WorkerShare = entities.FormatAmount(t.Share.Worker)
		out.Commission = entities.FormatAmount(t.Share.Platform)
	}
	return out
}

func FromTransactions(txs []entities.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, FromTransaction(t))
	}
	return out
}

type StatementRowResponse struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	OrderID     string    `json:"order_id,omitempty"`
}

func FromStatement(rows []usecase.StatementRow) []StatementRowResponse {
	out := make([]StatementRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, StatementRowResponse{
			Date:        r.Date,
			Description: r.Description,
			Amount:      entities.FormatAmount(r.Amount),
			Type:        string(r.Type),
			Status:      string(r.Status),
			OrderID:     r.OrderID,
		})
	}
	return out
}
