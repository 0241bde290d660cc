package request

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DepositRequest funds a wallet through Mercado Pago. mp_payload is passed to
// the provider as-is; amount and external_reference are filled in.
type DepositRequest struct {
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	MPPayload json.RawMessage `json:"mp_payload" swaggertype:"object"`
}

type VerificationRequest struct {
	Status string `json:"status" binding:"required" enums:"pending,approved,rejected"`
}
