package interfaces

import (
	"context"
	"encoding/json"
)

// IPaymentGateway abstracts the external payment collaborator (Mercado Pago).
//
// The ledger only instructs it to collect a deposit and keeps the provider
// response on the resulting transaction for reconciliation.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error)
}
