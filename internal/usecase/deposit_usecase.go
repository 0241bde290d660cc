package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidMPPayload               = errors.New("invalid mercado pago payload")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// IDepositUseCase funds a wallet through the external payment collaborator.
//
// The provider collects the money; the ledger credits the available balance
// only once the provider reports the payment approved.
type IDepositUseCase interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, mpPayload json.RawMessage) (entities.Transaction, error)
}

// DepositConfig holds the payment settings resolved once at startup.
type DepositConfig struct {
	// MockMode approves every deposit without calling the provider.
	MockMode bool
	// AccessToken is only inspected for the sandbox "TEST-" prefix.
	AccessToken     string
	TestPayerEmail  string
	TestPayerUserID string
}

func (c DepositConfig) sandbox() bool {
	return strings.HasPrefix(strings.TrimSpace(c.AccessToken), "TEST-")
}

type DepositUseCase struct {
	wallets interfaces.IWalletRepository
	writer  interfaces.IChangesetWriter
	gateway interfaces.IPaymentGateway
	cfg     DepositConfig
}

var _ IDepositUseCase = (*DepositUseCase)(nil)

func NewDepositUseCase(wallets interfaces.IWalletRepository, writer interfaces.IChangesetWriter, gateway interfaces.IPaymentGateway, cfg DepositConfig) *DepositUseCase {
	return &DepositUseCase{wallets: wallets, writer: writer, gateway: gateway, cfg: cfg}
}

func (u *DepositUseCase) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, mpPayload json.RawMessage) (entities.Transaction, error) {
	log := logger.With(zap.String("account_id", accountID))
	log.Info("[deposit][usecase] start", zap.String("amount", entities.FormatAmount(amount)), zap.Int("payload_len", len(mpPayload)))
	mockMode := u.cfg.MockMode
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return entities.Transaction{}, ErrInvalidAccountID
	}
	if err := validateAmount("amount", amount); err != nil {
		return entities.Transaction{}, err
	}
	if len(mpPayload) == 0 || !json.Valid(mpPayload) {
		if !mockMode {
			log.Warn("[deposit][usecase] invalid payload")
			return entities.Transaction{}, ErrInvalidMPPayload
		}
		mpPayload = json.RawMessage("{}")
	}
	if u.gateway == nil && !mockMode {
		log.Error("[deposit][usecase] gateway not configured")
		return entities.Transaction{}, ErrPaymentGatewayNotConfigured
	}

	// Mercado Pago reconciles on external_reference; the amount always comes
	// from the request, never from the client payload.
	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err == nil && reqMap != nil {
		if !mockMode && !hasNonEmptyString(reqMap, "payment_method_id") {
			log.Warn("[deposit][usecase] missing payment_method_id")
			return entities.Transaction{}, ErrInvalidMPPayload
		}
		if !mockMode {
			normalizeSandboxPayerFromUserID(reqMap, u.cfg)
			ensurePayerDefaults(reqMap, u.cfg)
			if !hasPayer(reqMap) {
				log.Warn("[deposit][usecase] missing or invalid payer")
				return entities.Transaction{}, ErrInvalidMPPayload
			}
		}
		if _, ok := reqMap["external_reference"]; !ok {
			reqMap["external_reference"] = accountID
		}
		if _, ok := reqMap["description"]; !ok {
			reqMap["description"] = fmt.Sprintf("Wallet deposit %s", accountID)
		}
		reqMap["transaction_amount"] = amount.InexactFloat64()
		if b, err := json.Marshal(reqMap); err == nil {
			mpPayload = b
		}
	} else if !mockMode {
		log.Warn("[deposit][usecase] payload is not an object")
		return entities.Transaction{}, ErrInvalidMPPayload
	}

	providerPaymentID, providerStatus, err := u.collect(ctx, mockMode, mpPayload)
	if err != nil {
		log.Warn("[deposit][usecase] payment gateway failed", zap.Error(err))
		return entities.Transaction{}, err
	}
	log.Info("[deposit][usecase] payment gateway answered",
		zap.String("provider_payment_id", providerPaymentID), zap.String("provider_status", providerStatus))

	status := depositStatus(providerStatus)
	var recorded entities.Transaction
	err = commitBatch(ctx, u.writer, u.wallets, "deposit", func(b *ledgerBatch) error {
		tx, err := b.post(ctx, posting{
			id:          "deposit-" + providerPaymentID,
			accountID:   accountID,
			kind:        entities.TxDeposit,
			direction:   entities.Credit,
			amount:      amount,
			available:   amount,
			locked:      decimal.Zero,
			status:      status,
			description: "Wallet deposit",
			reference:   providerPaymentID,
		})
		if err != nil {
			return invariantBreach("deposit", "", accountID, err)
		}
		recorded = tx
		if status != entities.TxCompleted {
			return nil
		}
		return b.emit(entities.EventFundsDeposited, accountID, map[string]any{
			"account_id":          accountID,
			"amount":              entities.FormatAmount(amount),
			"provider_payment_id": providerPaymentID,
		})
	})
	if err != nil {
		log.Error("[deposit][usecase] ledger commit failed", zap.String("provider_payment_id", providerPaymentID), zap.Error(err))
		return entities.Transaction{}, err
	}
	log.Info("[deposit][usecase] success", zap.String("tx_id", recorded.ID), zap.String("status", string(recorded.Status)))
	return recorded, nil
}

func (u *DepositUseCase) collect(ctx context.Context, mockMode bool, payload json.RawMessage) (string, string, error) {
	if mockMode {
		logger.Info("[deposit][usecase] mock mode enabled; skipping external payment gateway")
		return strconv.FormatInt(time.Now().UTC().UnixNano(), 10), "approved", nil
	}
	id, status, _, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		switch {
		case isGatewayCustomerNotFound(err):
			return "", "", ErrPaymentGatewayCustomerNotFound
		case isGatewayInvalidUsers(err):
			return "", "", ErrPaymentGatewayInvalidUsers
		case isGatewayUnauthorized(err):
			return "", "", ErrPaymentGatewayUnauthorized
		case isGatewayBadRequest(err):
			return "", "", ErrPaymentGatewayBadRequest
		}
		return "", "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", "", fmt.Errorf("payment gateway returned no payment id")
	}
	return id, status, nil
}

func depositStatus(providerStatus string) entities.TxStatus {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "approved", "accredited":
		return entities.TxCompleted
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.TxFailed
	}
	return entities.TxPending
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func ensurePayerDefaults(m map[string]any, cfg DepositConfig) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}
	// Sandbox accepts either payer.id or payer.email; fill email only when
	// both are missing.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if email := strings.TrimSpace(cfg.TestPayerEmail); email != "" {
			payer["email"] = email
		} else if cfg.sandbox() {
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

// normalizeSandboxPayerFromUserID swaps a configured sandbox user id for its
// email, which is what the sandbox expects.
func normalizeSandboxPayerFromUserID(m map[string]any, cfg DepositConfig) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if !cfg.sandbox() {
		return
	}
	configuredUserID := strings.TrimSpace(cfg.TestPayerUserID)
	configuredEmail := strings.TrimSpace(cfg.TestPayerEmail)
	if configuredUserID == "" || configuredEmail == "" {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != configuredUserID {
		return
	}
	payer["email"] = configuredEmail
	delete(payer, "id")
	logger.Debug("[deposit][usecase] mapped sandbox payer user_id to payer.email")
}

func gatewayErrorContains(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}

func isGatewayBadRequest(err error) bool {
	return gatewayErrorContains(err, "\"error\":\"bad_request\"", "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	return gatewayErrorContains(err, "\"error\":\"unauthorized\"", "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	return gatewayErrorContains(err, "invalid users involved", "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	return gatewayErrorContains(err, "customer not found", "\"code\":2002")
}
