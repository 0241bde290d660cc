package handlers

import (
	"encoding/json"
	request "marketplace_escrow/internal/adapter/http/dto/request"
	response "marketplace_escrow/internal/adapter/http/dto/response"
	"marketplace_escrow/internal/adapter/http/middleware"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler serves balances, the transaction log and deposits. Owners
// see their own account; supervisors see any.
type WalletHandler struct {
	ledger   usecase.ILedgerUseCase
	deposits usecase.IDepositUseCase
}

func NewWalletHandler(ledger usecase.ILedgerUseCase, deposits usecase.IDepositUseCase) *WalletHandler {
	return &WalletHandler{ledger: ledger, deposits: deposits}
}

// @Summary  Wallet balance
// @Tags     wallets
// @Produce  json
// @Param    account_id  path      string  true  "Account id"
// @Success  200         {object}  response.BalanceResponse
// @Security Bearer
// @Router   /wallets/{account_id}/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	accountID, ok := h.ownedAccount(c)
	if !ok {
		return
	}
	a, err := h.ledger.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAccount(a))
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	accountID, ok := h.ownedAccount(c)
	if !ok {
		return
	}
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	txs, err := h.ledger.ListTransactions(c.Request.Context(), accountID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromTransactions(txs))
}

// Statement answers JSON rows, or CSV with ?format=csv.
func (h *WalletHandler) Statement(c *gin.Context) {
	accountID, ok := h.ownedAccount(c)
	if !ok {
		return
	}
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := h.ledger.Statement(c.Request.Context(), accountID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if strings.EqualFold(c.Query("format"), "csv") {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := response.WriteStatementCSV(c.Writer, rows); err != nil {
			logger.Error("[wallet][handler] statement csv failed", zap.String("account_id", accountID), zap.Error(err))
		}
		return
	}
	c.JSON(http.StatusOK, response.FromStatement(rows))
}

// Deposit credits the caller's wallet through the payment gateway.
//
// @Summary  Deposit funds
// @Tags     wallets
// @Accept   json
// @Produce  json
// @Param    account_id  path      string                  true  "Account id"
// @Param    body        body      request.DepositRequest  true  "Deposit"
// @Success  201         {object}  response.TransactionResponse
// @Failure  400         {object}  pkg.HTTPError
// @Security Bearer
// @Router   /wallets/{account_id}/deposits [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	accountID := c.Param("account_id")
	if middleware.CallerFrom(c).ID != accountID {
		writeError(c, errForbidden)
		return
	}
	var payload request.DepositRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	if len(payload.MPPayload) == 0 || string(payload.MPPayload) == "null" {
		payload.MPPayload = json.RawMessage("{}")
	}
	tx, err := h.deposits.Deposit(c.Request.Context(), accountID, payload.Amount, payload.MPPayload)
	if err != nil {
		logger.Warn("[wallet][handler] deposit failed", zap.String("account_id", accountID), zap.Error(err))
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if tx.Status == entities.TxPending {
		status = http.StatusAccepted
	}
	c.JSON(status, response.FromTransaction(tx))
}

func (h *WalletHandler) SetVerification(c *gin.Context) {
	var payload request.VerificationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	a, err := h.ledger.SetVerification(c.Request.Context(), c.Param("account_id"), entities.VerificationStatus(strings.ToLower(strings.TrimSpace(payload.Status))))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAccount(a))
}

func (h *WalletHandler) ownedAccount(c *gin.Context) (string, bool) {
	accountID := c.Param("account_id")
	caller := middleware.CallerFrom(c)
	if caller.Role != middleware.RoleSupervisor && caller.ID != accountID {
		writeError(c, errForbidden)
		return "", false
	}
	return accountID, true
}

// parseTransactionFilter reads kind (comma separated), status, from, to and
// limit.
func parseTransactionFilter(c *gin.Context) (interfaces.TransactionFilter, error) {
	var f interfaces.TransactionFilter
	for _, k := range strings.Split(c.Query("kind"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			f.Kinds = append(f.Kinds, entities.TxKind(k))
		}
	}
	f.Status = entities.TxStatus(strings.TrimSpace(c.Query("status")))
	var err error
	if f.From, err = parseQueryTime("from", c.Query("from")); err != nil {
		return f, err
	}
	if f.To, err = parseQueryTime("to", c.Query("to")); err != nil {
		return f, err
	}
	if v := c.Query("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit < 0 {
			return f, entities.NewValidationError("limit", "must be a non-negative integer")
		}
	}
	return f, nil
}

func parseQueryTime(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		if field == "to" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), nil
	}
	return time.Time{}, entities.NewValidationError(field, "expected RFC 3339 timestamp or YYYY-MM-DD")
}
