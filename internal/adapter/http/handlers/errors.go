package handlers

import (
	"errors"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase"
	"marketplace_escrow/pkg"
	"marketplace_escrow/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errForbidden      = pkg.NewDomainErrorSimple("FORBIDDEN", "Caller may not act on this resource", http.StatusForbidden)
)

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// respondError maps a use-case error to the HTTP envelope.
func respondError(c *gin.Context, err error) {
	appErr := mapError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("[http][handler] request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	writeError(c, appErr)
}

func mapError(err error) *pkg.AppError {
	var (
		ve  *entities.ValidationError
		ife *entities.InsufficientFundsError
		ce  *entities.ConcurrencyError
		ste *entities.StateTransitionError
		pe  *entities.PermissionError
	)
	switch {
	case errors.As(err, &ve):
		return pkg.NewDomainError("VALIDATION_ERROR", ve.Error(), err, http.StatusBadRequest).WithDetail("field", ve.Field)
	case errors.Is(err, usecase.ErrInvalidOrderID), errors.Is(err, usecase.ErrInvalidActorID),
		errors.Is(err, usecase.ErrInvalidAccountID), errors.Is(err, usecase.ErrInvalidRefundID),
		errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRefundExceedsHold):
		return pkg.NewDomainErrorSimple("REFUND_EXCEEDS_HOLD", "Refund exceeds the locked amount", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrReversalExceedsRelease):
		return pkg.NewDomainErrorSimple("REVERSAL_EXCEEDS_RELEASE", "Refund exceeds the released amount", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.As(err, &ife):
		return pkg.NewDomainErrorSimple("INSUFFICIENT_FUNDS", "Available balance does not cover the amount", http.StatusPaymentRequired).
			WithDetail("available", entities.FormatAmount(ife.Available)).
			WithDetail("required", entities.FormatAmount(ife.Required))
	case errors.Is(err, usecase.ErrNotOrderClient), errors.Is(err, usecase.ErrNotAssignedWorker),
		errors.Is(err, usecase.ErrNotOrderParticipant), errors.Is(err, usecase.ErrSelfAccept):
		return pkg.NewDomainErrorSimple("FORBIDDEN", err.Error(), http.StatusForbidden)
	case errors.As(err, &pe):
		return pkg.NewDomainErrorSimple("PERMISSION_NOT_GRANTED", pe.Error(), http.StatusForbidden).WithDetail("permission", string(pe.State))
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrRefundNotFound):
		return pkg.NewDomainErrorSimple("REFUND_NOT_FOUND", "Refund request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrHoldNotFound):
		return pkg.NewDomainErrorSimple("HOLD_NOT_FOUND", "No escrow hold for order", http.StatusNotFound)
	case errors.As(err, &ce):
		return pkg.NewDomainErrorSimple("ORDER_ALREADY_TAKEN", "Order is no longer available", http.StatusConflict).WithDetail("status", string(ce.Status))
	case errors.As(err, &ste):
		return pkg.NewDomainErrorSimple("INVALID_STATE_TRANSITION", ste.Error(), http.StatusConflict).WithDetail("status", ste.From)
	case errors.Is(err, usecase.ErrAlreadyReleased):
		return pkg.NewDomainErrorSimple("ALREADY_RELEASED", "Funds already released for order", http.StatusConflict)
	case errors.Is(err, usecase.ErrRefundAlreadyOpen), errors.Is(err, usecase.ErrRefundPending):
		return pkg.NewDomainErrorSimple("REFUND_OPEN", "A refund request is open for order", http.StatusConflict)
	case errors.Is(err, usecase.ErrHoldAlreadyExists):
		return pkg.NewDomainErrorSimple("FUNDS_ALREADY_LOCKED", "Funds already locked for order", http.StatusConflict)
	case errors.Is(err, usecase.ErrNothingLocked):
		return pkg.NewDomainErrorSimple("NOTHING_LOCKED", "No locked funds remain for order", http.StatusConflict)
	case errors.Is(err, usecase.ErrPayeeNotVerified):
		return pkg.NewDomainErrorSimple("PAYEE_NOT_VERIFIED", "Worker verification is not approved", http.StatusConflict)
	case errors.Is(err, entities.ErrConflict):
		return pkg.NewDomainErrorSimple("CONFLICT", "Concurrent update, retry the request", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainError("PAYMENT_GATEWAY_UNAVAILABLE", "Payment gateway not configured", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
