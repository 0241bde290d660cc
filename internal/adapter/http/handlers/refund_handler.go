package handlers

import (
	request "marketplace_escrow/internal/adapter/http/dto/request"
	response "marketplace_escrow/internal/adapter/http/dto/response"
	"marketplace_escrow/internal/adapter/http/middleware"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RefundHandler struct {
	usecase usecase.IRefundUseCase
}

func NewRefundHandler(uc usecase.IRefundUseCase) *RefundHandler {
	return &RefundHandler{usecase: uc}
}

// FileRefund opens a refund request against an order's funds.
//
// @Summary  File a refund request
// @Tags     refunds
// @Accept   json
// @Produce  json
// @Param    body  body      request.FileRefundRequest  true  "Refund"
// @Success  201   {object}  response.RefundResponse
// @Failure  409   {object}  pkg.HTTPError
// @Security Bearer
// @Router   /refunds [post]
func (h *RefundHandler) FileRefund(c *gin.Context) {
	var payload request.FileRefundRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	r, err := h.usecase.FileRequest(c.Request.Context(), usecase.FileRefundInput{
		OrderID: payload.OrderID,
		FiledBy: middleware.CallerFrom(c).ID,
		Amount:  payload.Amount,
		Reason:  payload.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromRefund(r))
}

func (h *RefundHandler) GetRefund(c *gin.Context) {
	r, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if caller := middleware.CallerFrom(c); caller.Role != middleware.RoleSupervisor && caller.ID != r.FiledBy {
		writeError(c, errForbidden)
		return
	}
	c.JSON(http.StatusOK, response.FromRefund(r))
}

func (h *RefundHandler) ListByOrder(c *gin.Context) {
	rs, err := h.usecase.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromRefunds(rs))
}

func (h *RefundHandler) StartReview(c *gin.Context) {
	h.decide(c, func(id, supervisor string, _ request.RefundDecisionRequest) (entities.RefundRequest, error) {
		return h.usecase.StartReview(c.Request.Context(), id, supervisor)
	})
}

func (h *RefundHandler) Approve(c *gin.Context) {
	h.decide(c, func(id, supervisor string, p request.RefundDecisionRequest) (entities.RefundRequest, error) {
		return h.usecase.Approve(c.Request.Context(), id, supervisor, p.Amount, p.Note)
	})
}

func (h *RefundHandler) Reject(c *gin.Context) {
	h.decide(c, func(id, supervisor string, p request.RefundDecisionRequest) (entities.RefundRequest, error) {
		return h.usecase.Reject(c.Request.Context(), id, supervisor, p.Note)
	})
}

func (h *RefundHandler) decide(c *gin.Context, apply func(refundID, supervisorID string, p request.RefundDecisionRequest) (entities.RefundRequest, error)) {
	var payload request.RefundDecisionRequest
	if err := bindOptionalJSON(c, &payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	r, err := apply(c.Param("id"), middleware.CallerFrom(c).ID, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromRefund(r))
}
