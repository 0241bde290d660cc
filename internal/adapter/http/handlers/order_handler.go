package handlers

import (
	request "marketplace_escrow/internal/adapter/http/dto/request"
	response "marketplace_escrow/internal/adapter/http/dto/response"
	"marketplace_escrow/internal/adapter/http/middleware"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase"
	"marketplace_escrow/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultAvailableLimit = 50

// OrderHandler exposes the order lifecycle. The caller id from the identity
// middleware is the actor of every transition.
type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder opens a draft order, or a pending one with ?submit=true.
//
// @Summary  Open an order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    submit  query     bool                        false  "Submit immediately"
// @Param    body    body      request.CreateOrderRequest  true   "Order"
// @Success  201     {object}  response.OrderResponse
// @Failure  400     {object}  pkg.HTTPError
// @Security Bearer
// @Router   /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	submit, _ := strconv.ParseBool(c.DefaultQuery("submit", "false"))
	caller := middleware.CallerFrom(c)
	in, err := payload.ToInput(caller.ID, submit)
	if err != nil {
		respondError(c, err)
		return
	}
	o, err := h.usecase.Open(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("[order][handler] open success", zap.String("order_id", o.ID), zap.String("status", string(o.Status)))
	c.JSON(http.StatusCreated, response.FromOrder(o))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	caller := middleware.CallerFrom(c)
	if caller.Role != middleware.RoleSupervisor && caller.ID != o.ClientID && caller.ID != o.WorkerID {
		// Open orders are visible to workers looking for work.
		if !(caller.Role == middleware.RoleWorker && o.Status == entities.OrderStatusPending) {
			writeError(c, errForbidden)
			return
		}
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

// ListMine returns the caller's orders: placed for clients, assigned for
// workers.
func (h *OrderHandler) ListMine(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	var (
		orders []entities.Order
		err    error
	)
	if caller.Role == middleware.RoleWorker {
		orders, err = h.usecase.ListByWorker(c.Request.Context(), caller.ID)
	} else {
		orders, err = h.usecase.ListByClient(c.Request.Context(), caller.ID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrders(orders))
}

func (h *OrderHandler) ListAvailable(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAvailableLimit)))
	if err != nil || limit <= 0 {
		writeError(c, errInvalidPayload)
		return
	}
	orders, err := h.usecase.ListAvailable(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrders(orders))
}

func (h *OrderHandler) Submit(c *gin.Context) {
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.Submit(c.Request.Context(), id, caller)
	})
}

// Accept assigns the order to the calling worker and locks the client's
// funds. Losing a race answers 409 ORDER_ALREADY_TAKEN.
//
// @Summary  Accept an order
// @Tags     orders
// @Produce  json
// @Param    id   path      string  true  "Order id"
// @Success  200  {object}  response.OrderResponse
// @Failure  402  {object}  pkg.HTTPError
// @Failure  409  {object}  pkg.HTTPError
// @Security Bearer
// @Router   /orders/{id}/accept [post]
func (h *OrderHandler) Accept(c *gin.Context) {
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.Accept(c.Request.Context(), id, caller)
	})
}

func (h *OrderHandler) RequestPermission(c *gin.Context) {
	var payload request.ReasonRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.RequestPermission(c.Request.Context(), id, caller, payload.Reason)
	})
}

func (h *OrderHandler) RespondPermission(c *gin.Context) {
	var payload request.PermissionResponseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.RespondPermission(c.Request.Context(), id, caller, *payload.Granted)
	})
}

func (h *OrderHandler) AttachEvidence(c *gin.Context) {
	var payload request.EvidenceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.AttachEvidence(c.Request.Context(), id, caller, payload.ToItem())
	})
}

func (h *OrderHandler) SubmitForValidation(c *gin.Context) {
	var payload request.SubmitForValidationRequest
	if err := bindOptionalJSON(c, &payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.SubmitForValidation(c.Request.Context(), id, caller, payload.OverrideAck)
	})
}

// Validate confirms completion and releases the escrow to the worker.
func (h *OrderHandler) Validate(c *gin.Context) {
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.Validate(c.Request.Context(), id, caller)
	})
}

func (h *OrderHandler) RaiseComplaint(c *gin.Context) {
	var payload request.ReasonRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.RaiseComplaint(c.Request.Context(), id, caller, payload.Reason)
	})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var payload request.ReasonRequest
	if err := bindOptionalJSON(c, &payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.Cancel(c.Request.Context(), id, caller, payload.Reason)
	})
}

func (h *OrderHandler) ResolveDispute(c *gin.Context) {
	var payload request.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	h.transition(c, func(id, caller string) (entities.Order, error) {
		return h.usecase.ResolveDispute(c.Request.Context(), id, caller, payload.RefundAmount)
	})
}

func (h *OrderHandler) transition(c *gin.Context, apply func(orderID, callerID string) (entities.Order, error)) {
	o, err := apply(c.Param("id"), middleware.CallerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

// bindOptionalJSON accepts an empty body as the zero payload.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}
