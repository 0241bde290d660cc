package handlers

import (
	request "marketplace_escrow/internal/adapter/http/dto/request"
	response "marketplace_escrow/internal/adapter/http/dto/response"
	"marketplace_escrow/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// ComputeQuote prices a service request without persisting anything.
//
// @Summary  Compute a quote
// @Tags     quotes
// @Accept   json
// @Produce  json
// @Param    body  body      request.QuoteRequest  true  "Quote parameters"
// @Success  200   {object}  response.QuoteResponse
// @Failure  400   {object}  pkg.HTTPError
// @Security Bearer
// @Router   /quotes [post]
func (h *QuoteHandler) ComputeQuote(c *gin.Context) {
	var payload request.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPayload)
		return
	}
	in, err := payload.ToInput()
	if err != nil {
		respondError(c, err)
		return
	}
	q, err := h.usecase.Compute(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// Categories lists the configured service categories and their rates.
//
// @Summary  List service categories
// @Tags     quotes
// @Produce  json
// @Success  200  {object}  response.CatalogResponse
// @Security Bearer
// @Router   /quotes/categories [get]
func (h *QuoteHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromCatalog(h.usecase.Catalog(c.Request.Context())))
}
