package routes

import (
	"marketplace_escrow/internal/adapter/http/handlers"
	"marketplace_escrow/internal/adapter/http/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	PathPing    = "/ping"
	PathQuotes  = "/quotes"
	PathOrders  = "/orders"
	PathWallets = "/wallets"
	PathRefunds = "/refunds"
)

var supervisorOnly = middleware.RequireRole(middleware.RoleSupervisor)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addQuoteRoutes(rg *gin.RouterGroup, h *handlers.QuoteHandler) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", h.ComputeQuote)
		quotes.GET("/categories", h.Categories)
	}
}

func addOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, refunds *handlers.RefundHandler) {
	orders := rg.Group(PathOrders)
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListMine)
		orders.GET("/available", h.ListAvailable)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/refunds", refunds.ListByOrder)

		orders.POST("/:id/submit", h.Submit)
		orders.POST("/:id/accept", h.Accept)
		orders.POST("/:id/permission/request", h.RequestPermission)
		orders.POST("/:id/permission/respond", h.RespondPermission)
		orders.POST("/:id/evidence", h.AttachEvidence)
		orders.POST("/:id/submit-for-validation", h.SubmitForValidation)
		orders.POST("/:id/validate", h.Validate)
		orders.POST("/:id/complaint", h.RaiseComplaint)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/resolve-dispute", supervisorOnly, h.ResolveDispute)
	}
}

func addWalletRoutes(rg *gin.RouterGroup, h *handlers.WalletHandler) {
	wallets := rg.Group(PathWallets + "/:account_id")
	{
		wallets.GET("/balance", h.GetBalance)
		wallets.GET("/transactions", h.ListTransactions)
		wallets.GET("/statement", h.Statement)
		wallets.POST("/deposits", h.Deposit)
		wallets.PUT("/verification", supervisorOnly, h.SetVerification)
	}
}

func addRefundRoutes(rg *gin.RouterGroup, h *handlers.RefundHandler) {
	refunds := rg.Group(PathRefunds)
	{
		refunds.POST("", h.FileRefund)
		refunds.GET("/:id", h.GetRefund)
		refunds.PATCH("/:id/review", supervisorOnly, h.StartReview)
		refunds.PATCH("/:id/approve", supervisorOnly, h.Approve)
		refunds.PATCH("/:id/reject", supervisorOnly, h.Reject)
	}
}
