package routes

import (
	"context"
	"errors"
	_ "marketplace_escrow/docs"
	"marketplace_escrow/internal/adapter/http/handlers"
	"marketplace_escrow/internal/adapter/http/middleware"
	"marketplace_escrow/internal/app"
	"marketplace_escrow/internal/infrastructure/config"
	"marketplace_escrow/pkg/logger"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Run will start the server and the broker workers, and block until SIGINT
// or SIGTERM.
func Run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := app.NewWire(ctx, cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	if cfg.StorageDriver == config.StorageSQLite || cfg.DynamoDB != "" {
		if err := w.Migrate(ctx); err != nil {
			return err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(w)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	workers := make(chan error, 1)
	go func() { workers <- w.RunWorkers(ctx) }()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("[routes] listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	workersDone := false
	select {
	case err = <-serveErr:
	case err = <-workers:
		workersDone = true
	case <-ctx.Done():
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("[routes] shutdown failed", zap.Error(shutdownErr))
	}
	if !workersDone {
		if werr := <-workers; err == nil {
			err = werr
		}
	}
	logger.Info("[routes] stopped")
	return err
}

// NewRouter builds the gin engine with every /v1 route.
func NewRouter(w *app.Wire) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.RequestLogger())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)

	authed := v1.Group("", middleware.Identify())
	addQuoteRoutes(authed, handlers.NewQuoteHandler(w.Quotes))
	refunds := handlers.NewRefundHandler(w.Refunds)
	addOrderRoutes(authed, handlers.NewOrderHandler(w.Orders), refunds)
	addWalletRoutes(authed, handlers.NewWalletHandler(w.Ledger, w.Deposits))
	addRefundRoutes(authed, refunds)
	return router
}
