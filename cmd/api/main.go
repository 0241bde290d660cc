package main

import (
	"marketplace_escrow/internal/adapter/http/routes"
	"marketplace_escrow/internal/infrastructure/config"
	"marketplace_escrow/pkg/logger"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// @title           Marketplace Escrow API
// @version         1.0
// @description     Quotes, order lifecycle, escrow wallets and refund adjudication for a services marketplace.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the caller token.

func main() {
	if err := logger.InitLogger(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("[main] invalid configuration", zap.Error(err))
	}
	if err := routes.Run(cfg); err != nil {
		logger.Fatal("[main] server stopped", zap.Error(err))
	}
}
