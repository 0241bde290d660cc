package usecase

import (
	"context"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/domain/pricing"
	"marketplace_escrow/pkg/logger"

	"go.uber.org/zap"
)

// IQuoteUseCase exposes the pricing engine. Quotes are not persisted; an
// order stores the quote it was opened with.
type IQuoteUseCase interface {
	Compute(ctx context.Context, in pricing.QuoteInput) (entities.Quote, error)
	Catalog(ctx context.Context) pricing.Catalog
}

type QuoteUseCase struct {
	engine *pricing.Engine
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(engine *pricing.Engine) *QuoteUseCase {
	return &QuoteUseCase{engine: engine}
}

func (u *QuoteUseCase) Compute(_ context.Context, in pricing.QuoteInput) (entities.Quote, error) {
	q, err := u.engine.ComputeQuote(in)
	if err != nil {
		logger.Debug("[quote][usecase] rejected input", zap.Error(err))
		return entities.Quote{}, err
	}
	logger.Debug("[quote][usecase] computed",
		zap.String("category", string(q.Category)), zap.String("total", entities.FormatAmount(q.Total)))
	return q, nil
}

func (u *QuoteUseCase) Catalog(_ context.Context) pricing.Catalog {
	return u.engine.Catalog()
}
