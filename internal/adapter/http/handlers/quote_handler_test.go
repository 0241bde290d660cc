package handlers

import (
	"marketplace_escrow/internal/adapter/http/handlers/mocks"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/domain/pricing"
	"net/http"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestQuoteHandler_ComputeQuote(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewQuoteHandler(mocks.NewMockIQuoteUseCase(ctrl))
		r := newTestRouter(client, http.MethodPost, "/v1/quotes", h.ComputeQuote)

		expectError(t, serve(r, http.MethodPost, "/v1/quotes", `{"number_of_rooms":2}`), http.StatusBadRequest, "INVALID_REQUEST")
	})

	t.Run("unknown category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewQuoteHandler(mocks.NewMockIQuoteUseCase(ctrl))
		r := newTestRouter(client, http.MethodPost, "/v1/quotes", h.ComputeQuote)

		w := serve(r, http.MethodPost, "/v1/quotes", `{"service_type":"gardening"}`)
		expectError(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
		if e := decodeError(t, w); e.Details["field"] != "service_type" {
			t.Fatalf("expected service_type detail, got %v", e.Details)
		}
	})

	t.Run("engine validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		r := newTestRouter(client, http.MethodPost, "/v1/quotes", h.ComputeQuote)

		uc.EXPECT().Compute(gomock.Any(), gomock.Any()).Return(entities.Quote{}, entities.NewValidationError("number_of_rooms", "required"))
		expectError(t, serve(r, http.MethodPost, "/v1/quotes", `{"service_type":"residential_cleaning"}`), http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		r := newTestRouter(client, http.MethodPost, "/v1/quotes", h.ComputeQuote)

		engine := pricing.NewEngine(pricing.DefaultCatalog())
		uc.EXPECT().Compute(gomock.Any(), pricing.ResidentialCleaningInput{Rooms: intPtr(11), Bathrooms: intPtr(0), AddOns: []string{}}).
			DoAndReturn(func(_ any, in pricing.QuoteInput) (entities.Quote, error) { return engine.ComputeQuote(in) })

		w := serve(r, http.MethodPost, "/v1/quotes", `{"service_type":"residential_cleaning","number_of_rooms":11,"number_of_bathrooms":0}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
		if !contains(w, `"total":"450.00"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestQuoteHandler_Categories(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIQuoteUseCase(ctrl)
	h := NewQuoteHandler(uc)
	r := newTestRouter(client, http.MethodGet, "/v1/quotes/categories", h.Categories)

	uc.EXPECT().Catalog(gomock.Any()).Return(pricing.DefaultCatalog())
	w := serve(r, http.MethodGet, "/v1/quotes/categories", "")
	if w.Code != http.StatusOK || !contains(w, `"service_type":"key_service"`) {
		t.Fatalf("unexpected response %d: %s", w.Code, w.Body.String())
	}
}

func intPtr(v int) *int { return &v }
