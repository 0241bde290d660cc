package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestNewMercadoPagoGateway(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		if _, err := NewMercadoPagoGateway("", false); !errors.Is(err, ErrMissingMercadoPagoAccessToken) {
			t.Fatalf("expected ErrMissingMercadoPagoAccessToken, got %v", err)
		}
	})

	t.Run("mock mode needs no token", func(t *testing.T) {
		g, err := NewMercadoPagoGateway("", true)
		if err != nil || g == nil {
			t.Fatalf("expected mock gateway, got %v", err)
		}
	})
}

func TestMercadoPagoGateway_CreatePayment(t *testing.T) {
	t.Run("nil gateway", func(t *testing.T) {
		var g *MercadoPagoGateway
		if _, _, _, err := g.CreatePayment(context.Background(), json.RawMessage(`{}`)); !errors.Is(err, ErrMercadoPagoGatewayNotConfigured) {
			t.Fatalf("expected ErrMercadoPagoGatewayNotConfigured, got %v", err)
		}
	})

	t.Run("mock echoes request as approved", func(t *testing.T) {
		g, _ := NewMercadoPagoGateway("", true)
		id, status, raw, err := g.CreatePayment(context.Background(), json.RawMessage(`{"transaction_amount":10,"external_reference":"acc-1"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id == "" || status != "approved" {
			t.Fatalf("unexpected id=%q status=%q", id, status)
		}
		var resp map[string]any
		if err := json.Unmarshal(raw, &resp); err != nil {
			t.Fatalf("response not json: %v", err)
		}
		if resp["external_reference"] != "acc-1" || resp["status_detail"] != "accredited" {
			t.Fatalf("unexpected response: %v", resp)
		}
	})

	t.Run("mock tolerates invalid payload", func(t *testing.T) {
		g, _ := NewMercadoPagoGateway("", true)
		if _, status, _, err := g.CreatePayment(context.Background(), json.RawMessage(`not json`)); err != nil || status != "approved" {
			t.Fatalf("unexpected status=%q err=%v", status, err)
		}
	})
}
