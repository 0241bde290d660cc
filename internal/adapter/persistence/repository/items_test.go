package repository

import (
	"marketplace_escrow/internal/domain/entities"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

func TestOrderItem_KeepsDocumentAndIndexedFields(t *testing.T) {
	now := time.Date(2026, 10, 2, 8, 30, 0, 0, time.UTC)
	o := entities.Order{
		ID:       "o-9",
		ClientID: "c-1",
		WorkerID: "w-2",
		Quote: entities.Quote{
			Category:  entities.CategoryKeyService,
			LineItems: []entities.LineItem{{Label: "Base fee", Amount: entities.MustAmount("50")}},
			Subtotal:  entities.MustAmount("50"),
			TaxRate:   entities.MustAmount("0.20"),
			TaxAmount: entities.MustAmount("10"),
			Total:     entities.MustAmount("60"),
		},
		Status:         entities.OrderStatusAccepted,
		Permission:     entities.NewPermissionRequest(),
		RefundedAmount: entities.MustAmount("0"),
		CreatedAt:      now,
		Version:        4,
	}
	it, err := toOrderItem(o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, ok := av["worker_id"]; !ok {
		t.Fatalf("worker_id must be indexed once assigned")
	}

	var back orderItem
	if err := attributevalue.UnmarshalMap(av, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := fromOrderItem(back)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != 4 || got.Status != entities.OrderStatusAccepted || !got.Quote.Total.Equal(o.Quote.Total) {
		t.Fatalf("unexpected order %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at lost: %v", got.CreatedAt)
	}
}

func TestOrderItem_UnassignedWorkerIsSparse(t *testing.T) {
	it, err := toOrderItem(entities.Order{ID: "o-1", ClientID: "c-1", Status: entities.OrderStatusPending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	av, _ := attributevalue.MarshalMap(it)
	if _, ok := av["worker_id"]; ok {
		t.Fatalf("worker_id must be omitted until assigned")
	}
}

func TestTransactionItem_Share(t *testing.T) {
	withShare := entities.Transaction{
		ID:    "release-o-1-payer",
		Kind:  entities.TxRelease,
		Share: &entities.Share{Worker: entities.MustAmount("405"), Platform: entities.MustAmount("45")},
	}
	got := fromTransactionItem(toTransactionItem(withShare))
	if got.Share == nil || !got.Share.Platform.Equal(entities.MustAmount("45")) {
		t.Fatalf("share lost: %+v", got.Share)
	}

	plain := fromTransactionItem(toTransactionItem(entities.Transaction{ID: "t-1", Kind: entities.TxDeposit}))
	if plain.Share != nil {
		t.Fatalf("unexpected share on deposit: %+v", plain.Share)
	}
}
