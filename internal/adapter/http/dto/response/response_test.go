package response

import (
	"bytes"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/domain/pricing"
	"marketplace_escrow/internal/usecase"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFromQuote(t *testing.T) {
	d := entities.MustAmount
	q := entities.Quote{
		Category:  entities.CategoryResidentialCleaning,
		LineItems: []entities.LineItem{{Label: "Base", Amount: d("100")}, {Label: "Rooms", Amount: d("275")}},
		Subtotal:  d("375"),
		TaxRate:   d("0.20"),
		TaxAmount: d("75"),
		Total:     d("450"),
	}

	res := FromQuote(q)
	if res.ServiceCategory != "residential_cleaning" || len(res.LineItems) != 2 {
		t.Fatalf("unexpected quote: %+v", res)
	}
	if res.LineItems[1].Amount != "275.00" || res.Total != "450.00" || res.TaxRate != "0.2" {
		t.Fatalf("unexpected amounts: %+v", res)
	}
}

func TestFromCatalog(t *testing.T) {
	res := FromCatalog(pricing.DefaultCatalog())
	if len(res.Categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(res.Categories))
	}
	for i := 1; i < len(res.Categories); i++ {
		if res.Categories[i-1].ServiceType > res.Categories[i].ServiceType {
			t.Fatalf("categories not sorted: %+v", res.Categories)
		}
	}
	for _, c := range res.Categories {
		if c.ServiceType == string(entities.CategoryKeyService) && len(c.Operations) == 0 {
			t.Fatalf("key service lists no operations")
		}
		if c.ServiceType == string(entities.CategoryAreaCleaning) && c.Operations != nil {
			t.Fatalf("area cleaning lists operations: %+v", c.Operations)
		}
	}
}

func TestFromOrder(t *testing.T) {
	now := time.Now().UTC()
	o := entities.Order{
		ID:             "o-1",
		ClientID:       "client-1",
		Status:         entities.OrderStatusPending,
		Details:        entities.ServiceDetails{Address: "Rua das Flores 10", City: "Porto", PostalCode: "4050-262"},
		ScheduledFor:   now,
		RefundedAmount: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	res := FromOrder(o)
	if res.Permission.State != "unrequested" {
		t.Fatalf("expected unrequested permission, got %q", res.Permission.State)
	}
	if res.Evidence == nil || len(res.Evidence) != 0 {
		t.Fatalf("expected empty evidence list, got %v", res.Evidence)
	}
	if res.ScheduledDate == nil || !res.ScheduledDate.Equal(now) {
		t.Fatalf("unexpected schedule: %v", res.ScheduledDate)
	}
	if res.Permission.RequestedAt != nil || res.RefundedAmount != "0.00" {
		t.Fatalf("unexpected mapped fields: %+v", res)
	}
}

func TestFromTransaction(t *testing.T) {
	tx := entities.Transaction{
		ID:        "tx-1",
		Kind:      entities.TxRelease,
		Direction: entities.Debit,
		Amount:    entities.MustAmount("450"),
		Share:     &entities.Share{Worker: entities.MustAmount("405"), Platform: entities.MustAmount("45")},
		Status:    entities.TxCompleted,
	}
	res := FromTransaction(tx)
	if res.WorkerShare != "405.00" || res.Commission != "45.00" || res.Amount != "450.00" {
		t.Fatalf("unexpected transaction: %+v", res)
	}

	rows := FromStatement([]usecase.StatementRow{{Amount: entities.MustAmount("-450"), Type: entities.TxRelease}})
	if rows[0].Amount != "-450.00" || rows[0].Type != "release" {
		t.Fatalf("unexpected statement row: %+v", rows[0])
	}
}

func TestFromRefund(t *testing.T) {
	res := FromRefund(entities.RefundRequest{ID: "r-1", Amount: entities.MustAmount("100"), Status: entities.RefundSubmitted})
	if res.Amount != "100.00" || res.ApprovedAmount != "0.00" || res.DecidedAt != nil {
		t.Fatalf("unexpected refund: %+v", res)
	}
}

func TestWriteStatementCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []usecase.StatementRow{{
		Date:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Description: "Payment released, order o-1",
		Amount:      entities.MustAmount("-450"),
		Type:        entities.TxRelease,
		Status:      entities.TxCompleted,
		OrderID:     "o-1",
	}}
	if err := WriteStatementCSV(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "date,description,amount,type,status,order_id\n" +
		"2026-03-01T10:00:00Z,\"Payment released, order o-1\",-450.00,release,completed,o-1\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}
