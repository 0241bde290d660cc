package request

import (
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the order-creation form: the quote fields plus
// location, schedule and preferences.
type CreateOrderRequest struct {
	QuoteRequest
	Description           string           `json:"description"`
	Address               string           `json:"address"`
	City                  string           `json:"city"`
	PostalCode            string           `json:"postal_code"`
	PreferredTimeWindow   string           `json:"preferred_time_window,omitempty"`
	PreferredWorkerGender string           `json:"preferred_worker_gender,omitempty"`
	InitialPrice          *decimal.Decimal `json:"initial_price,omitempty" swaggertype:"string"`
	ScheduledDate         string           `json:"scheduled_date,omitempty" example:"2026-11-02T09:00:00Z"`
	Notes                 string           `json:"notes,omitempty"`
}

// ToInput builds the use-case command. scheduled_date accepts RFC 3339 or a
// plain date.
func (r CreateOrderRequest) ToInput(clientID string, submit bool) (usecase.OpenOrderInput, error) {
	quote, err := r.QuoteRequest.ToInput()
	if err != nil {
		return usecase.OpenOrderInput{}, err
	}
	scheduled, err := parseSchedule(r.ScheduledDate)
	if err != nil {
		return usecase.OpenOrderInput{}, err
	}
	return usecase.OpenOrderInput{
		ClientID: clientID,
		Quote:    quote,
		Details: entities.ServiceDetails{
			Description:           strings.TrimSpace(r.Description),
			Address:               strings.TrimSpace(r.Address),
			City:                  strings.TrimSpace(r.City),
			PostalCode:            strings.TrimSpace(r.PostalCode),
			PreferredTimeWindow:   strings.TrimSpace(r.PreferredTimeWindow),
			PreferredWorkerGender: strings.TrimSpace(r.PreferredWorkerGender),
			Notes:                 strings.TrimSpace(r.Notes),
		},
		ScheduledFor: scheduled,
		InitialPrice: r.InitialPrice,
		Submit:       submit,
	}, nil
}

func parseSchedule(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, entities.NewValidationError("scheduled_date", "expected RFC 3339 timestamp or YYYY-MM-DD")
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type PermissionResponseRequest struct {
	Granted *bool `json:"granted" binding:"required"`
}

type EvidenceRequest struct {
	Phase string `json:"phase" binding:"required" enums:"before,after"`
	URI   string `json:"uri" binding:"required"`
	Note  string `json:"note,omitempty"`
}

func (r EvidenceRequest) ToItem() entities.EvidenceItem {
	return entities.EvidenceItem{
		Phase: entities.EvidencePhase(strings.TrimSpace(r.Phase)),
		URI:   strings.TrimSpace(r.URI),
		Note:  strings.TrimSpace(r.Note),
	}
}

type SubmitForValidationRequest struct {
	// OverrideAck acknowledges submitting without after-photos.
	OverrideAck bool `json:"override_ack"`
}

type ResolveDisputeRequest struct {
	RefundAmount decimal.Decimal `json:"refund_amount" swaggertype:"string"`
}
