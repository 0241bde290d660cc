package response

import (
	"marketplace_escrow/internal/domain/entities"
	"time"
)

type PermissionResponse struct {
	State       string     `json:"state"`
	Reason      string     `json:"reason,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type OrderResponse struct {
	ID                    string                  `json:"id"`
	ClientID              string                  `json:"client_id"`
	WorkerID              string                  `json:"worker_id,omitempty"`
	Status                string                  `json:"status"`
	Quote                 QuoteResponse           `json:"quote"`
	Description           string                  `json:"description"`
	Address               string                  `json:"address"`
	City                  string                  `json:"city"`
	PostalCode            string                  `json:"postal_code"`
	PreferredTimeWindow   string                  `json:"preferred_time_window,omitempty"`
	PreferredWorkerGender string                  `json:"preferred_worker_gender,omitempty"`
	Notes                 string                  `json:"notes,omitempty"`
	ScheduledDate         *time.Time              `json:"scheduled_date,omitempty"`
	Permission            PermissionResponse      `json:"permission"`
	Evidence              []entities.EvidenceItem `json:"evidence"`
	EvidenceOverride      bool                    `json:"evidence_override"`
	Complaint             string                  `json:"complaint,omitempty"`
	CancelReason          string                  `json:"cancel_reason,omitempty"`
	RefundedAmount        string                  `json:"refunded_amount"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	evidence := o.Evidence
	if evidence == nil {
		evidence = []entities.EvidenceItem{}
	}
	state := o.Permission.State
	if state == "" {
		state = entities.PermissionUnrequested
	}
	return OrderResponse{
		ID:                    o.ID,
		ClientID:              o.ClientID,
		WorkerID:              o.WorkerID,
		Status:                string(o.Status),
		Quote:                 FromQuote(o.Quote),
		Description:           o.Details.Description,
		Address:               o.Details.Address,
		City:                  o.Details.City,
		PostalCode:            o.Details.PostalCode,
		PreferredTimeWindow:   o.Details.PreferredTimeWindow,
		PreferredWorkerGender: o.Details.PreferredWorkerGender,
		Notes:                 o.Details.Notes,
		ScheduledDate:         optionalTime(o.ScheduledFor),
		Permission: PermissionResponse{
			State:       string(state),
			Reason:      o.Permission.Reason,
			RequestedAt: optionalTime(o.Permission.RequestedAt),
			RespondedAt: optionalTime(o.Permission.RespondedAt),
		},
		Evidence:         evidence,
		EvidenceOverride: o.EvidenceOverride,
		Complaint:        o.Complaint,
		CancelReason:     o.CancelReason,
		RefundedAmount:   entities.FormatAmount(o.RefundedAmount),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func FromOrders(orders []entities.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
