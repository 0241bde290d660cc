package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// Decision message types sent by the adjudication and verification
// collaborators.
const (
	DecisionRefundReview       = "refund.review"
	DecisionRefundApprove      = "refund.approve"
	DecisionRefundReject       = "refund.reject"
	DecisionDisputeResolve     = "dispute.resolve"
	DecisionVerificationResult = "verification.result"
)

var ErrInvalidDecision = errors.New("invalid decision message")

// Decision is one message of the decisions topic. Which fields are set
// depends on Type.
type Decision struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	RefundID     string           `json:"refund_id,omitempty"`
	OrderID      string           `json:"order_id,omitempty"`
	SupervisorID string           `json:"supervisor_id,omitempty"`
	AccountID    string           `json:"account_id,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Status       string           `json:"status,omitempty"`
	Note         string           `json:"note,omitempty"`
}

// NewDecisionReader joins the consumer group on the decisions topic. Offsets
// are committed explicitly after a message is handled.
func NewDecisionReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0,
	})
}

// DecodeDecision parses a message value. A message without an id falls back
// to its event-id header and then to its log position, which is stable
// across redeliveries.
func DecodeDecision(msg kafka.Message) (Decision, error) {
	var d Decision
	if err := json.Unmarshal(msg.Value, &d); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}
	if d.Type == "" {
		return Decision{}, fmt.Errorf("%w: missing type", ErrInvalidDecision)
	}
	if d.ID == "" {
		for _, h := range msg.Headers {
			if h.Key == HeaderEventID && len(h.Value) > 0 {
				d.ID = string(h.Value)
				break
			}
		}
	}
	if d.ID == "" {
		d.ID = fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	}
	return d, nil
}
