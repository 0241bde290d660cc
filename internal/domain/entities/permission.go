package entities

import "time"

// PermissionState is the state of a per-order documentation gate.
type PermissionState string

const (
	PermissionUnrequested PermissionState = "unrequested"
	PermissionPending     PermissionState = "pending"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
)

// PermissionRequest gates photographic evidence capture during execution.
// Unrequested -> Pending -> Granted|Denied; resolved states are terminal.
type PermissionRequest struct {
	State       PermissionState `json:"state"`
	Reason      string          `json:"reason,omitempty"`
	RequestedBy string          `json:"requested_by,omitempty"`
	RequestedAt time.Time       `json:"requested_at,omitzero"`
	RespondedAt time.Time       `json:"responded_at,omitzero"`
}

func NewPermissionRequest() PermissionRequest {
	return PermissionRequest{State: PermissionUnrequested}
}

func (p PermissionRequest) current() PermissionState {
	if p.State == "" {
		return PermissionUnrequested
	}
	return p.State
}

// Request moves the gate to Pending. Only valid while unrequested.
func (p PermissionRequest) Request(requestedBy, reason string, now time.Time) (PermissionRequest, error) {
	if p.current() != PermissionUnrequested {
		return p, &StateTransitionError{Entity: "permission", From: string(p.current()), Action: "request"}
	}
	return PermissionRequest{
		State:       PermissionPending,
		Reason:      reason,
		RequestedBy: requestedBy,
		RequestedAt: now,
	}, nil
}

// Respond resolves a pending request.
func (p PermissionRequest) Respond(granted bool, now time.Time) (PermissionRequest, error) {
	if p.current() != PermissionPending {
		return p, &StateTransitionError{Entity: "permission", From: string(p.current()), Action: "respond"}
	}
	next := p
	next.RespondedAt = now
	if granted {
		next.State = PermissionGranted
	} else {
		next.State = PermissionDenied
	}
	return next, nil
}

// CanUpload returns a PermissionError naming the current state unless granted.
func (p PermissionRequest) CanUpload() error {
	if s := p.current(); s != PermissionGranted {
		return &PermissionError{State: s}
	}
	return nil
}

// RequiresEvidence reports whether submission needs an "after" evidence item.
func (p PermissionRequest) RequiresEvidence() bool {
	return p.current() == PermissionGranted
}
