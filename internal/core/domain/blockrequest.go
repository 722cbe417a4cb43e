package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the state of a card block request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// BlockRequest is a workflow entity asking for a card to be frozen.
// It starts PENDING and transitions exactly once to APPROVED or REJECTED
// by an admin; approval also blocks the referenced card.
type BlockRequest struct {
	ID         uuid.UUID     `json:"id"`
	CardNumber string        `json:"card_number"`
	UserID     uuid.UUID     `json:"user_id"`
	Status     RequestStatus `json:"status"`
	AdminID    *uuid.UUID    `json:"admin_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  *time.Time    `json:"updated_at,omitempty"`
}

// IsProcessed returns true if the request has left the PENDING state.
func (r *BlockRequest) IsProcessed() bool {
	return r.Status != RequestStatusPending
}
