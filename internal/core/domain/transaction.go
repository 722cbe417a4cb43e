package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a transfer record.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

// Transaction is an immutable record of a completed card-to-card transfer.
// It is created exactly once per successful transfer and never mutated.
type Transaction struct {
	ID                 uuid.UUID         `json:"id"`
	SenderCardNumber   string            `json:"sender_card_number"`
	ReceiverCardNumber string            `json:"receiver_card_number"`
	Amount             decimal.Decimal   `json:"amount"`
	Status             TransactionStatus `json:"status"`
	CreatedAt          time.Time         `json:"created_at"`
}
