package dto

import (
	"bank-card-api/internal/core/domain"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for user self-registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateUserRequest is the admin request body for user creation.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"required,oneof=USER ADMIN"`
}

// UpdateUserRequest is the admin request body for a full user update.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"required,oneof=USER ADMIN"`
}

// UserResponse is the response body for user records.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserListResponse wraps a paginated user list.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// CreateCardRequest is the admin request body for card issuance.
// The card number is generated server-side, never supplied by the client.
type CreateCardRequest struct {
	OwnerID        string           `json:"owner_id" binding:"required,uuid"`
	ValidityPeriod domain.YearMonth `json:"validity_period" binding:"required"`
	Balance        decimal.Decimal  `json:"balance"`
}

// UpdateCardRequest is the admin request body for a full card update.
type UpdateCardRequest struct {
	OwnerID        string           `json:"owner_id" binding:"required,uuid"`
	ValidityPeriod domain.YearMonth `json:"validity_period" binding:"required"`
	Status         string           `json:"status" binding:"required,oneof=ACTIVE BLOCKED EXPIRED"`
	Balance        decimal.Decimal  `json:"balance"`
}

// CardResponse is the response body for card records.
// The card number is always masked to the last four digits.
type CardResponse struct {
	Number         string          `json:"number"`
	OwnerID        string          `json:"owner_id"`
	ValidityPeriod string          `json:"validity_period"`
	Status         string          `json:"status"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// CardListResponse wraps a paginated card list.
type CardListResponse struct {
	Items      []CardResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// TransferRequest is the request body for a card-to-card transfer.
type TransferRequest struct {
	SenderCardNumber   string          `json:"sender_card_number" binding:"required,card_number"`
	ReceiverCardNumber string          `json:"receiver_card_number" binding:"required,card_number"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
}

// TransactionResponse is the response body for transfer records.
type TransactionResponse struct {
	ID                 string          `json:"id"`
	SenderCardNumber   string          `json:"sender_card_number"`
	ReceiverCardNumber string          `json:"receiver_card_number"`
	Amount             decimal.Decimal `json:"amount"`
	Status             string          `json:"status"`
	CreatedAt          string          `json:"created_at"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// CreateBlockRequestRequest is the request body for a card block request.
type CreateBlockRequestRequest struct {
	CardNumber string `json:"card_number" binding:"required,card_number"`
}

// BlockRequestResponse is the response body for block request records.
type BlockRequestResponse struct {
	ID         string  `json:"id"`
	CardNumber string  `json:"card_number"`
	UserID     string  `json:"user_id"`
	Status     string  `json:"status"`
	AdminID    *string `json:"admin_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  *string `json:"updated_at,omitempty"`
}

// BlockRequestListResponse wraps a paginated block request list.
type BlockRequestListResponse struct {
	Items      []BlockRequestResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// PageQuery holds pagination query parameters shared by listing endpoints.
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CardListQuery holds the card listing query parameters.
type CardListQuery struct {
	PageQuery
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE BLOCKED EXPIRED"`
	Contains string `form:"contains" binding:"omitempty,max=16,numeric"`
	OwnerID  string `form:"owner_id" binding:"omitempty,uuid"`
}

// TotalPages computes the page count for a listing envelope.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return int(pages)
}
