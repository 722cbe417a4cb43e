package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-card-api/internal/core/domain"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.Role
}

// CardNumberGenerator issues unique Luhn-valid card numbers.
type CardNumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// ListingCache is the Redis-layer read cache for listing endpoints.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// --- Service Ports (Business Logic) ---

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// UserService defines admin-side user management.
type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, page PageParams) ([]domain.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateUserRequest holds validated input for user creation.
type CreateUserRequest struct {
	Username string
	Password string
	Role     domain.Role
}

// UpdateUserRequest holds validated input for a full user update.
type UpdateUserRequest struct {
	Username string
	Password string
	Role     domain.Role
}

// CardService defines card management business logic.
type CardService interface {
	Create(ctx context.Context, req CreateCardRequest) (*domain.Card, error)
	GetByNumber(ctx context.Context, caller domain.Caller, number string) (*domain.Card, error)
	List(ctx context.Context, caller domain.Caller, filter CardFilter) ([]domain.Card, int64, error)
	Update(ctx context.Context, caller domain.Caller, number string, req UpdateCardRequest) (*domain.Card, error)
	Delete(ctx context.Context, caller domain.Caller, number string) error
}

// CreateCardRequest holds validated input for card issuance.
type CreateCardRequest struct {
	OwnerID        uuid.UUID
	ValidityPeriod domain.YearMonth
	Balance        decimal.Decimal
}

// UpdateCardRequest holds validated input for a full card update.
type UpdateCardRequest struct {
	OwnerID        uuid.UUID
	ValidityPeriod domain.YearMonth
	Status         domain.CardStatus
	Balance        decimal.Decimal
}

// CardFilter holds optional listing filters. Nil fields are not applied.
type CardFilter struct {
	Status         *domain.CardStatus
	NumberContains *string
	OwnerID        *uuid.UUID
	Page           PageParams
}

// TransactionService defines transfer business logic.
type TransactionService interface {
	Create(ctx context.Context, caller domain.Caller, req TransferRequest) (*domain.Transaction, error)
	GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, caller domain.Caller, page PageParams) ([]domain.Transaction, int64, error)
}

// TransferRequest holds validated input for a card-to-card transfer.
type TransferRequest struct {
	SenderCardNumber   string
	ReceiverCardNumber string
	Amount             decimal.Decimal
}

// BlockRequestService defines the card block request workflow.
type BlockRequestService interface {
	Create(ctx context.Context, caller domain.Caller, cardNumber string) (*domain.BlockRequest, error)
	GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.BlockRequest, error)
	List(ctx context.Context, caller domain.Caller, page PageParams) ([]domain.BlockRequest, int64, error)
	Approve(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.BlockRequest, error)
	Reject(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.BlockRequest, error)
}
