package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bank-card-api/internal/core/domain"
)

// PageParams controls offset pagination on listing queries.
type PageParams struct {
	Page     int
	PageSize int
}

// Normalize clamps pagination to sane bounds.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// CardListParams filters card listings. Nil fields are not applied.
type CardListParams struct {
	OwnerID        *uuid.UUID
	Status         *domain.CardStatus
	NumberContains *string
	Page           PageParams
}

// TransactionListParams filters transaction listings. A non-nil
// SenderOwnerID restricts results to transfers sent from that user's cards.
type TransactionListParams struct {
	SenderOwnerID *uuid.UUID
	Page          PageParams
}

// BlockRequestListParams filters block request listings.
type BlockRequestListParams struct {
	UserID *uuid.UUID
	Page   PageParams
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, page PageParams) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CardRepository persists cards. The ForUpdate variants run inside the
// supplied transaction and take a row lock until it commits or rolls back.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByNumber(ctx context.Context, number string) (*domain.Card, error)
	GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, number string) (*domain.Card, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, params CardListParams) ([]domain.Card, int64, error)
	Update(ctx context.Context, card *domain.Card) error
	UpdateBalance(ctx context.Context, tx pgx.Tx, number string, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, number string, status domain.CardStatus) error
	Delete(ctx context.Context, number string) error
}

// TransactionRepository persists transfer records. Create runs inside the
// supplied transaction so the record commits atomically with the balance
// mutations it describes.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// BlockRequestRepository persists card block requests.
type BlockRequestRepository interface {
	Create(ctx context.Context, request *domain.BlockRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BlockRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BlockRequest, error)
	List(ctx context.Context, params BlockRequestListParams) ([]domain.BlockRequest, int64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus, adminID uuid.UUID, updatedAt time.Time) error
}

// DBTransactor begins database transactions for multi-statement operations.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
