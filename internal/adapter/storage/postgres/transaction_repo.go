package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, sender_card_number, receiver_card_number, amount, status, created_at`

// Create inserts a transfer record within the caller's transaction so it
// commits atomically with the balance mutations.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, sender_card_number, receiver_card_number, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.SenderCardNumber, t.ReceiverCardNumber, t.Amount, t.Status, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.SenderCardNumber, &t.ReceiverCardNumber, &t.Amount, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// List returns a page of transactions. A non-nil SenderOwnerID joins
// against cards to restrict results to transfers sent from that user's
// cards.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	from := `FROM transactions t`
	where := ""
	args := []any{}

	if params.SenderOwnerID != nil {
		from += ` JOIN cards c ON c.number = t.sender_card_number`
		where = ` WHERE c.owner_id = $1`
		args = append(args, *params.SenderOwnerID)
	}

	var total int64
	countQuery := `SELECT COUNT(*) ` + from + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT t.id, t.sender_card_number, t.receiver_card_number, t.amount, t.status, t.created_at %s%s
		ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`,
		from, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.Page.PageSize, params.Page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.SenderCardNumber, &t.ReceiverCardNumber, &t.Amount, &t.Status, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, total, nil
}
