package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
)

// BlockRequestRepo implements ports.BlockRequestRepository.
type BlockRequestRepo struct {
	pool Pool
}

// NewBlockRequestRepo creates a new BlockRequestRepo.
func NewBlockRequestRepo(pool Pool) *BlockRequestRepo {
	return &BlockRequestRepo{pool: pool}
}

const blockRequestColumns = `id, card_number, user_id, status, admin_id, created_at, updated_at`

func scanBlockRequest(row pgx.Row) (*domain.BlockRequest, error) {
	b := &domain.BlockRequest{}
	err := row.Scan(
		&b.ID, &b.CardNumber, &b.UserID, &b.Status, &b.AdminID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// Create inserts a new block request.
func (r *BlockRequestRepo) Create(ctx context.Context, b *domain.BlockRequest) error {
	query := `INSERT INTO block_requests (id, card_number, user_id, status, admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.CardNumber, b.UserID, b.Status, b.AdminID, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert block request: %w", err)
	}
	return nil
}

// GetByID fetches a block request by UUID (non-locking read).
func (r *BlockRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BlockRequest, error) {
	query := `SELECT ` + blockRequestColumns + ` FROM block_requests WHERE id = $1`

	b, err := scanBlockRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get block request by id: %w", err)
	}
	return b, nil
}

// GetByIDForUpdate fetches a block request with pessimistic locking.
// This MUST be called within a transaction.
func (r *BlockRequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BlockRequest, error) {
	query := `SELECT ` + blockRequestColumns + ` FROM block_requests WHERE id = $1 FOR UPDATE`

	b, err := scanBlockRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get block request for update: %w", err)
	}
	return b, nil
}

// List returns a page of block requests. A non-nil UserID restricts
// results to that requester's rows.
func (r *BlockRequestRepo) List(ctx context.Context, params ports.BlockRequestListParams) ([]domain.BlockRequest, int64, error) {
	where := ""
	args := []any{}

	if params.UserID != nil {
		where = ` WHERE user_id = $1`
		args = append(args, *params.UserID)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM block_requests` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count block requests: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM block_requests%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		blockRequestColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.Page.PageSize, params.Page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list block requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.BlockRequest
	for rows.Next() {
		var b domain.BlockRequest
		if err := rows.Scan(&b.ID, &b.CardNumber, &b.UserID, &b.Status, &b.AdminID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan block request: %w", err)
		}
		requests = append(requests, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate block requests: %w", err)
	}
	return requests, total, nil
}

// UpdateStatus finalizes a request decision within a transaction.
func (r *BlockRequestRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus, adminID uuid.UUID, updatedAt time.Time) error {
	query := `UPDATE block_requests SET status = $1, admin_id = $2, updated_at = $3 WHERE id = $4`

	tag, err := tx.Exec(ctx, query, status, adminID, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update block request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("block request not found: %s", id)
	}
	return nil
}
