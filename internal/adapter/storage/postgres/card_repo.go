package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
)

// CardRepo implements ports.CardRepository.
type CardRepo struct {
	pool Pool
}

// NewCardRepo creates a new CardRepo.
func NewCardRepo(pool Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

const cardColumns = `number, owner_id, validity_period, status, balance, created_at, updated_at`

// likeEscaper neutralizes LIKE metacharacters so filter values match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanCard(row pgx.Row) (*domain.Card, error) {
	c := &domain.Card{}
	err := row.Scan(
		&c.Number, &c.OwnerID, &c.ValidityPeriod, &c.Status, &c.Balance, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Create inserts a new card into the database.
func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	query := `INSERT INTO cards (number, owner_id, validity_period, status, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.Number, c.OwnerID, c.ValidityPeriod, c.Status, c.Balance, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// GetByNumber fetches a card by its number (non-locking read).
func (r *CardRepo) GetByNumber(ctx context.Context, number string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE number = $1`

	card, err := scanCard(r.pool.QueryRow(ctx, query, number))
	if err != nil {
		return nil, fmt.Errorf("get card by number: %w", err)
	}
	return card, nil
}

// GetByNumberForUpdate fetches a card with pessimistic locking.
// This MUST be called within a transaction.
func (r *CardRepo) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, number string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE number = $1 FOR UPDATE`

	card, err := scanCard(tx.QueryRow(ctx, query, number))
	if err != nil {
		return nil, fmt.Errorf("get card for update: %w", err)
	}
	return card, nil
}

// ExistsByNumber reports whether a card number is already issued.
func (r *CardRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM cards WHERE number = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("check card exists: %w", err)
	}
	return exists, nil
}

// List returns a filtered page of cards plus the total matching count.
func (r *CardRepo) List(ctx context.Context, params ports.CardListParams) ([]domain.Card, int64, error) {
	where := []string{}
	args := []any{}
	argPos := 1

	if params.OwnerID != nil {
		where = append(where, fmt.Sprintf("owner_id = $%d", argPos))
		args = append(args, *params.OwnerID)
		argPos++
	}
	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *params.Status)
		argPos++
	}
	if params.NumberContains != nil {
		where = append(where, fmt.Sprintf(`number LIKE $%d ESCAPE '\'`, argPos))
		args = append(args, "%"+likeEscaper.Replace(*params.NumberContains)+"%")
		argPos++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM cards` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM cards%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		cardColumns, whereClause, argPos, argPos+1,
	)
	args = append(args, params.Page.PageSize, params.Page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.Number, &c.OwnerID, &c.ValidityPeriod, &c.Status, &c.Balance, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, total, nil
}

// Update rewrites the mutable fields of a card.
func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	query := `UPDATE cards SET owner_id = $1, validity_period = $2, status = $3, balance = $4, updated_at = $5
		WHERE number = $6`

	tag, err := r.pool.Exec(ctx, query,
		c.OwnerID, c.ValidityPeriod, c.Status, c.Balance, c.UpdatedAt, c.Number,
	)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card not found: %s", domain.MaskCardNumber(c.Number))
	}
	return nil
}

// UpdateBalance sets a card's balance within a transaction.
func (r *CardRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, number string, balance decimal.Decimal) error {
	query := `UPDATE cards SET balance = $1, updated_at = NOW() WHERE number = $2`

	tag, err := tx.Exec(ctx, query, balance, number)
	if err != nil {
		return fmt.Errorf("update card balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card not found: %s", domain.MaskCardNumber(number))
	}
	return nil
}

// UpdateStatus sets a card's status within a transaction.
func (r *CardRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, number string, status domain.CardStatus) error {
	query := `UPDATE cards SET status = $1, updated_at = NOW() WHERE number = $2`

	tag, err := tx.Exec(ctx, query, status, number)
	if err != nil {
		return fmt.Errorf("update card status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card not found: %s", domain.MaskCardNumber(number))
	}
	return nil
}

// Delete removes a card by number.
func (r *CardRepo) Delete(ctx context.Context, number string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE number = $1`, number)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card not found: %s", domain.MaskCardNumber(number))
	}
	return nil
}
