package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username already exists")
		}
	}
	copied := *u
	r.users[u.ID] = &copied
	r.order = append(r.order, u.ID)
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *inMemoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := r.GetByUsername(ctx, username)
	return u != nil, err
}

func (r *inMemoryUserRepo) List(ctx context.Context, page ports.PageParams) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.User
	for _, id := range r.order {
		if u, ok := r.users[id]; ok {
			all = append(all, *u)
		}
	}
	return paginate(all, page)
}

func (r *inMemoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *inMemoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user not found")
	}
	delete(r.users, id)
	return nil
}

// --- In-Memory Card Repo ---

type inMemoryCardRepo struct {
	mu    sync.RWMutex
	cards map[string]*domain.Card
	order []string
}

func newInMemoryCardRepo() *inMemoryCardRepo {
	return &inMemoryCardRepo{cards: make(map[string]*domain.Card)}
}

func (r *inMemoryCardRepo) Create(ctx context.Context, c *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[c.Number]; ok {
		return fmt.Errorf("card number already exists")
	}
	copied := *c
	r.cards[c.Number] = &copied
	r.order = append(r.order, c.Number)
	return nil
}

func (r *inMemoryCardRepo) GetByNumber(ctx context.Context, number string) (*domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cards[number]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *inMemoryCardRepo) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, number string) (*domain.Card, error) {
	return r.GetByNumber(ctx, number)
}

func (r *inMemoryCardRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cards[number]
	return ok, nil
}

func (r *inMemoryCardRepo) List(ctx context.Context, params ports.CardListParams) ([]domain.Card, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.Card
	for _, number := range r.order {
		c, ok := r.cards[number]
		if !ok {
			continue
		}
		if params.OwnerID != nil && c.OwnerID != *params.OwnerID {
			continue
		}
		if params.Status != nil && c.Status != *params.Status {
			continue
		}
		if params.NumberContains != nil && !strings.Contains(c.Number, *params.NumberContains) {
			continue
		}
		all = append(all, *c)
	}
	return paginate(all, params.Page)
}

func (r *inMemoryCardRepo) Update(ctx context.Context, c *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[c.Number]; !ok {
		return fmt.Errorf("card not found")
	}
	copied := *c
	r.cards[c.Number] = &copied
	return nil
}

func (r *inMemoryCardRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, number string, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[number]
	if !ok {
		return fmt.Errorf("card not found")
	}
	c.Balance = balance
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryCardRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, number string, status domain.CardStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[number]
	if !ok {
		return fmt.Errorf("card not found")
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryCardRepo) Delete(ctx context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[number]; !ok {
		return fmt.Errorf("card not found")
	}
	delete(r.cards, number)
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	cards        *inMemoryCardRepo
}

func newInMemoryTransactionRepo(cards *inMemoryCardRepo) *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{cards: cards}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			copied := r.transactions[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.Transaction
	for _, t := range r.transactions {
		if params.SenderOwnerID != nil {
			sender, _ := r.cards.GetByNumber(ctx, t.SenderCardNumber)
			if sender == nil || sender.OwnerID != *params.SenderOwnerID {
				continue
			}
		}
		all = append(all, t)
	}
	return paginate(all, params.Page)
}

// --- In-Memory Block Request Repo ---

type inMemoryBlockRequestRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*domain.BlockRequest
	order    []uuid.UUID
}

func newInMemoryBlockRequestRepo() *inMemoryBlockRequestRepo {
	return &inMemoryBlockRequestRepo{requests: make(map[uuid.UUID]*domain.BlockRequest)}
}

func (r *inMemoryBlockRequestRepo) Create(ctx context.Context, req *domain.BlockRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *req
	r.requests[req.ID] = &copied
	r.order = append(r.order, req.ID)
	return nil
}

func (r *inMemoryBlockRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BlockRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (r *inMemoryBlockRequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BlockRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryBlockRequestRepo) List(ctx context.Context, params ports.BlockRequestListParams) ([]domain.BlockRequest, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.BlockRequest
	for _, id := range r.order {
		req, ok := r.requests[id]
		if !ok {
			continue
		}
		if params.UserID != nil && req.UserID != *params.UserID {
			continue
		}
		all = append(all, *req)
	}
	return paginate(all, params.Page)
}

func (r *inMemoryBlockRequestRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus, adminID uuid.UUID, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("block request not found")
	}
	req.Status = status
	req.AdminID = &adminID
	req.UpdatedAt = &updatedAt
	return nil
}

// paginate applies offset pagination to a fully materialised slice.
func paginate[T any](all []T, page ports.PageParams) ([]T, int64, error) {
	total := int64(len(all))
	page = page.Normalize()
	start := page.Offset()
	if start >= len(all) {
		return []T{}, total, nil
	}
	end := start + page.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serialises transactions with a single mutex, standing in
// for the row locks a real database would take. Commit or Rollback releases it.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: t.mu.Unlock}, nil
}

// serialTx is a pgx.Tx that only tracks the transactor lock.
type serialTx struct {
	mu       sync.Mutex
	release  func()
	finished bool
}

func (t *serialTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.finished {
		t.finished = true
		t.release()
	}
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }
