package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/pkg/apperror"
)

const transactionCachePrefix = "transactions:"

// cachedTransactionPage is the JSON envelope stored in the listing cache.
type cachedTransactionPage struct {
	Items []domain.Transaction `json:"items"`
	Total int64                `json:"total"`
}

// TransactionServiceImpl implements ports.TransactionService with
// pessimistic locking over both card rows.
type TransactionServiceImpl struct {
	txRepo     ports.TransactionRepository
	cardRepo   ports.CardRepository
	balanceSvc *BalanceService
	permSvc    *PermissionService
	transactor ports.DBTransactor
	cache      ports.ListingCache
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	txRepo ports.TransactionRepository,
	cardRepo ports.CardRepository,
	balanceSvc *BalanceService,
	permSvc *PermissionService,
	transactor ports.DBTransactor,
	cache ports.ListingCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txRepo:     txRepo,
		cardRepo:   cardRepo,
		balanceSvc: balanceSvc,
		permSvc:    permSvc,
		transactor: transactor,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// Create executes a card-to-card transfer. Both card rows are locked in
// ascending number order so two opposing transfers cannot deadlock, and
// the dual balance mutation commits atomically with the transfer record.
func (s *TransactionServiceImpl) Create(ctx context.Context, caller domain.Caller, req ports.TransferRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("transfer amount must be positive")
	}
	if req.SenderCardNumber == req.ReceiverCardNumber {
		return nil, apperror.Validation("sender and receiver cards must differ")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	first, second := req.SenderCardNumber, req.ReceiverCardNumber
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]*domain.Card, 2)
	for _, number := range []string{first, second} {
		card, err := s.cardRepo.GetByNumberForUpdate(ctx, dbTx, number)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock card: %w", err))
		}
		if card == nil {
			return nil, apperror.ErrNotFound("Card", domain.MaskCardNumber(number))
		}
		locked[number] = card
	}

	sender := locked[req.SenderCardNumber]
	receiver := locked[req.ReceiverCardNumber]

	if err := s.permSvc.HasRights(caller, sender.OwnerID); err != nil {
		return nil, err
	}
	if err := s.permSvc.HasRights(caller, receiver.OwnerID); err != nil {
		return nil, err
	}

	if err := s.balanceSvc.TransferFunds(ctx, dbTx, sender, receiver, req.Amount); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:                 uuid.New(),
		SenderCardNumber:   req.SenderCardNumber,
		ReceiverCardNumber: req.ReceiverCardNumber,
		Amount:             req.Amount,
		Status:             domain.TransactionStatusCompleted,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx)
	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("sender", domain.MaskCardNumber(req.SenderCardNumber)).
		Str("receiver", domain.MaskCardNumber(req.ReceiverCardNumber)).
		Str("amount", req.Amount.String()).
		Msg("transfer completed")
	return txn, nil
}

// GetByID returns a transaction. Non-admin callers must own the sender card.
func (s *TransactionServiceImpl) GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("Transaction", id.String())
	}

	if !caller.IsAdmin() {
		sender, err := s.cardRepo.GetByNumber(ctx, txn.SenderCardNumber)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get sender card: %w", err))
		}
		if sender == nil || sender.OwnerID != caller.ID {
			return nil, apperror.ErrAccessDenied()
		}
	}
	return txn, nil
}

// List returns a page of transactions. Admins see everything, other
// callers only transfers sent from their own cards.
func (s *TransactionServiceImpl) List(ctx context.Context, caller domain.Caller, page ports.PageParams) ([]domain.Transaction, int64, error) {
	params := ports.TransactionListParams{Page: page.Normalize()}
	if !caller.IsAdmin() {
		ownerID := caller.ID
		params.SenderOwnerID = &ownerID
	}

	key := s.listCacheKey(params)
	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("transaction listing cache read failed")
	} else if cached != nil {
		var cachedPage cachedTransactionPage
		if err := json.Unmarshal(cached, &cachedPage); err == nil {
			return cachedPage.Items, cachedPage.Total, nil
		}
		s.log.Warn().Str("key", key).Msg("dropping malformed transaction listing cache entry")
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}

	if data, err := json.Marshal(cachedTransactionPage{Items: txns, Total: total}); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("transaction listing cache write failed")
		}
	}
	return txns, total, nil
}

func (s *TransactionServiceImpl) listCacheKey(params ports.TransactionListParams) string {
	owner := "-"
	if params.SenderOwnerID != nil {
		owner = params.SenderOwnerID.String()
	}
	return fmt.Sprintf("%slist:%s:%d:%d", transactionCachePrefix, owner, params.Page.Page, params.Page.PageSize)
}

func (s *TransactionServiceImpl) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, transactionCachePrefix); err != nil {
		s.log.Warn().Err(err).Msg("transaction listing cache invalidation failed")
	}
}
