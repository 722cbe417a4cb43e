package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/pkg/apperror"
)

// BlockRequestServiceImpl implements the card block request workflow.
// A request starts PENDING and transitions exactly once; approval also
// blocks the referenced card in the same database transaction.
type BlockRequestServiceImpl struct {
	reqRepo    ports.BlockRequestRepository
	cardRepo   ports.CardRepository
	permSvc    *PermissionService
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewBlockRequestService creates a new BlockRequestServiceImpl.
func NewBlockRequestService(
	reqRepo ports.BlockRequestRepository,
	cardRepo ports.CardRepository,
	permSvc *PermissionService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *BlockRequestServiceImpl {
	return &BlockRequestServiceImpl{
		reqRepo:    reqRepo,
		cardRepo:   cardRepo,
		permSvc:    permSvc,
		transactor: transactor,
		log:        log,
	}
}

// Create files a PENDING block request for a card the caller may access.
func (s *BlockRequestServiceImpl) Create(ctx context.Context, caller domain.Caller, cardNumber string) (*domain.BlockRequest, error) {
	card, err := s.cardRepo.GetByNumber(ctx, cardNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get card: %w", err))
	}
	if card == nil {
		return nil, apperror.ErrNotFound("Card", domain.MaskCardNumber(cardNumber))
	}
	if err := s.permSvc.HasRights(caller, card.OwnerID); err != nil {
		return nil, err
	}
	if card.Status == domain.CardStatusBlocked {
		return nil, apperror.ErrCardAlreadyBlocked()
	}

	request := &domain.BlockRequest{
		ID:         uuid.New(),
		CardNumber: cardNumber,
		UserID:     caller.ID,
		Status:     domain.RequestStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.reqRepo.Create(ctx, request); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create block request: %w", err))
	}

	s.log.Info().
		Str("request_id", request.ID.String()).
		Str("card", domain.MaskCardNumber(cardNumber)).
		Msg("block request created")
	return request, nil
}

// GetByID returns a block request after the owner-or-admin check.
func (s *BlockRequestServiceImpl) GetByID(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.BlockRequest, error) {
	request, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get block request: %w", err))
	}
	if request == nil {
		return nil, apperror.ErrNotFound("Block request", id.String())
	}
	if err := s.permSvc.HasRights(caller, request.UserID); err != nil {
		return nil, err
	}
	return request, nil
}

// List returns a page of block requests. Admins see everything, other
// callers only their own requests.
func (s *BlockRequestServiceImpl) List(ctx context.Context, caller domain.Caller, page ports.PageParams) ([]domain.BlockRequest, int64, error) {
	params := ports.BlockRequestListParams{Page: page.Normalize()}
	if !caller.IsAdmin() {
		userID := caller.ID
		params.UserID = &userID
	}

	requests, total, err := s.reqRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list block requests: %w", err))
	}
	return requests, total, nil
}

// Approve marks a PENDING request APPROVED and blocks the card. Both
// writes share one database transaction; the request row is locked so
// two admins cannot process it twice.
func (s *BlockRequestServiceImpl) Approve(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.BlockRequest, error) {
	return s.process(ctx, caller, id, domain.RequestStatusApproved)
}

// Reject marks a PENDING request REJECTED without touching the card.
func (s *BlockRequestServiceImpl) Reject(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.BlockRequest, error) {
	return s.process(ctx, caller, id, domain.RequestStatusRejected)
}

func (s *BlockRequestServiceImpl) process(ctx context.Context, caller domain.Caller, id uuid.UUID, decision domain.RequestStatus) (*domain.BlockRequest, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	request, err := s.reqRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock block request: %w", err))
	}
	if request == nil {
		return nil, apperror.ErrNotFound("Block request", id.String())
	}
	if request.IsProcessed() {
		return nil, apperror.ErrRequestAlreadyProcessed()
	}

	if decision == domain.RequestStatusApproved {
		card, err := s.cardRepo.GetByNumberForUpdate(ctx, dbTx, request.CardNumber)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock card: %w", err))
		}
		if card == nil {
			return nil, apperror.ErrNotFound("Card", domain.MaskCardNumber(request.CardNumber))
		}
		if err := s.cardRepo.UpdateStatus(ctx, dbTx, card.Number, domain.CardStatusBlocked); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("block card: %w", err))
		}
	}

	now := time.Now().UTC()
	if err := s.reqRepo.UpdateStatus(ctx, dbTx, id, decision, caller.ID, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update block request: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	adminID := caller.ID
	request.Status = decision
	request.AdminID = &adminID
	request.UpdatedAt = &now

	s.log.Info().
		Str("request_id", id.String()).
		Str("decision", string(decision)).
		Str("admin_id", adminID.String()).
		Msg("block request processed")
	return request, nil
}
