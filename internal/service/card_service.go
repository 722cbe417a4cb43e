package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/pkg/apperror"
)

// cardCachePrefix scopes every card listing cache key, so a single
// prefix invalidation drops all cached pages after a write.
const cardCachePrefix = "cards:"

// cachedCardPage is the JSON envelope stored in the listing cache.
type cachedCardPage struct {
	Items []domain.Card `json:"items"`
	Total int64         `json:"total"`
}

// CardServiceImpl implements ports.CardService.
type CardServiceImpl struct {
	cardRepo ports.CardRepository
	userRepo ports.UserRepository
	numGen   ports.CardNumberGenerator
	permSvc  *PermissionService
	cache    ports.ListingCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewCardService creates a new CardServiceImpl.
func NewCardService(
	cardRepo ports.CardRepository,
	userRepo ports.UserRepository,
	numGen ports.CardNumberGenerator,
	permSvc *PermissionService,
	cache ports.ListingCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *CardServiceImpl {
	return &CardServiceImpl{
		cardRepo: cardRepo,
		userRepo: userRepo,
		numGen:   numGen,
		permSvc:  permSvc,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Create issues a new ACTIVE card for an existing user.
func (s *CardServiceImpl) Create(ctx context.Context, req ports.CreateCardRequest) (*domain.Card, error) {
	if req.Balance.IsNegative() {
		return nil, apperror.Validation("initial balance must not be negative")
	}
	if req.ValidityPeriod.Before(domain.CurrentYearMonth()) {
		return nil, apperror.Validation("validity period must not be in the past")
	}

	owner, err := s.userRepo.GetByID(ctx, req.OwnerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get owner: %w", err))
	}
	if owner == nil {
		return nil, apperror.ErrNotFound("User", req.OwnerID.String())
	}

	number, err := s.numGen.Generate(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &domain.Card{
		Number:         number,
		OwnerID:        req.OwnerID,
		ValidityPeriod: req.ValidityPeriod,
		Status:         domain.CardStatusActive,
		Balance:        req.Balance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create card: %w", err))
	}

	s.invalidateCache(ctx)
	s.log.Info().Str("card", domain.MaskCardNumber(number)).Str("owner_id", req.OwnerID.String()).Msg("card issued")
	return card, nil
}

// GetByNumber returns a card after the owner-or-admin check.
func (s *CardServiceImpl) GetByNumber(ctx context.Context, caller domain.Caller, number string) (*domain.Card, error) {
	card, err := s.cardRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get card: %w", err))
	}
	if card == nil {
		return nil, apperror.ErrNotFound("Card", domain.MaskCardNumber(number))
	}
	if err := s.permSvc.HasRights(caller, card.OwnerID); err != nil {
		return nil, err
	}
	return card, nil
}

// List returns a filtered page of cards. Non-admin callers only ever
// see their own cards regardless of the requested filter.
func (s *CardServiceImpl) List(ctx context.Context, caller domain.Caller, filter ports.CardFilter) ([]domain.Card, int64, error) {
	params := ports.CardListParams{
		OwnerID:        filter.OwnerID,
		Status:         filter.Status,
		NumberContains: filter.NumberContains,
		Page:           filter.Page.Normalize(),
	}
	if !caller.IsAdmin() {
		ownerID := caller.ID
		params.OwnerID = &ownerID
	}

	key := s.listCacheKey(params)
	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("card listing cache read failed")
	} else if cached != nil {
		var page cachedCardPage
		if err := json.Unmarshal(cached, &page); err == nil {
			return page.Items, page.Total, nil
		}
		s.log.Warn().Str("key", key).Msg("dropping malformed card listing cache entry")
	}

	cards, total, err := s.cardRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list cards: %w", err))
	}

	if data, err := json.Marshal(cachedCardPage{Items: cards, Total: total}); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("card listing cache write failed")
		}
	}
	return cards, total, nil
}

// Update replaces the mutable fields of a card.
func (s *CardServiceImpl) Update(ctx context.Context, caller domain.Caller, number string, req ports.UpdateCardRequest) (*domain.Card, error) {
	card, err := s.GetByNumber(ctx, caller, number)
	if err != nil {
		return nil, err
	}
	if req.Balance.IsNegative() {
		return nil, apperror.Validation("balance must not be negative")
	}

	owner, err := s.userRepo.GetByID(ctx, req.OwnerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get owner: %w", err))
	}
	if owner == nil {
		return nil, apperror.ErrNotFound("User", req.OwnerID.String())
	}

	card.OwnerID = req.OwnerID
	card.ValidityPeriod = req.ValidityPeriod
	card.Status = req.Status
	card.Balance = req.Balance
	card.UpdatedAt = time.Now().UTC()

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update card: %w", err))
	}

	s.invalidateCache(ctx)
	s.log.Info().Str("card", domain.MaskCardNumber(number)).Msg("card updated")
	return card, nil
}

// Delete removes a card after the owner-or-admin check.
func (s *CardServiceImpl) Delete(ctx context.Context, caller domain.Caller, number string) error {
	if _, err := s.GetByNumber(ctx, caller, number); err != nil {
		return err
	}

	if err := s.cardRepo.Delete(ctx, number); err != nil {
		return apperror.InternalError(fmt.Errorf("delete card: %w", err))
	}

	s.invalidateCache(ctx)
	s.log.Info().Str("card", domain.MaskCardNumber(number)).Msg("card deleted")
	return nil
}

func (s *CardServiceImpl) listCacheKey(params ports.CardListParams) string {
	owner, status, contains := "-", "-", "-"
	if params.OwnerID != nil {
		owner = params.OwnerID.String()
	}
	if params.Status != nil {
		status = string(*params.Status)
	}
	if params.NumberContains != nil {
		contains = *params.NumberContains
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%d:%d", cardCachePrefix, owner, status, contains, params.Page.Page, params.Page.PageSize)
}

// invalidateCache drops cached card listings. Failures are logged, not
// surfaced: the write already committed.
func (s *CardServiceImpl) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, cardCachePrefix); err != nil {
		s.log.Warn().Err(err).Msg("card listing cache invalidation failed")
	}
}
