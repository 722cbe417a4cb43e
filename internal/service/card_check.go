package service

import (
	"github.com/shopspring/decimal"

	"bank-card-api/internal/core/domain"
	"bank-card-api/pkg/apperror"
)

// CardCheckService groups the card state checks shared by the transfer
// and block request flows. Checks are pure and safe to call while the
// card row is locked.
type CardCheckService struct{}

// NewCardCheckService creates a new CardCheckService.
func NewCardCheckService() *CardCheckService {
	return &CardCheckService{}
}

// CheckValidityPeriod fails if the card expired before the current month.
// A card expiring this month is still usable.
func (s *CardCheckService) CheckValidityPeriod(validityPeriod domain.YearMonth) error {
	if validityPeriod.Before(domain.CurrentYearMonth()) {
		return apperror.ErrInactiveCard("Incorrect card expiration date")
	}
	return nil
}

// CheckStatus fails unless the card status is ACTIVE.
func (s *CardCheckService) CheckStatus(status domain.CardStatus) error {
	if status != domain.CardStatusActive {
		return apperror.ErrInactiveCard("The card is inactive")
	}
	return nil
}

// CheckBalanceBeforeTransfer fails if the card balance cannot cover amount.
func (s *CardCheckService) CheckBalanceBeforeTransfer(card *domain.Card, amount decimal.Decimal) error {
	if card.Balance.LessThan(amount) {
		return apperror.ErrInsufficientFunds(card.Number)
	}
	return nil
}
