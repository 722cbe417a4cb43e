package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
)

// BalanceService moves funds between two locked cards.
type BalanceService struct {
	cardRepo ports.CardRepository
	checkSvc *CardCheckService
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(cardRepo ports.CardRepository, checkSvc *CardCheckService) *BalanceService {
	return &BalanceService{
		cardRepo: cardRepo,
		checkSvc: checkSvc,
	}
}

// TransferFunds validates both cards and applies the dual balance
// mutation inside the caller's transaction. Both card rows must already
// be locked. Check order: sender validity, receiver validity, sender
// status, receiver status, sender balance.
func (s *BalanceService) TransferFunds(ctx context.Context, dbTx pgx.Tx, sender, receiver *domain.Card, amount decimal.Decimal) error {
	if err := s.checkSvc.CheckValidityPeriod(sender.ValidityPeriod); err != nil {
		return err
	}
	if err := s.checkSvc.CheckValidityPeriod(receiver.ValidityPeriod); err != nil {
		return err
	}
	if err := s.checkSvc.CheckStatus(sender.Status); err != nil {
		return err
	}
	if err := s.checkSvc.CheckStatus(receiver.Status); err != nil {
		return err
	}
	if err := s.checkSvc.CheckBalanceBeforeTransfer(sender, amount); err != nil {
		return err
	}

	sender.Balance = sender.Balance.Sub(amount)
	receiver.Balance = receiver.Balance.Add(amount)

	if err := s.cardRepo.UpdateBalance(ctx, dbTx, sender.Number, sender.Balance); err != nil {
		return fmt.Errorf("debit sender: %w", err)
	}
	if err := s.cardRepo.UpdateBalance(ctx, dbTx, receiver.Number, receiver.Balance); err != nil {
		return fmt.Errorf("credit receiver: %w", err)
	}
	return nil
}
