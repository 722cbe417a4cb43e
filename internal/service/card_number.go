package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/pkg/apperror"
)

// maxGenerateAttempts bounds the collision retry loop so an exhausted
// number space cannot spin forever.
const maxGenerateAttempts = 1000

// CardNumberGeneratorService issues unique 16-digit Luhn-valid card
// numbers starting with the bank IIN.
type CardNumberGeneratorService struct {
	cardRepo ports.CardRepository
}

// NewCardNumberGeneratorService creates a new CardNumberGeneratorService.
func NewCardNumberGeneratorService(cardRepo ports.CardRepository) *CardNumberGeneratorService {
	return &CardNumberGeneratorService{cardRepo: cardRepo}
}

// Generate returns a card number not yet present in storage. It draws
// random payloads and retries on collision.
func (s *CardNumberGeneratorService) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		number, err := randomCardNumber()
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("generate card number: %w", err))
		}

		exists, err := s.cardRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("check card number uniqueness: %w", err))
		}
		if !exists {
			return number, nil
		}
	}
	return "", apperror.InternalError(fmt.Errorf("card number space exhausted after %d attempts", maxGenerateAttempts))
}

// randomCardNumber builds IIN + 9 random digits + Luhn check digit.
func randomCardNumber() (string, error) {
	payload := domain.BankIIN
	for len(payload) < domain.CardNumberLength-1 {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		payload += d.String()
	}

	checkDigit, err := domain.CalculateLuhnCheckDigit(payload)
	if err != nil {
		return "", err
	}
	return payload + checkDigit, nil
}
