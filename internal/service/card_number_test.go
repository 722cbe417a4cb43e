package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports/mocks"
)

func TestCardNumberGenerator_Generate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cardRepo := mocks.NewMockCardRepository(ctrl)
	svc := NewCardNumberGeneratorService(cardRepo)
	ctx := context.Background()

	cardRepo.EXPECT().ExistsByNumber(ctx, gomock.Any()).Return(false, nil)

	number, err := svc.Generate(ctx)
	require.NoError(t, err)

	assert.Len(t, number, domain.CardNumberLength)
	assert.True(t, strings.HasPrefix(number, domain.BankIIN))

	// The last digit must be the Luhn check digit of the first fifteen.
	checkDigit, err := domain.CalculateLuhnCheckDigit(number[:domain.CardNumberLength-1])
	require.NoError(t, err)
	assert.Equal(t, checkDigit, number[len(number)-1:])
}

func TestCardNumberGenerator_Generate_RetriesOnCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cardRepo := mocks.NewMockCardRepository(ctrl)
	svc := NewCardNumberGeneratorService(cardRepo)
	ctx := context.Background()

	gomock.InOrder(
		cardRepo.EXPECT().ExistsByNumber(ctx, gomock.Any()).Return(true, nil),
		cardRepo.EXPECT().ExistsByNumber(ctx, gomock.Any()).Return(false, nil),
	)

	number, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Len(t, number, domain.CardNumberLength)
}

func TestCardNumberGenerator_Generate_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cardRepo := mocks.NewMockCardRepository(ctrl)
	svc := NewCardNumberGeneratorService(cardRepo)
	ctx := context.Background()

	cardRepo.EXPECT().ExistsByNumber(ctx, gomock.Any()).Return(false, fmt.Errorf("db down"))

	_, err := svc.Generate(ctx)
	assert.Error(t, err)
}

func TestCardNumberGenerator_Generate_SpaceExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cardRepo := mocks.NewMockCardRepository(ctrl)
	svc := NewCardNumberGeneratorService(cardRepo)
	ctx := context.Background()

	cardRepo.EXPECT().ExistsByNumber(ctx, gomock.Any()).Return(true, nil).Times(maxGenerateAttempts)

	_, err := svc.Generate(ctx)
	assert.Error(t, err)
}
