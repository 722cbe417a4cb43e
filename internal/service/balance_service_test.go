package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports/mocks"
	"bank-card-api/pkg/apperror"
)

func activeCard(number string, balance int64) *domain.Card {
	return &domain.Card{
		Number:         number,
		OwnerID:        uuid.New(),
		ValidityPeriod: domain.YearMonth{Year: 2099, Month: time.December},
		Status:         domain.CardStatusActive,
		Balance:        decimal.NewFromInt(balance),
	}
}

func TestBalanceService_TransferFunds_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cardRepo := mocks.NewMockCardRepository(ctrl)
	svc := NewBalanceService(cardRepo, NewCardCheckService())

	ctx := context.Background()
	tx := &mockTx{}
	sender := activeCard("4000001111111115", 100)
	receiver := activeCard("4000002222222226", 50)
	amount := decimal.NewFromInt(30)

	cardRepo.EXPECT().UpdateBalance(ctx, tx, sender.Number, decimal.NewFromInt(70)).Return(nil)
	cardRepo.EXPECT().UpdateBalance(ctx, tx, receiver.Number, decimal.NewFromInt(80)).Return(nil)

	require.NoError(t, svc.TransferFunds(ctx, tx, sender, receiver, amount))
	assert.True(t, sender.Balance.Equal(decimal.NewFromInt(70)))
	assert.True(t, receiver.Balance.Equal(decimal.NewFromInt(80)))
}

func TestBalanceService_TransferFunds_CheckFailures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(sender, receiver *domain.Card)
		amount   int64
		wantCode string
	}{
		{
			name:     "expired sender",
			mutate:   func(s, _ *domain.Card) { s.ValidityPeriod = domain.YearMonth{Year: 2020, Month: time.January} },
			amount:   10,
			wantCode: "CARD_001",
		},
		{
			name:     "expired receiver",
			mutate:   func(_, r *domain.Card) { r.ValidityPeriod = domain.YearMonth{Year: 2020, Month: time.January} },
			amount:   10,
			wantCode: "CARD_001",
		},
		{
			name:     "blocked sender",
			mutate:   func(s, _ *domain.Card) { s.Status = domain.CardStatusBlocked },
			amount:   10,
			wantCode: "CARD_001",
		},
		{
			name:     "blocked receiver",
			mutate:   func(_, r *domain.Card) { r.Status = domain.CardStatusBlocked },
			amount:   10,
			wantCode: "CARD_001",
		},
		{
			name:     "insufficient funds",
			mutate:   func(_, _ *domain.Card) {},
			amount:   101,
			wantCode: "CARD_002",
		},
		{
			// Validity is checked before balance, so an expired sender that
			// also lacks funds still reports the expiration failure.
			name:     "expired sender with insufficient funds",
			mutate:   func(s, _ *domain.Card) { s.ValidityPeriod = domain.YearMonth{Year: 2020, Month: time.January} },
			amount:   101,
			wantCode: "CARD_001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			cardRepo := mocks.NewMockCardRepository(ctrl)
			svc := NewBalanceService(cardRepo, NewCardCheckService())

			sender := activeCard("4000001111111115", 100)
			receiver := activeCard("4000002222222226", 50)
			tt.mutate(sender, receiver)

			err := svc.TransferFunds(context.Background(), &mockTx{}, sender, receiver, decimal.NewFromInt(tt.amount))
			require.Error(t, err)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)

			// No writes on a failed check.
			assert.True(t, sender.Balance.Equal(decimal.NewFromInt(100)))
			assert.True(t, receiver.Balance.Equal(decimal.NewFromInt(50)))
		})
	}
}

func TestBalanceService_TransferFunds_DebitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cardRepo := mocks.NewMockCardRepository(ctrl)
	svc := NewBalanceService(cardRepo, NewCardCheckService())

	ctx := context.Background()
	tx := &mockTx{}
	sender := activeCard("4000001111111115", 100)
	receiver := activeCard("4000002222222226", 50)

	cardRepo.EXPECT().UpdateBalance(ctx, tx, sender.Number, gomock.Any()).Return(errors.New("db down"))

	err := svc.TransferFunds(ctx, tx, sender, receiver, decimal.NewFromInt(10))
	assert.Error(t, err)
}
