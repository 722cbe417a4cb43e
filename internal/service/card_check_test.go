package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-card-api/internal/core/domain"
	"bank-card-api/pkg/apperror"
)

func TestCardCheckService_CheckValidityPeriod(t *testing.T) {
	svc := NewCardCheckService()

	t.Run("current month is valid", func(t *testing.T) {
		assert.NoError(t, svc.CheckValidityPeriod(domain.CurrentYearMonth()))
	})

	t.Run("future period is valid", func(t *testing.T) {
		assert.NoError(t, svc.CheckValidityPeriod(domain.YearMonth{Year: 2099, Month: time.December}))
	})

	t.Run("past period fails", func(t *testing.T) {
		err := svc.CheckValidityPeriod(domain.YearMonth{Year: 2020, Month: time.January})
		require.Error(t, err)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "CARD_001", appErr.Code)
	})
}

func TestCardCheckService_CheckStatus(t *testing.T) {
	svc := NewCardCheckService()

	tests := []struct {
		name    string
		status  domain.CardStatus
		wantErr bool
	}{
		{"active", domain.CardStatusActive, false},
		{"blocked", domain.CardStatusBlocked, true},
		{"expired", domain.CardStatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckStatus(tt.status)
			if tt.wantErr {
				var appErr *apperror.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, "CARD_001", appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCardCheckService_CheckBalanceBeforeTransfer(t *testing.T) {
	svc := NewCardCheckService()
	card := &domain.Card{
		Number:  "4000001234567899",
		Balance: decimal.NewFromInt(100),
	}

	t.Run("sufficient funds", func(t *testing.T) {
		assert.NoError(t, svc.CheckBalanceBeforeTransfer(card, decimal.NewFromInt(100)))
		assert.NoError(t, svc.CheckBalanceBeforeTransfer(card, decimal.NewFromInt(30)))
	})

	t.Run("insufficient funds", func(t *testing.T) {
		err := svc.CheckBalanceBeforeTransfer(card, decimal.NewFromInt(101))
		require.Error(t, err)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "CARD_002", appErr.Code)
		assert.Contains(t, appErr.Message, "insufficient funds on the 4000001234567899 card")
	})
}
