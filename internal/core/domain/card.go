package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardStatus represents the lifecycle state of a card.
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

// CardNumberLength is the full card number length including the check digit.
const CardNumberLength = 16

// BankIIN is the issuer identification number prefixed to every card.
const BankIIN = "400000"

// Card represents a funding instrument owned by a user.
// The 16-digit number is the primary identifier.
type Card struct {
	Number         string          `json:"number"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	ValidityPeriod YearMonth       `json:"validity_period"`
	Status         CardStatus      `json:"status"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsActive returns true if the card status is ACTIVE.
func (c *Card) IsActive() bool {
	return c.Status == CardStatusActive
}

// CalculateLuhnCheckDigit computes the Luhn check digit for a digit string.
// Processing runs right to left: every second digit is doubled, doubled
// values above 9 have 9 subtracted, and the check digit is
// (10 - sum mod 10) mod 10.
func CalculateLuhnCheckDigit(number string) (string, error) {
	if number == "" {
		return "", fmt.Errorf("card number must contain only digits")
	}
	sum := 0
	double := true
	for i := len(number) - 1; i >= 0; i-- {
		ch := number[i]
		if ch < '0' || ch > '9' {
			return "", fmt.Errorf("card number must contain only digits")
		}
		digit := int(ch - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return fmt.Sprintf("%d", (10-sum%10)%10), nil
}

// MaskCardNumber hides all but the last four digits of a card number.
func MaskCardNumber(number string) string {
	if len(number) < 4 {
		return "****"
	}
	return "**** **** **** " + number[len(number)-4:]
}
