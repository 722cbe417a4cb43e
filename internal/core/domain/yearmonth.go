package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// YearMonth is a card validity period with month precision.
// JSON representation is "MM/YY" (card embossing format); the database
// representation is "YYYY-MM".
type YearMonth struct {
	Year  int
	Month time.Month
}

// CurrentYearMonth returns the year-month of the current UTC instant.
func CurrentYearMonth() YearMonth {
	now := time.Now().UTC()
	return YearMonth{Year: now.Year(), Month: now.Month()}
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// String formats the period as "MM/YY".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%02d/%02d", int(ym.Month), ym.Year%100)
}

// ParseYearMonth parses the "MM/YY" card embossing format.
// Two-digit years map to 2000-2099.
func ParseYearMonth(s string) (YearMonth, error) {
	var month, year int
	if _, err := fmt.Sscanf(s, "%02d/%02d", &month, &year); err != nil || len(s) != 5 || s[2] != '/' {
		return YearMonth{}, fmt.Errorf("invalid validity period %q: expected MM/YY", s)
	}
	if month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("invalid validity period %q: month out of range", s)
	}
	return YearMonth{Year: 2000 + year, Month: time.Month(month)}, nil
}

// MarshalJSON implements json.Marshaler using the "MM/YY" format.
func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

// UnmarshalJSON implements json.Unmarshaler for the "MM/YY" format.
func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// Value implements driver.Valuer, storing the period as "YYYY-MM" text.
func (ym YearMonth) Value() (driver.Value, error) {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month)), nil
}

// Scan implements sql.Scanner for the "YYYY-MM" text representation.
func (ym *YearMonth) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into YearMonth", src)
	}
	var year, month int
	if _, err := fmt.Sscanf(s, "%04d-%02d", &year, &month); err != nil {
		return fmt.Errorf("invalid stored validity period %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid stored validity period %q: month out of range", s)
	}
	*ym = YearMonth{Year: year, Month: time.Month(month)}
	return nil
}
