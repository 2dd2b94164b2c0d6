package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by every Money value
const Scale int32 = 2

// Money construction errors
var (
	ErrInvalidAmount  = errors.New("amount is not a valid decimal")
	ErrInvalidScale   = errors.New("amount has more than 2 decimal places")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Money is a value object representing a non-negative monetary amount
// with exactly two fractional digits.
// It is immutable - all operations return new Money instances
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal, rejecting negative values and
// values written with more than two fractional digits. Trailing zeros count:
// "1.500" is rejected just like "1.501".
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.Exponent() < -Scale {
		return Money{}, ErrInvalidScale
	}
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: amount.Round(Scale)}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return NewMoney(d)
}

// NewMoneyFromInt creates Money holding a whole number of units
func NewMoneyFromInt(amount int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount))
}

// MustNewMoneyFromString is like NewMoneyFromString but panics on error.
// Intended for constants and tests.
func MustNewMoneyFromString(amount string) Money {
	m, err := NewMoneyFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// RestoreMoney rebuilds Money from a trusted persisted value, normalizing it
// to two fractional digits
func RestoreMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(Scale)}
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(Scale)}
}

// Subtract returns a new Money with the difference.
// Callers check sufficiency first; a negative result is still rejected.
func (m Money) Subtract(other Money) (Money, error) {
	diff := m.amount.Sub(other.amount).Round(Scale)
	if diff.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: diff}, nil
}

// Compare returns -1, 0 or 1 when m is less than, equal to or greater than other
func (m Money) Compare(other Money) int {
	return m.amount.Cmp(other.amount)
}

// Equals returns true if both Money values are numerically equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// String returns the amount with exactly two decimal places
func (m Money) String() string {
	return m.amount.StringFixed(Scale)
}

// MarshalJSON encodes Money as a fixed two-decimal string, e.g. "40.00"
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON string or number and applies the same
// validation as NewMoney
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	parsed, err := NewMoneyFromString(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case nil:
		d = decimal.Zero
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid decimal value: %w", err)
		}
		d = parsed
	case []byte:
		parsed, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("invalid decimal value: %w", err)
		}
		d = parsed
	case int64:
		d = decimal.NewFromInt(v)
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	*m = RestoreMoney(d)
	return nil
}
