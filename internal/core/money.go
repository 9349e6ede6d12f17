// Package core provides the ledger's value types: money, categories and transactions.
//
// This file contains the Money type and the helpers for parsing monetary amounts
// from user input. Amounts are exact decimals; binary floating point is never used.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. The zero value is a valid zero amount.
type Money struct {
	Amount decimal.Decimal
}

// NewMoney creates Money from a whole number of currency units.
func NewMoney(units int64) Money {
	return Money{Amount: decimal.NewFromInt(units)}
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{Amount: decimal.Zero}
}

// ParseMoney converts a decimal string to Money without any rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// rejected, and so are zero amounts: ParseMoney only produces amounts that can be
// posted to the ledger.
//
// Examples:
//   ParseMoney("12.34")  -> 12.34, nil
//   ParseMoney("12,34")  -> 12.34, nil
//   ParseMoney("0.001")  -> 0.001, nil
//   ParseMoney("-1")     -> ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return Money{}, ErrInvalidAmount
			}
		}
	}
	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}
	if len(parts) == 2 && parts[1] != "" {
		s = intPart + "." + parts[1]
	} else {
		s = intPart
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Amount: d}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MustParseMoney is like ParseMoney but panics on invalid input.
// Intended for fixtures and constants.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic("core: invalid money literal " + s)
	}
	return m
}

// Validate reports ErrInvalidAmount unless the amount is strictly positive.
func (m Money) Validate() error {
	if !m.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount)}
}

// Cmp returns -1, 0 or +1. Scale is ignored, so 7200 and 7200.00 compare equal.
func (m Money) Cmp(other Money) int {
	return m.Amount.Cmp(other.Amount)
}

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.Amount.GreaterThan(other.Amount)
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// String returns the canonical decimal representation.
func (m Money) String() string {
	return m.Amount.String()
}
