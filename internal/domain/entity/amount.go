package entity

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	errs "github.com/amirhossein-jamali/lock-ledger/internal/domain/error"
)

// Amount is a token quantity in base units with 256-bit unsigned semantics
type Amount = uint256.Int

// ZeroAmount returns a fresh zero amount
func ZeroAmount() *Amount {
	return new(uint256.Int)
}

// NewAmount creates an amount from a uint64
func NewAmount(v uint64) *Amount {
	return uint256.NewInt(v)
}

// ParseAmount validates and converts an unsigned decimal string
// Signs, decimal points and exponents are rejected: amounts are whole base units.
func ParseAmount(amount string) (*Amount, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return nil, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("%w: amount cannot be negative", errs.ErrInvalidAmount)
	}

	for _, c := range amount {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: %q is not an unsigned integer", errs.ErrInvalidAmount, amount)
		}
	}

	value, err := uint256.FromDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrAmountOverflow, err.Error())
	}

	return value, nil
}

// FormatAmount converts an amount to its decimal string
// A nil amount is rendered as "0".
func FormatAmount(amount *Amount) string {
	if amount == nil {
		return "0"
	}
	return amount.Dec()
}

// AddAmounts returns a+b or ErrAmountOverflow
func AddAmounts(a, b *Amount) (*Amount, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, errs.ErrAmountOverflow
	}
	return sum, nil
}

// AmountToFloat approximates an amount as float64 for metrics
func AmountToFloat(amount *Amount) float64 {
	if amount == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(amount.ToBig()).Float64()
	return f
}
