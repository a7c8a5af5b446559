package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBigInt converts a raw big.Int amount to a human-readable string,
// considering the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil {
		return "0", nil
	}
	if decimals == 0 {
		return amount.String(), nil
	}

	value := decimal.NewFromBigInt(amount, -int32(decimals))
	formatted := value.StringFixed(int32(decimals))

	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}
	if formatted == "" {
		if amount.Sign() == 0 {
			return "0", nil
		}
		return "", fmt.Errorf("formatting resulted in empty string for non-zero value %s", amount.String())
	}
	return formatted, nil
}

// DisplayBalance converts a raw integer amount into display units.
func DisplayBalance(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// ParseRawBalance parses an integer string of minimal units.
func ParseRawBalance(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty balance string")
	}
	v, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("malformed integer balance %q", s)
	}
	return v, nil
}
