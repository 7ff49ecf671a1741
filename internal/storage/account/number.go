package account

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// NumberLength is the number of decimal digits in an account number.
const NumberLength = 20

var numberSpace = new(big.Int).Exp(big.NewInt(10), big.NewInt(NumberLength), nil)

// NewNumber returns a uniformly random account number of NumberLength
// digits, zero padded. Uniqueness is checked by the caller against storage.
func NewNumber() (string, error) {
	n, err := rand.Int(rand.Reader, numberSpace)
	if err != nil {
		return "", fmt.Errorf("account.NewNumber: %w", err)
	}
	digits := n.String()
	return strings.Repeat("0", NumberLength-len(digits)) + digits, nil
}

// ValidNumber reports whether s has the shape of an account number.
func ValidNumber(s string) bool {
	if len(s) != NumberLength {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
