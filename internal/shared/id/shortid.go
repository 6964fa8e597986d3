// Package id generates the Stripe-style identifiers exposed by the API,
// e.g. "sub_xK9mP2vL3nQa".
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the length of the random part of an ID.
	DefaultLength = 12

	PrefixSubscription = "sub"
)

var alphabetLen = big.NewInt(int64(len(alphabet)))

// Generate returns length random Base62 characters from crypto/rand.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewSubscriptionID returns a fresh subscription identifier.
func NewSubscriptionID() (string, error) {
	short, err := Generate(DefaultLength)
	if err != nil {
		return "", err
	}
	return PrefixSubscription + "_" + short, nil
}

// ValidateSubscriptionID checks the "sub_" prefix and that the remainder is
// non-empty Base62. Length is not enforced so imported IDs stay addressable.
func ValidateSubscriptionID(s string) error {
	prefix, short, ok := strings.Cut(s, "_")
	if !ok {
		return fmt.Errorf("invalid subscription ID format: %q", s)
	}
	if prefix != PrefixSubscription {
		return fmt.Errorf("invalid prefix: expected %s, got %s", PrefixSubscription, prefix)
	}
	if short == "" {
		return fmt.Errorf("subscription ID %q has an empty short ID", s)
	}
	for i := 0; i < len(short); i++ {
		if strings.IndexByte(alphabet, short[i]) < 0 {
			return fmt.Errorf("subscription ID %q contains invalid character %q", s, short[i])
		}
	}
	return nil
}

// IsSubscriptionID reports whether s is a well-formed subscription ID.
func IsSubscriptionID(s string) bool {
	return ValidateSubscriptionID(s) == nil
}
