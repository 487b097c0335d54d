// Package cpf validates Brazilian taxpayer identifiers (CPF) using the
// official mod-11 check-digit algorithm.
package cpf

import (
	"fmt"
	"strings"

	"proposal-engine/internal/pkg/apperrors"
)

// CPF holds a validated, digits-only taxpayer identifier.
type CPF struct {
	value string
}

// Option adjusts validation behaviour.
type Option func(*options)

type options struct {
	allowTestValues bool
}

// AllowTestValues accepts the repeated-digit sequences (111.111.111-11 and
// friends) used as fixtures. Must never be enabled in production.
func AllowTestValues() Option {
	return func(o *options) { o.allowTestValues = true }
}

// New strips formatting and validates the checksum, returning a CPF value
// or an invariant violation.
func New(raw string, opts ...Option) (CPF, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cleaned := stripNonDigits(raw)
	if len(cleaned) != 11 {
		return CPF{}, fmt.Errorf("%w: CPF must have 11 digits", apperrors.ErrInvariantViolation)
	}

	if allSameDigit(cleaned) {
		if o.allowTestValues {
			return CPF{value: cleaned}, nil
		}
		return CPF{}, fmt.Errorf("%w: CPF checksum is invalid", apperrors.ErrInvariantViolation)
	}

	if !checksumValid(cleaned) {
		return CPF{}, fmt.Errorf("%w: CPF checksum is invalid", apperrors.ErrInvariantViolation)
	}

	return CPF{value: cleaned}, nil
}

// IsValid reports whether raw carries a valid CPF checksum.
func IsValid(raw string) bool {
	_, err := New(raw)
	return err == nil
}

func (c CPF) Value() string {
	return c.value
}

func (c CPF) IsZero() bool {
	return c.value == ""
}

// Formatted returns the conventional XXX.XXX.XXX-XX rendering.
func (c CPF) Formatted() string {
	if len(c.value) != 11 {
		return c.value
	}
	return fmt.Sprintf("%s.%s.%s-%s", c.value[0:3], c.value[3:6], c.value[6:9], c.value[9:11])
}

func (c CPF) String() string {
	return c.Formatted()
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func checksumValid(s string) bool {
	return checkDigit(s, 9) == int(s[9]-'0') && checkDigit(s, 10) == int(s[10]-'0')
}

// checkDigit computes the mod-11 verifier over the first n digits.
func checkDigit(s string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(s[i]-'0') * (n + 1 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 {
		return 0
	}
	return remainder
}
