package proposal

import "github.com/shopspring/decimal"

// Policy carries the numeric lending policy. Values come from configuration
// so regulatory changes do not require a rebuild.
type Policy struct {
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal

	MinTermMonths int
	MaxTermMonths int

	// Nominal monthly rates, in percent.
	MinInterestRate decimal.Decimal
	MaxInterestRate decimal.Decimal

	// DefaultInterestRate is used when a proposal carries no rate yet,
	// e.g. by the pre-approval gate.
	DefaultInterestRate decimal.Decimal

	// CommitmentCeiling is the maximum debt-to-income commitment, in
	// percent. A commitment exactly at the ceiling is within limit.
	CommitmentCeiling decimal.Decimal

	// AllowTestDocuments accepts fixture CPF sequences. Never set in
	// production.
	AllowTestDocuments bool
}

// DefaultPolicy returns the standard lending policy.
func DefaultPolicy() Policy {
	return Policy{
		MinAmount:           decimal.NewFromInt(500),
		MaxAmount:           decimal.NewFromInt(50_000),
		MinTermMonths:       3,
		MaxTermMonths:       48,
		MinInterestRate:     decimal.RequireFromString("0.5"),
		MaxInterestRate:     decimal.RequireFromString("5.0"),
		DefaultInterestRate: decimal.RequireFromString("2.5"),
		CommitmentCeiling:   decimal.NewFromInt(25),
	}
}
