package analysis

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"proposal-engine/internal/domain/proposal"
)

func testGate() *IncomeCommitmentGate {
	return NewIncomeCommitmentGate(slog.New(slog.DiscardHandler))
}

// zeroRatePolicy keeps the installment arithmetic exact in assertions.
func zeroRatePolicy() proposal.Policy {
	pol := proposal.DefaultPolicy()
	pol.DefaultInterestRate = decimal.Zero
	return pol
}

func TestCheckPendingDataWhenIncomeMissing(t *testing.T) {
	customer := baseCustomer(t)
	terms := proposal.LoanTerms{RequestedAmount: decimal.NewFromInt(10_000), TermMonths: 12}
	p := makeProposal(t, customer, terms)

	result := testGate().Check(p, zeroRatePolicy())

	assert.Equal(t, DecisionPendingData, result.Decision)
	assert.Contains(t, result.RequiredFields, "renda mensal")
	assert.Contains(t, result.RequiredFields, "dívidas existentes")
	assert.Contains(t, result.Reason, "Campos obrigatórios")
}

func TestCheckDistinguishesNilDebtsFromZero(t *testing.T) {
	customer := baseCustomer(t)
	income := decimal.NewFromInt(10_000)
	customer.MonthlyIncome = &income

	terms := proposal.LoanTerms{RequestedAmount: decimal.NewFromInt(12_000), TermMonths: 12}

	t.Run("nil debts is missing data", func(t *testing.T) {
		p := makeProposal(t, customer, terms)
		result := testGate().Check(p, zeroRatePolicy())

		assert.Equal(t, DecisionPendingData, result.Decision)
		assert.Equal(t, []string{"dívidas existentes"}, result.RequiredFields)
	})

	t.Run("explicit zero debts is evaluated", func(t *testing.T) {
		c := customer
		zero := decimal.Zero
		c.ExistingDebts = &zero

		p := makeProposal(t, c, terms)
		result := testGate().Check(p, zeroRatePolicy())

		// 1000 / 10000 = 10%.
		assert.Equal(t, DecisionApproved, result.Decision)
		assert.Equal(t, "10.0", result.Commitment.StringFixed(1))
	})
}

func TestCheckCommitmentCeiling(t *testing.T) {
	terms := proposal.LoanTerms{RequestedAmount: decimal.NewFromInt(12_000), TermMonths: 12}
	income := decimal.NewFromInt(5000)

	t.Run("exactly at the ceiling approves", func(t *testing.T) {
		customer := baseCustomer(t)
		debts := decimal.NewFromInt(250) // (250 + 1000) / 5000 = 25%
		customer.MonthlyIncome = &income
		customer.ExistingDebts = &debts

		result := testGate().Check(makeProposal(t, customer, terms), zeroRatePolicy())

		assert.Equal(t, DecisionApproved, result.Decision)
		assert.Equal(t, "25.0", result.Commitment.StringFixed(1))
		assert.Contains(t, result.Reason, "dentro do limite")
	})

	t.Run("above the ceiling rejects", func(t *testing.T) {
		customer := baseCustomer(t)
		debts := decimal.NewFromInt(300)
		customer.MonthlyIncome = &income
		customer.ExistingDebts = &debts

		result := testGate().Check(makeProposal(t, customer, terms), zeroRatePolicy())

		assert.Equal(t, DecisionRejected, result.Decision)
		assert.Equal(t, "26.0", result.Commitment.StringFixed(1))
		assert.Contains(t, result.Reason, "excede limite de 25%")
	})
}

func TestCheckUsesPolicyDefaultRate(t *testing.T) {
	customer := baseCustomer(t)
	income := decimal.NewFromInt(5000)
	debts := decimal.NewFromInt(250)
	customer.MonthlyIncome = &income
	customer.ExistingDebts = &debts

	// With the standard 2.5% default rate the installment is higher than the
	// linear 1000, pushing the commitment past the ceiling.
	terms := proposal.LoanTerms{RequestedAmount: decimal.NewFromInt(12_000), TermMonths: 12}
	result := testGate().Check(makeProposal(t, customer, terms), proposal.DefaultPolicy())

	assert.Equal(t, DecisionRejected, result.Decision)
	assert.True(t, result.Commitment.GreaterThan(decimal.NewFromInt(25)))
}
