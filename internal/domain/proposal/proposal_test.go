package proposal

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"proposal-engine/internal/pkg/apperrors"
	"proposal-engine/internal/pkg/cpf"
)

func validCustomer(t *testing.T) Customer {
	t.Helper()
	doc, err := cpf.New("529.982.247-25")
	assert.NoError(t, err)

	// Installment on the default terms stays well under the 25% income
	// commitment ceiling, so approval-path tests pass the duplicate guard.
	income := decimal.NewFromInt(10_000)
	debts := decimal.Zero
	birth := time.Date(1990, time.March, 12, 0, 0, 0, 0, time.UTC)
	return Customer{
		Name:          "Maria Souza",
		CPF:           doc,
		Email:         "maria.souza@example.com",
		Phone:         "+55 11 98888-7777",
		BirthDate:     &birth,
		MonthlyIncome: &income,
		ExistingDebts: &debts,
		Occupation:    "CLT",
	}
}

func validTerms() LoanTerms {
	return LoanTerms{
		RequestedAmount: decimal.NewFromInt(12_000),
		TermMonths:      12,
		Purpose:         "capital de giro",
		InterestRate:    decimal.RequireFromString("2.5"),
	}
}

func newInAnalysis(t *testing.T) *Proposal {
	t.Helper()
	p, err := New(validCustomer(t), validTerms(), nil, DefaultPolicy())
	assert.NoError(t, err)
	assert.NoError(t, p.SubmitForAnalysis())
	assert.NoError(t, p.StartAnalysis())
	return p
}

func TestNewValidProposal(t *testing.T) {
	p, err := New(validCustomer(t), validTerms(), nil, DefaultPolicy())

	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, StatusDraft, p.Status)
	assert.Len(t, p.UncommittedEvents(), 1)
	assert.Equal(t, EventCreated, p.UncommittedEvents()[0].Type)
}

func TestNewInvariantViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Customer, *LoanTerms)
	}{
		{
			name:   "missing CPF",
			mutate: func(c *Customer, _ *LoanTerms) { c.CPF = cpf.CPF{} },
		},
		{
			name:   "zero amount",
			mutate: func(_ *Customer, lt *LoanTerms) { lt.RequestedAmount = decimal.Zero },
		},
		{
			name:   "amount below minimum",
			mutate: func(_ *Customer, lt *LoanTerms) { lt.RequestedAmount = decimal.NewFromInt(499) },
		},
		{
			name:   "amount above maximum",
			mutate: func(_ *Customer, lt *LoanTerms) { lt.RequestedAmount = decimal.NewFromInt(50_001) },
		},
		{
			name:   "term too short",
			mutate: func(_ *Customer, lt *LoanTerms) { lt.TermMonths = 2 },
		},
		{
			name:   "term too long",
			mutate: func(_ *Customer, lt *LoanTerms) { lt.TermMonths = 49 },
		},
		{
			name:   "rate above maximum",
			mutate: func(_ *Customer, lt *LoanTerms) { lt.InterestRate = decimal.RequireFromString("5.1") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := validCustomer(t)
			terms := validTerms()
			tt.mutate(&customer, &terms)

			_, err := New(customer, terms, nil, DefaultPolicy())
			assert.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))
		})
	}
}

func TestNewAllowsUnsetRate(t *testing.T) {
	terms := validTerms()
	terms.InterestRate = decimal.Zero

	p, err := New(validCustomer(t), terms, nil, DefaultPolicy())
	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, p.Status)
}

func TestSubmitForAnalysis(t *testing.T) {
	p, err := New(validCustomer(t), validTerms(), nil, DefaultPolicy())
	assert.NoError(t, err)

	assert.NoError(t, p.SubmitForAnalysis())
	assert.Equal(t, StatusWaitingAnalysis, p.Status)

	// Second submission is a transition violation.
	err = p.SubmitForAnalysis()
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestSubmitForAnalysisRequirements(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Customer, *LoanTerms)
		field  string
	}{
		{
			name:   "missing name",
			mutate: func(c *Customer, _ *LoanTerms) { c.Name = "  " },
			field:  "name",
		},
		{
			name: "no contact method",
			mutate: func(c *Customer, _ *LoanTerms) {
				c.Email = ""
				c.Phone = ""
			},
			field: "contact",
		},
		{
			name:   "missing purpose",
			mutate: func(_ *Customer, lt *LoanTerms) { lt.Purpose = "" },
			field:  "purpose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := validCustomer(t)
			terms := validTerms()
			tt.mutate(&customer, &terms)

			p, err := New(customer, terms, nil, DefaultPolicy())
			assert.NoError(t, err)

			err = p.SubmitForAnalysis()
			assert.Error(t, err)

			var vErr *apperrors.ValidationError
			assert.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, StatusDraft, p.Status)
		})
	}
}

func TestApproveHappyPath(t *testing.T) {
	p := newInAnalysis(t)

	assert.NoError(t, p.Approve(DefaultPolicy()))
	assert.Equal(t, StatusApproved, p.Status)
}

func TestApproveCommitmentCeiling(t *testing.T) {
	// A zero default rate makes the installment a plain division, keeping
	// the commitment arithmetic exact: 12000 / 12 = 1000 per month.
	pol := DefaultPolicy()
	pol.DefaultInterestRate = decimal.Zero

	terms := validTerms()
	terms.InterestRate = decimal.Zero

	t.Run("commitment exactly at ceiling approves", func(t *testing.T) {
		customer := validCustomer(t)
		income := decimal.NewFromInt(5000)
		debts := decimal.NewFromInt(250) // (250 + 1000) / 5000 = 25%
		customer.MonthlyIncome = &income
		customer.ExistingDebts = &debts

		p, err := New(customer, terms, nil, pol)
		assert.NoError(t, err)
		assert.NoError(t, p.SubmitForAnalysis())
		assert.NoError(t, p.StartAnalysis())

		assert.NoError(t, p.Approve(pol))
		assert.Equal(t, StatusApproved, p.Status)
	})

	t.Run("commitment above ceiling rejects", func(t *testing.T) {
		customer := validCustomer(t)
		income := decimal.NewFromInt(5000)
		debts := decimal.NewFromInt(251)
		customer.MonthlyIncome = &income
		customer.ExistingDebts = &debts

		p, err := New(customer, terms, nil, pol)
		assert.NoError(t, err)
		assert.NoError(t, p.SubmitForAnalysis())
		assert.NoError(t, p.StartAnalysis())

		err = p.Approve(pol)
		assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))
		assert.Equal(t, StatusInAnalysis, p.Status)
	})

	t.Run("missing debt figure skips the check", func(t *testing.T) {
		customer := validCustomer(t)
		customer.ExistingDebts = nil

		p, err := New(customer, terms, nil, pol)
		assert.NoError(t, err)
		assert.NoError(t, p.SubmitForAnalysis())
		assert.NoError(t, p.StartAnalysis())

		assert.NoError(t, p.Approve(pol))
	})
}

func TestRejectRequiresReason(t *testing.T) {
	p := newInAnalysis(t)

	err := p.Reject("  ")
	var vErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &vErr))

	assert.NoError(t, p.Reject("renda insuficiente"))
	assert.Equal(t, StatusRejected, p.Status)
	assert.Equal(t, "renda insuficiente", p.RejectionReason)
}

func TestSetPendingAndReactivate(t *testing.T) {
	p := newInAnalysis(t)

	assert.NoError(t, p.SetPending("comprovante de renda ausente"))
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "comprovante de renda ausente", p.PendingReason)

	assert.NoError(t, p.Reactivate())
	assert.Equal(t, StatusInAnalysis, p.Status)
	assert.Empty(t, p.PendingReason)
}

func TestUpdateAfterPending(t *testing.T) {
	p := newInAnalysis(t)
	assert.NoError(t, p.SetPending("valor acima do perfil"))

	amount := decimal.NewFromInt(8000)
	err := p.UpdateAfterPending(Update{RequestedAmount: &amount}, DefaultPolicy())
	assert.NoError(t, err)
	assert.Equal(t, StatusInAnalysis, p.Status)
	assert.True(t, p.Terms.RequestedAmount.Equal(amount))
}

func TestUpdateAfterPendingRollsBackOnInvalidData(t *testing.T) {
	p := newInAnalysis(t)
	assert.NoError(t, p.SetPending("valor acima do perfil"))

	original := p.Terms.RequestedAmount
	amount := decimal.NewFromInt(200)
	err := p.UpdateAfterPending(Update{RequestedAmount: &amount}, DefaultPolicy())

	assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))
	assert.Equal(t, StatusPending, p.Status)
	assert.True(t, p.Terms.RequestedAmount.Equal(original))
}

func TestContractChain(t *testing.T) {
	p := newInAnalysis(t)
	assert.NoError(t, p.Approve(DefaultPolicy()))

	assert.NoError(t, p.MarkContractGenerated("CCB-2026-000451"))
	assert.Equal(t, StatusContractGenerated, p.Status)
	assert.Equal(t, "CCB-2026-000451", p.ContractRef)

	assert.NoError(t, p.MarkAwaitingSignature())
	assert.Equal(t, StatusAwaitingSignature, p.Status)

	assert.NoError(t, p.ConfirmSignature())
	assert.Equal(t, StatusSigned, p.Status)
	assert.NotNil(t, p.SignedAt)

	assert.NoError(t, p.Formalize())
	assert.NoError(t, p.MarkAsPaid())
	assert.Equal(t, StatusPaid, p.Status)
}

func TestFormalizeDirectlyFromApproved(t *testing.T) {
	p := newInAnalysis(t)
	assert.NoError(t, p.Approve(DefaultPolicy()))

	assert.NoError(t, p.Formalize())
	assert.Equal(t, StatusFormalized, p.Status)
}

func TestCancelGuards(t *testing.T) {
	t.Run("cancellable while active", func(t *testing.T) {
		p := newInAnalysis(t)
		assert.NoError(t, p.Cancel("desistencia do cliente"))
		assert.Equal(t, StatusCancelled, p.Status)
	})

	t.Run("not cancellable after rejection", func(t *testing.T) {
		p := newInAnalysis(t)
		assert.NoError(t, p.Reject("score insuficiente"))

		err := p.Cancel("desistencia")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

		var tErr *apperrors.TransitionError
		assert.True(t, errors.As(err, &tErr))
		assert.Equal(t, "cancel", tErr.Action)
	})

	t.Run("not cancellable after formalization", func(t *testing.T) {
		p := newInAnalysis(t)
		assert.NoError(t, p.Approve(DefaultPolicy()))
		assert.NoError(t, p.Formalize())

		err := p.Cancel("desistencia")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	})
}

func TestSuspendAndReactivate(t *testing.T) {
	p := newInAnalysis(t)

	assert.NoError(t, p.Suspend("suspeita de fraude"))
	assert.Equal(t, StatusSuspended, p.Status)

	err := p.Suspend("de novo")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	assert.NoError(t, p.Reactivate())
	assert.Equal(t, StatusInAnalysis, p.Status)
}

func TestInvalidTransitionsFromTerminalStates(t *testing.T) {
	p := newInAnalysis(t)
	assert.NoError(t, p.Reject("score insuficiente"))

	assert.Error(t, p.SubmitForAnalysis())
	assert.Error(t, p.StartAnalysis())
	assert.Error(t, p.Approve(DefaultPolicy()))
	assert.Error(t, p.SetPending("x"))
	assert.Error(t, p.Reactivate())
	assert.Error(t, p.Formalize())
	assert.True(t, p.Status.IsTerminal())
}

func TestAnnuityPayment(t *testing.T) {
	t.Run("fixed installment at positive rate", func(t *testing.T) {
		// 1000 at 10% per month over 2 months: 1000 * 0.1 * 1.21 / 0.21.
		got := AnnuityPayment(decimal.NewFromInt(1000), decimal.NewFromInt(10), 2)
		assert.Equal(t, "576.19", got.StringFixed(2))
	})

	t.Run("zero rate degrades to linear division", func(t *testing.T) {
		got := AnnuityPayment(decimal.NewFromInt(12_000), decimal.Zero, 12)
		assert.Equal(t, "1000.00", got.StringFixed(2))
	})

	t.Run("zero term yields zero", func(t *testing.T) {
		got := AnnuityPayment(decimal.NewFromInt(1000), decimal.NewFromInt(2), 0)
		assert.True(t, got.IsZero())
	})
}

func TestMonthlyPaymentAndTotals(t *testing.T) {
	terms := validTerms()
	terms.InterestRate = decimal.Zero
	terms.TACValue = decimal.NewFromInt(150)
	terms.IOFValue = decimal.NewFromInt(90)

	p, err := New(validCustomer(t), terms, nil, DefaultPolicy())
	assert.NoError(t, err)

	assert.Equal(t, "1000.00", p.MonthlyPayment().StringFixed(2))
	assert.Equal(t, "12000.00", p.TotalAmount().StringFixed(2))

	// (12000 + 150 + 90) / 12000 - 1 = 2%.
	assert.Equal(t, "2.00", p.CET().StringFixed(2))
}

func TestEventOutbox(t *testing.T) {
	p := newInAnalysis(t)
	assert.NoError(t, p.Approve(DefaultPolicy()))

	events := p.UncommittedEvents()
	assert.Len(t, events, 3)
	assert.Equal(t, EventCreated, events[0].Type)
	assert.Equal(t, EventSubmitted, events[1].Type)
	assert.Equal(t, EventApproved, events[2].Type)
	for _, e := range events {
		assert.Equal(t, p.ID, e.AggregateID)
	}

	p.MarkEventsCommitted()
	assert.Empty(t, p.UncommittedEvents())
}

func TestRehydrateDoesNotValidate(t *testing.T) {
	customer := validCustomer(t)
	terms := validTerms()
	terms.RequestedAmount = decimal.NewFromInt(100) // below policy minimum

	p := Rehydrate(
		"5f0c6f9e-6f44-4f6e-9c7d-0f0e7a2b1c3d",
		StatusApproved,
		customer,
		terms,
		nil,
		"", "", "",
		"",
		nil,
		time.Now().Add(-time.Hour),
		time.Now(),
	)

	assert.Equal(t, StatusApproved, p.Status)
	assert.Empty(t, p.UncommittedEvents())
}
