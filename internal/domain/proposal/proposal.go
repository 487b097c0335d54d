// Package proposal holds the credit proposal aggregate: a guarded lifecycle
// state machine with the business invariants required for origination.
package proposal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"proposal-engine/internal/pkg/apperrors"
	"proposal-engine/internal/pkg/cpf"
)

type Status string

const (
	StatusDraft             Status = "rascunho"
	StatusWaitingAnalysis   Status = "aguardando_analise"
	StatusInAnalysis        Status = "em_analise"
	StatusApproved          Status = "aprovado"
	StatusRejected          Status = "rejeitado"
	StatusPending           Status = "pendenciado"
	StatusContractGenerated Status = "ccb_gerada"
	StatusAwaitingSignature Status = "aguardando_assinatura"
	StatusSigned            Status = "assinatura_concluida"
	StatusFormalized        Status = "formalizado"
	StatusPaid              Status = "pago"
	StatusCancelled         Status = "cancelado"
	StatusSuspended         Status = "suspensa"
)

// IsTerminal reports whether no outgoing transition exists from s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusPaid || s == StatusCancelled
}

// Customer is the snapshot of customer data owned by the proposal. A nil
// ExistingDebts means "not informed", which is different from an explicit
// zero.
type Customer struct {
	Name          string
	CPF           cpf.CPF
	Email         string
	Phone         string
	BirthDate     *time.Time
	MonthlyIncome *decimal.Decimal
	ExistingDebts *decimal.Decimal
	Occupation    string
}

// HasContact reports whether at least one contact channel is present.
func (c Customer) HasContact() bool {
	return strings.TrimSpace(c.Email) != "" || strings.TrimSpace(c.Phone) != ""
}

// LoanTerms are the requested and computed loan conditions.
type LoanTerms struct {
	RequestedAmount decimal.Decimal
	TermMonths      int
	Purpose         string
	Collateral      string
	// InterestRate is the nominal monthly rate in percent; zero means the
	// commercial rate has not been set yet.
	InterestRate        decimal.Decimal
	TACValue            decimal.Decimal
	IOFValue            decimal.Decimal
	TotalFinancedAmount decimal.Decimal
	MonthlyPayment      decimal.Decimal
}

// Proposal is the aggregate root. All mutation happens through its command
// methods; direct field writes outside this package are reserved for the
// persistence rehydration path.
type Proposal struct {
	ID       string
	Status   Status
	Customer Customer
	Terms    LoanTerms

	StoreID *int64

	RejectionReason string
	PendingReason   string
	Observations    string

	ContractRef string
	SignedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	events []Event
}

// New builds a proposal in DRAFT validating every construction invariant.
func New(customer Customer, terms LoanTerms, storeID *int64, pol Policy) (*Proposal, error) {
	now := time.Now()
	p := &Proposal{
		ID:        uuid.NewString(),
		Status:    StatusDraft,
		Customer:  customer,
		Terms:     terms,
		StoreID:   storeID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := p.validateInvariants(pol); err != nil {
		return nil, err
	}

	p.recordEvent(EventCreated, map[string]any{
		"cpf":             customer.CPF.Value(),
		"requestedAmount": terms.RequestedAmount.StringFixed(2),
		"termMonths":      terms.TermMonths,
	})
	return p, nil
}

// Rehydrate rebuilds a proposal from a stored record. Invariants were
// validated when the record was written, so no validation runs here; this
// path is intentionally separate from New.
func Rehydrate(
	id string,
	status Status,
	customer Customer,
	terms LoanTerms,
	storeID *int64,
	rejectionReason, pendingReason, observations string,
	contractRef string,
	signedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Proposal {
	return &Proposal{
		ID:              id,
		Status:          status,
		Customer:        customer,
		Terms:           terms,
		StoreID:         storeID,
		RejectionReason: rejectionReason,
		PendingReason:   pendingReason,
		Observations:    observations,
		ContractRef:     contractRef,
		SignedAt:        signedAt,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

func (p *Proposal) validateInvariants(pol Policy) error {
	if p.Customer.CPF.IsZero() {
		return fmt.Errorf("%w: customer CPF is required", apperrors.ErrInvariantViolation)
	}

	amount := p.Terms.RequestedAmount
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: requested amount must be positive", apperrors.ErrInvariantViolation)
	}
	if amount.LessThan(pol.MinAmount) || amount.GreaterThan(pol.MaxAmount) {
		return fmt.Errorf("%w: requested amount must be between %s and %s",
			apperrors.ErrInvariantViolation, pol.MinAmount.StringFixed(2), pol.MaxAmount.StringFixed(2))
	}

	if p.Terms.TermMonths < pol.MinTermMonths || p.Terms.TermMonths > pol.MaxTermMonths {
		return fmt.Errorf("%w: term must be between %d and %d months",
			apperrors.ErrInvariantViolation, pol.MinTermMonths, pol.MaxTermMonths)
	}

	if rate := p.Terms.InterestRate; rate.Sign() > 0 {
		if rate.LessThan(pol.MinInterestRate) || rate.GreaterThan(pol.MaxInterestRate) {
			return fmt.Errorf("%w: interest rate must be between %s%% and %s%%",
				apperrors.ErrInvariantViolation, pol.MinInterestRate.String(), pol.MaxInterestRate.String())
		}
	}

	return nil
}

func (p *Proposal) touch() {
	p.UpdatedAt = time.Now()
}

// SubmitForAnalysis moves a draft into the analysis queue after checking
// the submission requirements.
func (p *Proposal) SubmitForAnalysis() error {
	if p.Status != StatusDraft {
		return apperrors.NewTransitionError("submit for analysis", string(p.Status))
	}

	if strings.TrimSpace(p.Customer.Name) == "" {
		return apperrors.NewValidationError("name", "customer name is required")
	}
	if !p.Customer.HasContact() {
		return apperrors.NewValidationError("contact", "at least one contact method is required")
	}
	if strings.TrimSpace(p.Terms.Purpose) == "" {
		return apperrors.NewValidationError("purpose", "loan purpose is required")
	}

	p.Status = StatusWaitingAnalysis
	p.touch()
	p.recordEvent(EventSubmitted, map[string]any{"submittedAt": p.UpdatedAt})
	return nil
}

func (p *Proposal) StartAnalysis() error {
	if p.Status != StatusWaitingAnalysis {
		return apperrors.NewTransitionError("start analysis", string(p.Status))
	}
	p.Status = StatusInAnalysis
	p.touch()
	return nil
}

// Approve transitions to APPROVED. When income and existing-debt figures
// are present the debt-to-income ceiling is re-validated here even though
// the pre-approval gate already checked it; the aggregate cannot assume
// callers ran the gate.
func (p *Proposal) Approve(pol Policy) error {
	if p.Status != StatusInAnalysis {
		return apperrors.NewTransitionError("approve", string(p.Status))
	}

	if p.Customer.MonthlyIncome != nil && p.Customer.MonthlyIncome.Sign() > 0 && p.Customer.ExistingDebts != nil {
		installment := p.MonthlyPaymentAt(p.rateOrDefault(pol))
		commitment := p.Customer.ExistingDebts.Add(installment).
			Div(*p.Customer.MonthlyIncome).
			Mul(decimal.NewFromInt(100))
		if commitment.GreaterThan(pol.CommitmentCeiling) {
			return fmt.Errorf("%w: income commitment %s%% exceeds the %s%% limit",
				apperrors.ErrInvariantViolation, commitment.StringFixed(1), pol.CommitmentCeiling.StringFixed(0))
		}
	}

	p.Status = StatusApproved
	p.touch()
	p.recordEvent(EventApproved, nil)
	return nil
}

func (p *Proposal) Reject(reason string) error {
	if p.Status != StatusInAnalysis {
		return apperrors.NewTransitionError("reject", string(p.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewValidationError("reason", "rejection reason is required")
	}

	p.Status = StatusRejected
	p.RejectionReason = reason
	p.touch()
	p.recordEvent(EventRejected, map[string]any{"reason": reason})
	return nil
}

func (p *Proposal) SetPending(reason string) error {
	if p.Status != StatusInAnalysis {
		return apperrors.NewTransitionError("set pending", string(p.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewValidationError("reason", "pending reason is required")
	}

	p.Status = StatusPending
	p.PendingReason = reason
	p.touch()
	p.recordEvent(EventPending, map[string]any{"reason": reason})
	return nil
}

// Reactivate re-enters analysis from PENDING or SUSPENDED. The state the
// proposal was suspended from is not preserved.
func (p *Proposal) Reactivate() error {
	if p.Status != StatusPending && p.Status != StatusSuspended {
		return apperrors.NewTransitionError("reactivate", string(p.Status))
	}

	p.Status = StatusInAnalysis
	p.PendingReason = ""
	p.touch()
	p.recordEvent(EventResubmitted, map[string]any{"resubmittedAt": p.UpdatedAt})
	return nil
}

// Update carries corrected data supplied while a proposal is pending.
type Update struct {
	Customer        *Customer
	RequestedAmount *decimal.Decimal
	TermMonths      *int
	InterestRate    *decimal.Decimal
	Observations    string
}

// UpdateAfterPending applies corrections to a pending proposal, revalidates
// the invariants and returns it to analysis.
func (p *Proposal) UpdateAfterPending(u Update, pol Policy) error {
	if p.Status != StatusPending {
		return apperrors.NewTransitionError("update", string(p.Status))
	}

	prevCustomer, prevTerms := p.Customer, p.Terms

	if u.Customer != nil {
		p.Customer = *u.Customer
	}
	if u.RequestedAmount != nil {
		p.Terms.RequestedAmount = *u.RequestedAmount
	}
	if u.TermMonths != nil {
		p.Terms.TermMonths = *u.TermMonths
	}
	if u.InterestRate != nil {
		p.Terms.InterestRate = *u.InterestRate
	}
	if u.Observations != "" {
		p.Observations = u.Observations
	}

	if err := p.validateInvariants(pol); err != nil {
		p.Customer, p.Terms = prevCustomer, prevTerms
		return err
	}

	p.Status = StatusInAnalysis
	p.PendingReason = ""
	p.touch()
	p.recordEvent(EventResubmitted, map[string]any{"updatedAt": p.UpdatedAt})
	return nil
}

// MarkContractGenerated records that the contract artifact is ready.
func (p *Proposal) MarkContractGenerated(ref string) error {
	if p.Status != StatusApproved {
		return apperrors.NewTransitionError("generate contract", string(p.Status))
	}
	if strings.TrimSpace(ref) == "" {
		return apperrors.NewValidationError("contractRef", "contract reference is required")
	}

	p.Status = StatusContractGenerated
	p.ContractRef = ref
	p.touch()
	p.recordEvent(EventContractGenerated, map[string]any{"contractRef": ref})
	return nil
}

func (p *Proposal) MarkAwaitingSignature() error {
	if p.Status != StatusContractGenerated {
		return apperrors.NewTransitionError("await signature", string(p.Status))
	}
	p.Status = StatusAwaitingSignature
	p.touch()
	return nil
}

func (p *Proposal) ConfirmSignature() error {
	if p.Status != StatusAwaitingSignature {
		return apperrors.NewTransitionError("confirm signature", string(p.Status))
	}
	now := time.Now()
	p.Status = StatusSigned
	p.SignedAt = &now
	p.touch()
	p.recordEvent(EventSignatureCompleted, map[string]any{"completedAt": now})
	return nil
}

// Formalize closes the origination. Allowed straight from APPROVED or after
// the contract chain completes with a signature.
func (p *Proposal) Formalize() error {
	if p.Status != StatusApproved && p.Status != StatusSigned {
		return apperrors.NewTransitionError("formalize", string(p.Status))
	}
	p.Status = StatusFormalized
	p.touch()
	return nil
}

func (p *Proposal) MarkAsPaid() error {
	if p.Status != StatusFormalized {
		return apperrors.NewTransitionError("mark as paid", string(p.Status))
	}
	p.Status = StatusPaid
	p.touch()
	return nil
}

// Cancel is terminal. Not allowed once the proposal is rejected, already
// cancelled, formalized or paid.
func (p *Proposal) Cancel(reason string) error {
	switch p.Status {
	case StatusRejected, StatusCancelled, StatusFormalized, StatusPaid:
		return apperrors.NewTransitionError("cancel", string(p.Status))
	}

	p.Status = StatusCancelled
	p.RejectionReason = reason
	p.touch()
	p.recordEvent(EventCancelled, map[string]any{"reason": reason})
	return nil
}

// Suspend pauses a proposal; it is recoverable only through Reactivate.
func (p *Proposal) Suspend(reason string) error {
	switch p.Status {
	case StatusRejected, StatusCancelled, StatusFormalized, StatusPaid, StatusSuspended:
		return apperrors.NewTransitionError("suspend", string(p.Status))
	}

	p.Status = StatusSuspended
	p.Observations = reason
	p.touch()
	p.recordEvent(EventSuspended, map[string]any{"reason": reason})
	return nil
}

func (p *Proposal) rateOrDefault(pol Policy) decimal.Decimal {
	if p.Terms.InterestRate.Sign() > 0 {
		return p.Terms.InterestRate
	}
	return pol.DefaultInterestRate
}

// MonthlyPayment returns the fixed installment for the proposal's own rate.
// With a non-positive rate the installment degrades to linear division of
// the principal over the term.
func (p *Proposal) MonthlyPayment() decimal.Decimal {
	return AnnuityPayment(p.Terms.RequestedAmount, p.Terms.InterestRate, p.Terms.TermMonths)
}

// MonthlyPaymentAt computes the installment at an explicit monthly rate.
func (p *Proposal) MonthlyPaymentAt(monthlyRate decimal.Decimal) decimal.Decimal {
	return AnnuityPayment(p.Terms.RequestedAmount, monthlyRate, p.Terms.TermMonths)
}

// TotalAmount is the full repayment over the term.
func (p *Proposal) TotalAmount() decimal.Decimal {
	return p.MonthlyPayment().Mul(decimal.NewFromInt(int64(p.Terms.TermMonths))).Round(2)
}

// CET is the total-cost-of-credit disclosure number: repayment plus add-on
// fees as a percentage uplift over principal. Simplified relative to the
// full regulatory formula.
func (p *Proposal) CET() decimal.Decimal {
	if p.Terms.RequestedAmount.Sign() <= 0 {
		return decimal.Zero
	}
	totalCost := p.TotalAmount().Add(p.Terms.TACValue).Add(p.Terms.IOFValue)
	return totalCost.Div(p.Terms.RequestedAmount).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// AnnuityPayment implements the standard fixed-installment (Price) formula
// for a nominal monthly rate given in percent. A non-positive rate falls
// back to principal divided by term.
func AnnuityPayment(principal decimal.Decimal, monthlyRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	term := decimal.NewFromInt(int64(termMonths))
	if monthlyRatePercent.Sign() <= 0 {
		return principal.Div(term).Round(2)
	}

	one := decimal.NewFromInt(1)
	i := monthlyRatePercent.Div(decimal.NewFromInt(100))
	factor := one.Add(i).Pow(term)
	return principal.Mul(i).Mul(factor).Div(factor.Sub(one)).Round(2)
}
