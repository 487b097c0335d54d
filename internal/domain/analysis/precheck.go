package analysis

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"proposal-engine/internal/domain/proposal"
)

type Decision string

const (
	DecisionApproved     Decision = "APPROVED"
	DecisionRejected     Decision = "REJECTED"
	DecisionPendingData  Decision = "PENDING_DATA"
	DecisionManualReview Decision = "MANUAL_REVIEW"
)

// PrecheckResult is the outcome of the income commitment gate.
type PrecheckResult struct {
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"`
	// Commitment is the computed debt-to-income percentage. Only meaningful
	// for APPROVED and REJECTED decisions.
	Commitment decimal.Decimal `json:"commitment"`
	// RequiredFields lists the financial data missing when the decision is
	// PENDING_DATA.
	RequiredFields []string `json:"requiredFields,omitempty"`
}

// IncomeCommitmentGate applies the automatic denial rule: a proposal whose
// projected installment plus existing debts commits more than the policy
// ceiling of the customer's income is rejected without human review.
type IncomeCommitmentGate struct {
	logger *slog.Logger
}

func NewIncomeCommitmentGate(logger *slog.Logger) *IncomeCommitmentGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &IncomeCommitmentGate{logger: logger}
}

// Check evaluates the gate for a proposal. It never returns an error: a
// failure inside the computation routes the proposal to manual review
// instead of blocking the pipeline.
func (g *IncomeCommitmentGate) Check(p *proposal.Proposal, pol proposal.Policy) (result PrecheckResult) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("income commitment check failed",
				slog.String("proposal_id", p.ID),
				slog.Any("panic", r),
			)
			result = PrecheckResult{
				Decision: DecisionManualReview,
				Reason:   "Erro na verificação automática, encaminhado para análise manual",
			}
		}
	}()

	if missing := missingFinancialData(p); len(missing) > 0 {
		g.logger.Info("income commitment check pending data",
			slog.String("proposal_id", p.ID),
			slog.Any("required_fields", missing),
		)
		return PrecheckResult{
			Decision:       DecisionPendingData,
			Reason:         "Campos obrigatórios para pré-aprovação: " + strings.Join(missing, ", "),
			RequiredFields: missing,
		}
	}

	income := *p.Customer.MonthlyIncome
	debts := *p.Customer.ExistingDebts
	rate := p.Terms.InterestRate
	if rate.Sign() <= 0 {
		rate = pol.DefaultInterestRate
	}
	installment := proposal.AnnuityPayment(p.Terms.RequestedAmount, rate, p.Terms.TermMonths)

	commitment := debts.Add(installment).Div(income).Mul(decimal.NewFromInt(100))

	g.logger.Info("income commitment computed",
		slog.String("proposal_id", p.ID),
		slog.String("income", income.StringFixed(2)),
		slog.String("existing_debts", debts.StringFixed(2)),
		slog.String("installment", installment.StringFixed(2)),
		slog.String("commitment_pct", commitment.StringFixed(1)),
		slog.String("limit_pct", pol.CommitmentCeiling.StringFixed(0)),
	)

	// Strictly above the ceiling rejects; exactly at the ceiling approves.
	if commitment.GreaterThan(pol.CommitmentCeiling) {
		return PrecheckResult{
			Decision: DecisionRejected,
			Reason: fmt.Sprintf("Comprometimento de renda %s%% excede limite de %s%%",
				commitment.StringFixed(1), pol.CommitmentCeiling.StringFixed(0)),
			Commitment: commitment,
		}
	}

	return PrecheckResult{
		Decision: DecisionApproved,
		Reason: fmt.Sprintf("Comprometimento de renda %s%% dentro do limite permitido",
			commitment.StringFixed(1)),
		Commitment: commitment,
	}
}

func missingFinancialData(p *proposal.Proposal) []string {
	var missing []string

	if p.Customer.MonthlyIncome == nil || p.Customer.MonthlyIncome.Sign() <= 0 {
		missing = append(missing, "renda mensal")
	}
	// A nil debt figure means "not informed"; an explicit zero is valid.
	if p.Customer.ExistingDebts == nil {
		missing = append(missing, "dívidas existentes")
	}
	if p.Terms.RequestedAmount.Sign() <= 0 {
		missing = append(missing, "valor do empréstimo")
	}
	if p.Terms.TermMonths <= 0 {
		missing = append(missing, "prazo em meses")
	}

	return missing
}
