// Package application orchestrates the proposal lifecycle: it wires the
// aggregate, the analysis engines, persistence and event publication into
// the use cases exposed over HTTP and batch.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"proposal-engine/internal/domain/analysis"
	"proposal-engine/internal/domain/proposal"
	"proposal-engine/internal/infrastructure/monitoring"
	"proposal-engine/internal/pkg/apperrors"
	"proposal-engine/internal/pkg/cpf"
)

// EventPublisher is the outbound port for lifecycle events. Publication is
// best effort: a broker outage must never fail a state transition.
type EventPublisher interface {
	Publish(ctx context.Context, event proposal.Event) error
}

// CreateProposalInput carries the data needed to open a proposal draft.
type CreateProposalInput struct {
	CustomerName  string
	CustomerCPF   string
	Email         string
	Phone         string
	BirthDate     *time.Time
	MonthlyIncome *decimal.Decimal
	ExistingDebts *decimal.Decimal
	Occupation    string

	RequestedAmount decimal.Decimal
	TermMonths      int
	Purpose         string
	Collateral      string
	InterestRate    decimal.Decimal

	StoreID *int64
}

// AnalysisOutcome bundles what the automated pipeline decided for a
// proposal.
type AnalysisOutcome struct {
	Proposal *proposal.Proposal
	Precheck analysis.PrecheckResult
	// Scoring is nil when the precheck short-circuited the pipeline.
	Scoring *analysis.Result
}

// DashboardMetrics aggregates portfolio numbers for the metrics endpoint.
type DashboardMetrics struct {
	CountsByStatus  map[proposal.Status]int64
	ApprovedAmount  decimal.Decimal
	FormalizedTotal decimal.Decimal
}

type ProposalService interface {
	CreateProposal(ctx context.Context, input CreateProposalInput) (*proposal.Proposal, error)
	SubmitProposal(ctx context.Context, id string) (*proposal.Proposal, error)
	AnalyzeProposal(ctx context.Context, id string) (*AnalysisOutcome, error)

	ApproveProposal(ctx context.Context, id string) (*proposal.Proposal, error)
	RejectProposal(ctx context.Context, id, reason string) (*proposal.Proposal, error)
	SetPending(ctx context.Context, id, reason string) (*proposal.Proposal, error)
	ResubmitProposal(ctx context.Context, id string, update proposal.Update) (*proposal.Proposal, error)

	GenerateContract(ctx context.Context, id, contractRef string) (*proposal.Proposal, error)
	SendForSignature(ctx context.Context, id string) (*proposal.Proposal, error)
	ConfirmSignature(ctx context.Context, id string) (*proposal.Proposal, error)
	FormalizeProposal(ctx context.Context, id string) (*proposal.Proposal, error)
	MarkProposalPaid(ctx context.Context, id string) (*proposal.Proposal, error)

	CancelProposal(ctx context.Context, id, reason string) (*proposal.Proposal, error)
	SuspendProposal(ctx context.Context, id, reason string) (*proposal.Proposal, error)
	ReactivateProposal(ctx context.Context, id string) (*proposal.Proposal, error)

	GetProposal(ctx context.Context, id string) (*proposal.Proposal, error)
	ListByCPF(ctx context.Context, rawCPF string) ([]*proposal.Proposal, error)
	ListByStore(ctx context.Context, storeID int64) ([]*proposal.Proposal, error)
	ListProposals(ctx context.Context, status *proposal.Status, limit, offset int) ([]*proposal.Proposal, error)
	ListPendingAnalysis(ctx context.Context, limit int) ([]*proposal.Proposal, error)
	GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, error)
}

type proposalServiceImpl struct {
	repo      proposal.Repository
	scoring   *analysis.ScoringEngine
	gate      *analysis.IncomeCommitmentGate
	publisher EventPublisher
	policy    proposal.Policy
	logger    *slog.Logger
}

func NewProposalService(
	repo proposal.Repository,
	scoring *analysis.ScoringEngine,
	gate *analysis.IncomeCommitmentGate,
	publisher EventPublisher,
	policy proposal.Policy,
	logger *slog.Logger,
) ProposalService {
	return &proposalServiceImpl{
		repo:      repo,
		scoring:   scoring,
		gate:      gate,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
	}
}

func (s *proposalServiceImpl) CreateProposal(ctx context.Context, input CreateProposalInput) (*proposal.Proposal, error) {
	s.logger.Info("Creating new proposal", "cpf_suffix", suffix(input.CustomerCPF))

	var cpfOpts []cpf.Option
	if s.policy.AllowTestDocuments {
		cpfOpts = append(cpfOpts, cpf.AllowTestValues())
	}
	document, err := cpf.New(input.CustomerCPF, cpfOpts...)
	if err != nil {
		s.logger.Warn("Rejected proposal with invalid CPF", "error", err)
		return nil, err
	}

	customer := proposal.Customer{
		Name:          input.CustomerName,
		CPF:           document,
		Email:         input.Email,
		Phone:         input.Phone,
		BirthDate:     input.BirthDate,
		MonthlyIncome: input.MonthlyIncome,
		ExistingDebts: input.ExistingDebts,
		Occupation:    input.Occupation,
	}
	terms := proposal.LoanTerms{
		RequestedAmount: input.RequestedAmount,
		TermMonths:      input.TermMonths,
		Purpose:         input.Purpose,
		Collateral:      input.Collateral,
		InterestRate:    input.InterestRate,
	}

	p, err := proposal.New(customer, terms, input.StoreID, s.policy)
	if err != nil {
		s.logger.Warn("Proposal failed construction invariants", "error", err)
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save proposal", "error", err)
		return nil, fmt.Errorf("%w: failed to save proposal: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordProposalCreated()
	s.publishEvents(ctx, p)
	s.logger.Info("Proposal created", "proposalID", p.ID)
	return p, nil
}

func (s *proposalServiceImpl) SubmitProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.SubmitForAnalysis()
	})
}

// AnalyzeProposal runs the automated decision pipeline: the income
// commitment gate first, then the scoring engine for proposals that pass
// it. The gate can short-circuit into rejection or pending without ever
// scoring.
func (s *proposalServiceImpl) AnalyzeProposal(ctx context.Context, id string) (*AnalysisOutcome, error) {
	p, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.StartAnalysis(); err != nil {
		return nil, err
	}

	outcome := &AnalysisOutcome{Proposal: p}
	outcome.Precheck = s.gate.Check(p, s.policy)

	switch outcome.Precheck.Decision {
	case analysis.DecisionPendingData:
		if err := p.SetPending(outcome.Precheck.Reason); err != nil {
			return nil, err
		}

	case analysis.DecisionRejected:
		if err := p.Reject(outcome.Precheck.Reason); err != nil {
			return nil, err
		}

	case analysis.DecisionManualReview:
		// Stays in analysis for a human decision.
		p.Observations = outcome.Precheck.Reason

	case analysis.DecisionApproved:
		result := s.scoring.Analyze(p)
		outcome.Scoring = &result
		p.Observations = result.Observations

		switch {
		case result.Approved:
			if err := p.Approve(s.policy); err != nil {
				return nil, err
			}
		case result.Score.Recommendation == analysis.RecommendReject:
			if err := p.Reject(result.Observations); err != nil {
				return nil, err
			}
		default:
			// MANUAL_REVIEW, or an APPROVE recommendation above the
			// auto-approval cap. Left in analysis.
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to persist analysis outcome", "proposalID", id, "error", err)
		return nil, fmt.Errorf("%w: failed to persist analysis outcome: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordAnalysisDecision(string(outcome.Precheck.Decision), string(p.Status))
	s.publishEvents(ctx, p)
	s.logger.Info("Proposal analyzed",
		"proposalID", id,
		"precheck", string(outcome.Precheck.Decision),
		"status", string(p.Status),
	)
	return outcome, nil
}

func (s *proposalServiceImpl) ApproveProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		if err := startAnalysisIfQueued(p); err != nil {
			return err
		}
		return p.Approve(s.policy)
	})
}

func (s *proposalServiceImpl) RejectProposal(ctx context.Context, id, reason string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		if err := startAnalysisIfQueued(p); err != nil {
			return err
		}
		return p.Reject(reason)
	})
}

func (s *proposalServiceImpl) SetPending(ctx context.Context, id, reason string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		if err := startAnalysisIfQueued(p); err != nil {
			return err
		}
		return p.SetPending(reason)
	})
}

// startAnalysisIfQueued lets an analyst decide a proposal straight from the
// analysis queue without an explicit start-analysis call first.
func startAnalysisIfQueued(p *proposal.Proposal) error {
	if p.Status != proposal.StatusWaitingAnalysis {
		return nil
	}
	return p.StartAnalysis()
}

func (s *proposalServiceImpl) ResubmitProposal(ctx context.Context, id string, update proposal.Update) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.UpdateAfterPending(update, s.policy)
	})
}

func (s *proposalServiceImpl) GenerateContract(ctx context.Context, id, contractRef string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.MarkContractGenerated(contractRef)
	})
}

func (s *proposalServiceImpl) SendForSignature(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.MarkAwaitingSignature()
	})
}

func (s *proposalServiceImpl) ConfirmSignature(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.ConfirmSignature()
	})
}

func (s *proposalServiceImpl) FormalizeProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.Formalize()
	})
}

func (s *proposalServiceImpl) MarkProposalPaid(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.MarkAsPaid()
	})
}

func (s *proposalServiceImpl) CancelProposal(ctx context.Context, id, reason string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.Cancel(reason)
	})
}

func (s *proposalServiceImpl) SuspendProposal(ctx context.Context, id, reason string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.Suspend(reason)
	})
}

func (s *proposalServiceImpl) ReactivateProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.mutate(ctx, id, func(p *proposal.Proposal) error {
		return p.Reactivate()
	})
}

func (s *proposalServiceImpl) GetProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.findByID(ctx, id)
}

func (s *proposalServiceImpl) ListByCPF(ctx context.Context, rawCPF string) ([]*proposal.Proposal, error) {
	var cpfOpts []cpf.Option
	if s.policy.AllowTestDocuments {
		cpfOpts = append(cpfOpts, cpf.AllowTestValues())
	}
	document, err := cpf.New(rawCPF, cpfOpts...)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.FindByCPF(ctx, document.Value())
	if err != nil {
		s.logger.Error("Failed to list proposals by CPF", "error", err)
		return nil, fmt.Errorf("%w: failed to list proposals: %v", apperrors.ErrInternalServer, err)
	}
	return list, nil
}

func (s *proposalServiceImpl) ListByStore(ctx context.Context, storeID int64) ([]*proposal.Proposal, error) {
	list, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		s.logger.Error("Failed to list proposals by store", "storeID", storeID, "error", err)
		return nil, fmt.Errorf("%w: failed to list proposals: %v", apperrors.ErrInternalServer, err)
	}
	return list, nil
}

func (s *proposalServiceImpl) ListProposals(ctx context.Context, status *proposal.Status, limit, offset int) ([]*proposal.Proposal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.FindAll(ctx, status, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list proposals", "error", err)
		return nil, fmt.Errorf("%w: failed to list proposals: %v", apperrors.ErrInternalServer, err)
	}
	return list, nil
}

func (s *proposalServiceImpl) ListPendingAnalysis(ctx context.Context, limit int) ([]*proposal.Proposal, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	list, err := s.repo.FindPendingAnalysis(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list analysis queue", "error", err)
		return nil, fmt.Errorf("%w: failed to list analysis queue: %v", apperrors.ErrInternalServer, err)
	}
	return list, nil
}

func (s *proposalServiceImpl) GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to count proposals by status", "error", err)
		return nil, fmt.Errorf("%w: failed to aggregate proposal counts: %v", apperrors.ErrInternalServer, err)
	}

	approved, err := s.repo.SumAmountByStatus(ctx, proposal.StatusApproved)
	if err != nil {
		s.logger.Error("Failed to sum approved amounts", "error", err)
		return nil, fmt.Errorf("%w: failed to aggregate approved amounts: %v", apperrors.ErrInternalServer, err)
	}

	formalized, err := s.repo.SumAmountByStatus(ctx, proposal.StatusFormalized)
	if err != nil {
		s.logger.Error("Failed to sum formalized amounts", "error", err)
		return nil, fmt.Errorf("%w: failed to aggregate formalized amounts: %v", apperrors.ErrInternalServer, err)
	}

	return &DashboardMetrics{
		CountsByStatus:  counts,
		ApprovedAmount:  approved,
		FormalizedTotal: formalized,
	}, nil
}

// mutate loads a proposal, applies one aggregate command and persists the
// result. Domain errors pass through untouched so handlers can map them.
func (s *proposalServiceImpl) mutate(ctx context.Context, id string, command func(*proposal.Proposal) error) (*proposal.Proposal, error) {
	p, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := p.Status
	if err := command(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to persist proposal", "proposalID", id, "error", err)
		return nil, fmt.Errorf("%w: failed to persist proposal: %v", apperrors.ErrInternalServer, err)
	}

	if p.Status != previous {
		monitoring.RecordStateTransition(string(previous), string(p.Status))
	}
	s.publishEvents(ctx, p)
	s.logger.Info("Proposal updated", "proposalID", id, "from", string(previous), "to", string(p.Status))
	return p, nil
}

func (s *proposalServiceImpl) findByID(ctx context.Context, id string) (*proposal.Proposal, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Proposal not found", "proposalID", id)
			return nil, fmt.Errorf("%w: proposal %s not found", apperrors.ErrNotFound, id)
		}
		s.logger.Error("Failed to load proposal", "proposalID", id, "error", err)
		return nil, fmt.Errorf("%w: failed to load proposal %s: %v", apperrors.ErrInternalServer, id, err)
	}
	return p, nil
}

func (s *proposalServiceImpl) publishEvents(ctx context.Context, p *proposal.Proposal) {
	if s.publisher == nil {
		p.MarkEventsCommitted()
		return
	}

	for _, e := range p.UncommittedEvents() {
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("Failed to publish proposal event",
				"proposalID", p.ID,
				"eventType", string(e.Type),
				"error", err,
			)
		}
	}
	p.MarkEventsCommitted()
}

// suffix keeps only the last four digits of a document for log lines.
func suffix(document string) string {
	if len(document) <= 4 {
		return document
	}
	return "***" + document[len(document)-4:]
}
