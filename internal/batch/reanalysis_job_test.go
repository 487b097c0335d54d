package batch

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"proposal-engine/internal/application"
	"proposal-engine/internal/domain/analysis"
	"proposal-engine/internal/domain/proposal"
	"proposal-engine/internal/pkg/cpf"
)

var testLogger = slog.New(slog.DiscardHandler)

type MockQueue struct {
	mock.Mock
}

func (_m *MockQueue) FindPendingAnalysis(ctx context.Context, limit int) ([]*proposal.Proposal, error) {
	ret := _m.Called(ctx, limit)
	if list, ok := ret.Get(0).([]*proposal.Proposal); ok {
		return list, ret.Error(1)
	}
	return nil, ret.Error(1)
}

type MockAnalyzer struct {
	mock.Mock
}

func (_m *MockAnalyzer) AnalyzeProposal(ctx context.Context, id string) (*application.AnalysisOutcome, error) {
	ret := _m.Called(ctx, id)
	if outcome, ok := ret.Get(0).(*application.AnalysisOutcome); ok {
		return outcome, ret.Error(1)
	}
	return nil, ret.Error(1)
}

func queuedProposal(t *testing.T, id string, status proposal.Status) *proposal.Proposal {
	t.Helper()
	doc, err := cpf.New("52998224725")
	assert.NoError(t, err)

	now := time.Now()
	return proposal.Rehydrate(
		id, status,
		proposal.Customer{Name: "Ana Dias", CPF: doc, Email: "ana@example.com"},
		proposal.LoanTerms{RequestedAmount: decimal.NewFromInt(10_000), TermMonths: 12},
		nil, "", "", "", "", nil, now, now,
	)
}

func outcomeWithStatus(p *proposal.Proposal, status proposal.Status) *application.AnalysisOutcome {
	p.Status = status
	return &application.AnalysisOutcome{
		Proposal: p,
		Precheck: analysis.PrecheckResult{Decision: analysis.DecisionApproved},
	}
}

func TestAnalysisQueueJobRun(t *testing.T) {
	queue := new(MockQueue)
	analyzer := new(MockAnalyzer)

	first := queuedProposal(t, "11111111-aaaa-4bbb-8ccc-000000000001", proposal.StatusWaitingAnalysis)
	second := queuedProposal(t, "11111111-aaaa-4bbb-8ccc-000000000002", proposal.StatusWaitingAnalysis)

	queue.On("FindPendingAnalysis", mock.Anything, 50).
		Return([]*proposal.Proposal{first, second}, nil)
	analyzer.On("AnalyzeProposal", mock.Anything, first.ID).
		Return(outcomeWithStatus(first, proposal.StatusApproved), nil)
	analyzer.On("AnalyzeProposal", mock.Anything, second.ID).
		Return(outcomeWithStatus(second, proposal.StatusRejected), nil)

	job := NewAnalysisQueueJob(queue, analyzer, 50, testLogger)
	err := job.Run(context.Background())

	assert.NoError(t, err)
	queue.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

func TestAnalysisQueueJobEmptyQueue(t *testing.T) {
	queue := new(MockQueue)
	analyzer := new(MockAnalyzer)

	queue.On("FindPendingAnalysis", mock.Anything, 100).
		Return([]*proposal.Proposal{}, nil)

	job := NewAnalysisQueueJob(queue, analyzer, 0, testLogger)
	err := job.Run(context.Background())

	assert.NoError(t, err)
	analyzer.AssertNotCalled(t, "AnalyzeProposal", mock.Anything, mock.Anything)
}

func TestAnalysisQueueJobFetchFailure(t *testing.T) {
	queue := new(MockQueue)
	analyzer := new(MockAnalyzer)

	queue.On("FindPendingAnalysis", mock.Anything, 50).
		Return(nil, errors.New("connection refused"))

	job := NewAnalysisQueueJob(queue, analyzer, 50, testLogger)
	err := job.Run(context.Background())

	assert.Error(t, err)
	analyzer.AssertNotCalled(t, "AnalyzeProposal", mock.Anything, mock.Anything)
}

func TestAnalysisQueueJobReportsAnalysisErrors(t *testing.T) {
	queue := new(MockQueue)
	analyzer := new(MockAnalyzer)

	p := queuedProposal(t, "11111111-aaaa-4bbb-8ccc-000000000003", proposal.StatusWaitingAnalysis)
	queue.On("FindPendingAnalysis", mock.Anything, 50).
		Return([]*proposal.Proposal{p}, nil)
	analyzer.On("AnalyzeProposal", mock.Anything, p.ID).
		Return(nil, errors.New("scoring backend unavailable"))

	job := NewAnalysisQueueJob(queue, analyzer, 50, testLogger)
	err := job.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
}
