// Package batch holds the scheduled jobs that keep the analysis queue
// moving without operator intervention.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"proposal-engine/internal/application"
	"proposal-engine/internal/domain/proposal"
	"proposal-engine/internal/pkg/apperrors"
)

// Analyzer is the slice of the application service the job needs.
type Analyzer interface {
	AnalyzeProposal(ctx context.Context, id string) (*application.AnalysisOutcome, error)
}

// Queue exposes the repository read the job sweeps from.
type Queue interface {
	FindPendingAnalysis(ctx context.Context, limit int) ([]*proposal.Proposal, error)
}

// AnalysisQueueJob sweeps proposals sitting in the analysis queue and runs
// the automated decision pipeline over each of them. Proposals submitted
// outside business hours get decided on the next sweep at the latest.
type AnalysisQueueJob struct {
	repo    Queue
	service Analyzer
	limit   int
	logger  *slog.Logger
}

func NewAnalysisQueueJob(
	repo Queue,
	service Analyzer,
	limit int,
	logger *slog.Logger,
) *AnalysisQueueJob {
	if repo == nil || service == nil || logger == nil {
		panic("AnalysisQueueJob dependencies cannot be nil")
	}
	if limit <= 0 {
		limit = 100
	}
	return &AnalysisQueueJob{
		repo:    repo,
		service: service,
		limit:   limit,
		logger:  logger.With("job", "AnalysisQueue"),
	}
}

func (j *AnalysisQueueJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting analysis queue sweep job.")

	queued, err := j.repo.FindPendingAnalysis(ctx, j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to fetch analysis queue, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to fetch analysis queue: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched queued proposals.", slog.Int("count", len(queued)))

	if len(queued) == 0 {
		j.logger.InfoContext(ctx, "No proposals waiting for analysis.",
			slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var processedCount, approvedCount, rejectedCount, pendingCount, reviewCount, errorCount atomic.Int32

	for _, p := range queued {
		wg.Add(1)
		go func(proposalID string) {
			defer wg.Done()

			logCtx := j.logger.With(slog.String("proposalID", proposalID))
			outcome, analyzeErr := j.service.AnalyzeProposal(ctx, proposalID)
			if analyzeErr != nil {
				if errors.Is(analyzeErr, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Proposal vanished between fetch and analysis", slog.Any("error", analyzeErr))
				} else if errors.Is(analyzeErr, apperrors.ErrInvalidTransition) {
					logCtx.WarnContext(ctx, "Proposal left the analysis queue concurrently", slog.Any("error", analyzeErr))
				} else {
					logCtx.ErrorContext(ctx, "Failed to analyze proposal", slog.Any("error", analyzeErr))
					errorCount.Add(1)
				}
				return
			}

			processedCount.Add(1)
			switch outcome.Proposal.Status {
			case proposal.StatusApproved:
				approvedCount.Add(1)
			case proposal.StatusRejected:
				rejectedCount.Add(1)
			case proposal.StatusPending:
				pendingCount.Add(1)
			default:
				reviewCount.Add(1)
			}
		}(p.ID)
	}

	wg.Wait()
	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("queued", len(queued)),
		slog.Int("processed", int(processedCount.Load())),
		slog.Int("approved", int(approvedCount.Load())),
		slog.Int("rejected", int(rejectedCount.Load())),
		slog.Int("pending", int(pendingCount.Load())),
		slog.Int("manual_review", int(reviewCount.Load())),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)
	if errorCount.Load() > 0 {
		summaryLog.WarnContext(ctx, "Analysis queue sweep finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount.Load())
	}
	summaryLog.InfoContext(ctx, "Analysis queue sweep finished successfully.")
	return nil
}
