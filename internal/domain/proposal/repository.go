package proposal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository is the persistence port for the proposal aggregate. The
// postgres implementation lives under internal/infrastructure/database.
type Repository interface {
	// Save inserts a new proposal.
	Save(ctx context.Context, p *Proposal) error
	// Update persists the current state of an existing proposal.
	Update(ctx context.Context, p *Proposal) error

	// FindByID returns apperrors.ErrNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*Proposal, error)
	// FindByCPF lists every proposal for a customer document, newest first.
	FindByCPF(ctx context.Context, cpfValue string) ([]*Proposal, error)
	// FindByStoreID lists proposals originated by a partner store.
	FindByStoreID(ctx context.Context, storeID int64) ([]*Proposal, error)
	// FindAll lists proposals, optionally filtered by status, with
	// limit/offset pagination.
	FindAll(ctx context.Context, status *Status, limit, offset int) ([]*Proposal, error)

	// FindPendingAnalysis returns proposals waiting in the analysis queue,
	// oldest first.
	FindPendingAnalysis(ctx context.Context, limit int) ([]*Proposal, error)
	// FindByStatusAndDateRange filters on status and creation window.
	FindByStatusAndDateRange(ctx context.Context, status Status, from, to time.Time) ([]*Proposal, error)

	// CountByStatus aggregates proposal counts per status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	// SumAmountByStatus totals the requested amounts in a given status.
	SumAmountByStatus(ctx context.Context, status Status) (decimal.Decimal, error)
	// FindActiveIDs lists the IDs of proposals in non-terminal states, for
	// batch sweeps.
	FindActiveIDs(ctx context.Context) ([]string, error)
}
