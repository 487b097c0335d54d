package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"proposal-engine/internal/domain/proposal"
	"proposal-engine/internal/infrastructure/monitoring"
	"proposal-engine/internal/pkg/apperrors"
	"proposal-engine/internal/pkg/cpf"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

const proposalColumns = `id, status, customer_name, customer_cpf, customer_email, customer_phone,
customer_birth_date, customer_monthly_income, customer_existing_debts, customer_occupation,
requested_amount, term_months, purpose, collateral, interest_rate, tac_value, iof_value,
total_financed_amount, monthly_payment, store_id, rejection_reason, pending_reason,
observations, contract_ref, signed_at, created_at, updated_at`

type ProposalRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewProposalRepository(db DBPool, logger *slog.Logger) *ProposalRepository {
	return &ProposalRepository{db: db, logger: logger.With("component", "ProposalRepository")}
}

func (r *ProposalRepository) Save(ctx context.Context, p *proposal.Proposal) error {
	sql := `
        INSERT INTO proposals (` + proposalColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
                $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`

	status := "success"
	startTime := time.Now()
	_, err := r.db.Exec(ctx, sql,
		p.ID, string(p.Status), p.Customer.Name, p.Customer.CPF.Value(),
		p.Customer.Email, p.Customer.Phone, p.Customer.BirthDate,
		nullDecimal(p.Customer.MonthlyIncome), nullDecimal(p.Customer.ExistingDebts),
		p.Customer.Occupation,
		p.Terms.RequestedAmount, p.Terms.TermMonths, p.Terms.Purpose, p.Terms.Collateral,
		p.Terms.InterestRate, p.Terms.TACValue, p.Terms.IOFValue,
		p.Terms.TotalFinancedAmount, p.Terms.MonthlyPayment,
		p.StoreID, p.RejectionReason, p.PendingReason, p.Observations,
		p.ContractRef, p.SignedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("SaveProposal", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert proposal", "proposal_id", p.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Proposal created in DB", "proposal_id", p.ID)
	return nil
}

func (r *ProposalRepository) Update(ctx context.Context, p *proposal.Proposal) error {
	sql := `
        UPDATE proposals
        SET status = $2, customer_name = $3, customer_email = $4, customer_phone = $5,
            customer_birth_date = $6, customer_monthly_income = $7, customer_existing_debts = $8,
            customer_occupation = $9, requested_amount = $10, term_months = $11, purpose = $12,
            collateral = $13, interest_rate = $14, tac_value = $15, iof_value = $16,
            total_financed_amount = $17, monthly_payment = $18, rejection_reason = $19,
            pending_reason = $20, observations = $21, contract_ref = $22, signed_at = $23,
            updated_at = $24
        WHERE id = $1`

	status := "success"
	startTime := time.Now()
	cmdTag, err := r.db.Exec(ctx, sql,
		p.ID, string(p.Status), p.Customer.Name, p.Customer.Email, p.Customer.Phone,
		p.Customer.BirthDate, nullDecimal(p.Customer.MonthlyIncome),
		nullDecimal(p.Customer.ExistingDebts), p.Customer.Occupation,
		p.Terms.RequestedAmount, p.Terms.TermMonths, p.Terms.Purpose, p.Terms.Collateral,
		p.Terms.InterestRate, p.Terms.TACValue, p.Terms.IOFValue,
		p.Terms.TotalFinancedAmount, p.Terms.MonthlyPayment,
		p.RejectionReason, p.PendingReason, p.Observations,
		p.ContractRef, p.SignedAt, p.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateProposal", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update proposal", "proposal_id", p.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Proposal update affected zero rows", "proposal_id", p.ID)
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`

	status := "success"
	startTime := time.Now()
	p, err := r.scanProposal(r.db.QueryRow(ctx, query, id))
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("FindProposalByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Proposal not found", "proposal_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get proposal by ID", "proposal_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return p, nil
}

func (r *ProposalRepository) FindByCPF(ctx context.Context, cpfValue string) ([]*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE customer_cpf = $1 ORDER BY created_at DESC`
	return r.queryProposals(ctx, "FindProposalsByCPF", query, cpfValue)
}

func (r *ProposalRepository) FindByStoreID(ctx context.Context, storeID int64) ([]*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE store_id = $1 ORDER BY created_at DESC`
	return r.queryProposals(ctx, "FindProposalsByStore", query, storeID)
}

func (r *ProposalRepository) FindAll(ctx context.Context, status *proposal.Status, limit, offset int) ([]*proposal.Proposal, error) {
	if status != nil {
		query := `SELECT ` + proposalColumns + ` FROM proposals WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		return r.queryProposals(ctx, "FindAllProposals", query, string(*status), limit, offset)
	}
	query := `SELECT ` + proposalColumns + ` FROM proposals ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryProposals(ctx, "FindAllProposals", query, limit, offset)
}

func (r *ProposalRepository) FindPendingAnalysis(ctx context.Context, limit int) ([]*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE status = $1 ORDER BY updated_at ASC LIMIT $2`
	return r.queryProposals(ctx, "FindPendingAnalysis", query, string(proposal.StatusWaitingAnalysis), limit)
}

func (r *ProposalRepository) FindByStatusAndDateRange(ctx context.Context, status proposal.Status, from, to time.Time) ([]*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals
        WHERE status = $1 AND created_at >= $2 AND created_at < $3
        ORDER BY created_at ASC`
	return r.queryProposals(ctx, "FindProposalsByStatusAndDateRange", query, string(status), from, to)
}

func (r *ProposalRepository) CountByStatus(ctx context.Context) (map[proposal.Status]int64, error) {
	query := `SELECT status, COUNT(*) FROM proposals GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count proposals by status", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	counts := make(map[proposal.Status]int64)
	for rows.Next() {
		var s string
		var n int64
		if err := rows.Scan(&s, &n); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan status count row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		counts[proposal.Status(s)] = n
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating status count rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return counts, nil
}

func (r *ProposalRepository) SumAmountByStatus(ctx context.Context, status proposal.Status) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(requested_amount), 0) FROM proposals WHERE status = $1`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, string(status)).Scan(&total)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to sum proposal amounts", "status", string(status), "error", err)
		return decimal.Zero, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return total, nil
}

func (r *ProposalRepository) FindActiveIDs(ctx context.Context) ([]string, error) {
	logCtx := r.logger.With(slog.String("operation", "FindActiveIDs"))
	logCtx.DebugContext(ctx, "Attempting to get all active proposal IDs")

	query := `SELECT id FROM proposals WHERE status NOT IN ($1, $2, $3) ORDER BY created_at`

	rows, err := r.db.Query(ctx, query,
		string(proposal.StatusRejected), string(proposal.StatusCancelled), string(proposal.StatusPaid))
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query active proposal IDs", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query active proposals: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan active proposal ID row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning active proposal ID: %w", apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating active proposal ID rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating active proposal IDs: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished getting active proposal IDs", slog.Int("count", len(ids)))
	return ids, nil
}

func (r *ProposalRepository) queryProposals(ctx context.Context, queryName, query string, args ...any) ([]*proposal.Proposal, error) {
	status := "success"
	startTime := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query proposals", "query", queryName, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	proposals := make([]*proposal.Proposal, 0)
	for rows.Next() {
		p, err := r.scanProposal(rows)
		if err != nil {
			monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan proposal row", "query", queryName, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		proposals = append(proposals, p)
	}

	if err = rows.Err(); err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery(queryName, status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating proposal rows", "query", queryName, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return proposals, nil
}

// scanProposal maps one row, in proposalColumns order, onto a rehydrated
// aggregate.
func (r *ProposalRepository) scanProposal(row pgx.Row) (*proposal.Proposal, error) {
	var (
		id, statusValue, name, document, email, phone, occupation string
		birthDate, signedAt                                       *time.Time
		income, debts                                             decimal.NullDecimal
		terms                                                     proposal.LoanTerms
		storeID                                                   *int64
		rejectionReason, pendingReason, observations, contractRef string
		createdAt, updatedAt                                      time.Time
	)

	err := row.Scan(
		&id, &statusValue, &name, &document, &email, &phone,
		&birthDate, &income, &debts, &occupation,
		&terms.RequestedAmount, &terms.TermMonths, &terms.Purpose, &terms.Collateral,
		&terms.InterestRate, &terms.TACValue, &terms.IOFValue,
		&terms.TotalFinancedAmount, &terms.MonthlyPayment,
		&storeID, &rejectionReason, &pendingReason, &observations,
		&contractRef, &signedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Stored documents were validated on write; test fixtures stay loadable.
	cpfValue, err := cpf.New(document, cpf.AllowTestValues())
	if err != nil {
		return nil, fmt.Errorf("stored CPF is invalid for proposal %s: %w", id, err)
	}

	customer := proposal.Customer{
		Name:       name,
		CPF:        cpfValue,
		Email:      email,
		Phone:      phone,
		BirthDate:  birthDate,
		Occupation: occupation,
	}
	if income.Valid {
		customer.MonthlyIncome = &income.Decimal
	}
	if debts.Valid {
		customer.ExistingDebts = &debts.Decimal
	}

	return proposal.Rehydrate(
		id, proposal.Status(statusValue), customer, terms, storeID,
		rejectionReason, pendingReason, observations,
		contractRef, signedAt, createdAt, updatedAt,
	), nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
