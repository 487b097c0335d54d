package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"proposal-engine/internal/application"
	"proposal-engine/internal/domain/analysis"
	"proposal-engine/internal/domain/proposal"
)

const dateLayout = "2006-01-02"

type CreateProposalRequest struct {
	CustomerName  string  `json:"customerName"`
	CPF           string  `json:"cpf"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	BirthDate     string  `json:"birthDate,omitempty"`
	MonthlyIncome *string `json:"monthlyIncome,omitempty"`
	ExistingDebts *string `json:"existingDebts,omitempty"`
	Occupation    string  `json:"occupation,omitempty"`

	Amount       string `json:"amount"`
	TermMonths   int    `json:"termMonths"`
	Purpose      string `json:"purpose"`
	Collateral   string `json:"collateral,omitempty"`
	InterestRate string `json:"interestRate,omitempty"`

	StoreID *int64 `json:"storeId,omitempty"`
}

func (r *CreateProposalRequest) Validate() error {
	if r.CustomerName == "" {
		return fmt.Errorf("customerName is required")
	}
	if r.CPF == "" {
		return fmt.Errorf("cpf is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if r.TermMonths <= 0 {
		return fmt.Errorf("termMonths must be positive")
	}
	if r.BirthDate != "" {
		if _, err := time.Parse(dateLayout, r.BirthDate); err != nil {
			return fmt.Errorf("invalid birthDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

// ToInput converts the validated request into the application input. Call
// Validate first; malformed optional numbers still error here.
func (r *CreateProposalRequest) ToInput() (application.CreateProposalInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return application.CreateProposalInput{}, fmt.Errorf("invalid amount: %w", err)
	}

	input := application.CreateProposalInput{
		CustomerName:    r.CustomerName,
		CustomerCPF:     r.CPF,
		Email:           r.Email,
		Phone:           r.Phone,
		Occupation:      r.Occupation,
		RequestedAmount: amount,
		TermMonths:      r.TermMonths,
		Purpose:         r.Purpose,
		Collateral:      r.Collateral,
		StoreID:         r.StoreID,
	}

	if r.BirthDate != "" {
		birth, err := time.Parse(dateLayout, r.BirthDate)
		if err != nil {
			return application.CreateProposalInput{}, fmt.Errorf("invalid birthDate: %w", err)
		}
		input.BirthDate = &birth
	}
	if r.MonthlyIncome != nil {
		income, err := decimal.NewFromString(*r.MonthlyIncome)
		if err != nil {
			return application.CreateProposalInput{}, fmt.Errorf("invalid monthlyIncome: %w", err)
		}
		input.MonthlyIncome = &income
	}
	if r.ExistingDebts != nil {
		debts, err := decimal.NewFromString(*r.ExistingDebts)
		if err != nil {
			return application.CreateProposalInput{}, fmt.Errorf("invalid existingDebts: %w", err)
		}
		input.ExistingDebts = &debts
	}
	if r.InterestRate != "" {
		rate, err := decimal.NewFromString(r.InterestRate)
		if err != nil {
			return application.CreateProposalInput{}, fmt.Errorf("invalid interestRate: %w", err)
		}
		input.InterestRate = rate
	}

	return input, nil
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (r *ReasonRequest) Validate() error {
	if r.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	return nil
}

type ResubmitRequest struct {
	Amount       *string `json:"amount,omitempty"`
	TermMonths   *int    `json:"termMonths,omitempty"`
	InterestRate *string `json:"interestRate,omitempty"`
	Observations string  `json:"observations,omitempty"`
}

func (r *ResubmitRequest) ToUpdate() (proposal.Update, error) {
	var update proposal.Update
	if r.Amount != nil {
		amount, err := decimal.NewFromString(*r.Amount)
		if err != nil {
			return proposal.Update{}, fmt.Errorf("invalid amount: %w", err)
		}
		update.RequestedAmount = &amount
	}
	if r.TermMonths != nil {
		update.TermMonths = r.TermMonths
	}
	if r.InterestRate != nil {
		rate, err := decimal.NewFromString(*r.InterestRate)
		if err != nil {
			return proposal.Update{}, fmt.Errorf("invalid interestRate: %w", err)
		}
		update.InterestRate = &rate
	}
	update.Observations = r.Observations
	return update, nil
}

type ContractRequest struct {
	ContractRef string `json:"contractRef"`
}

func (r *ContractRequest) Validate() error {
	if r.ContractRef == "" {
		return fmt.Errorf("contractRef is required")
	}
	return nil
}

type CustomerResponse struct {
	Name          string  `json:"name"`
	CPF           string  `json:"cpf"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	BirthDate     string  `json:"birthDate,omitempty"`
	MonthlyIncome *string `json:"monthlyIncome,omitempty"`
	ExistingDebts *string `json:"existingDebts,omitempty"`
	Occupation    string  `json:"occupation,omitempty"`
}

type ProposalResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	Customer CustomerResponse `json:"customer"`

	Amount         string `json:"amount"`
	TermMonths     int    `json:"termMonths"`
	Purpose        string `json:"purpose,omitempty"`
	Collateral     string `json:"collateral,omitempty"`
	InterestRate   string `json:"interestRate"`
	MonthlyPayment string `json:"monthlyPayment"`
	TotalAmount    string `json:"totalAmount"`
	CET            string `json:"cet"`

	StoreID         *int64 `json:"storeId,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	PendingReason   string `json:"pendingReason,omitempty"`
	Observations    string `json:"observations,omitempty"`
	ContractRef     string `json:"contractRef,omitempty"`

	SignedAt  *time.Time `json:"signedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type PrecheckResponse struct {
	Decision   string `json:"decision"`
	Reason     string `json:"reason"`
	Commitment string `json:"commitment,omitempty"`
}

type ScoringResponse struct {
	Score             int      `json:"score"`
	Risk              string   `json:"risk"`
	Recommendation    string   `json:"recommendation"`
	Factors           []string `json:"factors"`
	MaxApprovedAmount string   `json:"maxApprovedAmount"`
	SuggestedTerms    []int    `json:"suggestedTerms"`
	RequiredDocuments []string `json:"requiredDocuments"`
	Observations      string   `json:"observations"`
}

type AnalysisResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Precheck PrecheckResponse `json:"precheck"`
	Scoring  *ScoringResponse `json:"scoring,omitempty"`
}

type DashboardMetricsResponse struct {
	CountsByStatus  map[string]int64 `json:"countsByStatus"`
	ApprovedAmount  string           `json:"approvedAmount"`
	FormalizedTotal string           `json:"formalizedTotal"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

func NewProposalResponse(p *proposal.Proposal) ProposalResponse {
	customer := CustomerResponse{
		Name:       p.Customer.Name,
		CPF:        p.Customer.CPF.Formatted(),
		Email:      p.Customer.Email,
		Phone:      p.Customer.Phone,
		Occupation: p.Customer.Occupation,
	}
	if p.Customer.BirthDate != nil {
		customer.BirthDate = p.Customer.BirthDate.Format(dateLayout)
	}
	if p.Customer.MonthlyIncome != nil {
		s := p.Customer.MonthlyIncome.StringFixed(2)
		customer.MonthlyIncome = &s
	}
	if p.Customer.ExistingDebts != nil {
		s := p.Customer.ExistingDebts.StringFixed(2)
		customer.ExistingDebts = &s
	}

	return ProposalResponse{
		ID:              p.ID,
		Status:          string(p.Status),
		Customer:        customer,
		Amount:          p.Terms.RequestedAmount.StringFixed(2),
		TermMonths:      p.Terms.TermMonths,
		Purpose:         p.Terms.Purpose,
		Collateral:      p.Terms.Collateral,
		InterestRate:    p.Terms.InterestRate.String(),
		MonthlyPayment:  p.MonthlyPayment().StringFixed(2),
		TotalAmount:     p.TotalAmount().StringFixed(2),
		CET:             p.CET().StringFixed(2),
		StoreID:         p.StoreID,
		RejectionReason: p.RejectionReason,
		PendingReason:   p.PendingReason,
		Observations:    p.Observations,
		ContractRef:     p.ContractRef,
		SignedAt:        p.SignedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewProposalListResponse(list []*proposal.Proposal) []ProposalResponse {
	out := make([]ProposalResponse, len(list))
	for i, p := range list {
		out[i] = NewProposalResponse(p)
	}
	return out
}

func NewAnalysisResponse(outcome *application.AnalysisOutcome) AnalysisResponse {
	resp := AnalysisResponse{
		Proposal: NewProposalResponse(outcome.Proposal),
		Precheck: PrecheckResponse{
			Decision: string(outcome.Precheck.Decision),
			Reason:   outcome.Precheck.Reason,
		},
	}
	if outcome.Precheck.Decision == analysis.DecisionApproved ||
		outcome.Precheck.Decision == analysis.DecisionRejected {
		resp.Precheck.Commitment = outcome.Precheck.Commitment.StringFixed(1)
	}

	if outcome.Scoring != nil {
		resp.Scoring = &ScoringResponse{
			Score:             outcome.Scoring.Score.Score,
			Risk:              string(outcome.Scoring.Score.Risk),
			Recommendation:    string(outcome.Scoring.Score.Recommendation),
			Factors:           outcome.Scoring.Score.Factors,
			MaxApprovedAmount: outcome.Scoring.MaxApprovedAmount.StringFixed(2),
			SuggestedTerms:    outcome.Scoring.SuggestedTerms,
			RequiredDocuments: outcome.Scoring.RequiredDocuments,
			Observations:      outcome.Scoring.Observations,
		}
	}
	return resp
}

func NewDashboardMetricsResponse(m *application.DashboardMetrics) DashboardMetricsResponse {
	counts := make(map[string]int64, len(m.CountsByStatus))
	for status, n := range m.CountsByStatus {
		counts[string(status)] = n
	}
	return DashboardMetricsResponse{
		CountsByStatus:  counts,
		ApprovedAmount:  m.ApprovedAmount.StringFixed(2),
		FormalizedTotal: m.FormalizedTotal.StringFixed(2),
	}
}
