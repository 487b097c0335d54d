// Package analysis implements the automated credit decision engines that
// operate on a proposal: behavioural scoring and the income commitment gate.
package analysis

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"proposal-engine/internal/domain/proposal"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

type Recommendation string

const (
	RecommendApprove      Recommendation = "APPROVE"
	RecommendReject       Recommendation = "REJECT"
	RecommendManualReview Recommendation = "MANUAL_REVIEW"
)

const (
	baseScore = 600

	scoreThresholdLow    = 750
	scoreThresholdMedium = 650
	scoreThresholdHigh   = 550

	// Auto-approval cap for MEDIUM risk proposals.
	mediumRiskAutoApproveLimit = 30_000
)

// CreditScore is the scored risk profile of a proposal.
type CreditScore struct {
	Score          int            `json:"score"`
	Risk           RiskLevel      `json:"risk"`
	Factors        []string       `json:"factors"`
	Recommendation Recommendation `json:"recommendation"`
}

// Result is the full automated analysis outcome.
type Result struct {
	Approved          bool            `json:"approved"`
	Score             CreditScore     `json:"score"`
	MaxApprovedAmount decimal.Decimal `json:"maxApprovedAmount"`
	SuggestedTerms    []int           `json:"suggestedTerms"`
	RequiredDocuments []string        `json:"requiredDocuments"`
	Observations      string          `json:"observations"`
}

// ScoringEngine computes a behavioural credit score from the customer
// profile and the requested conditions. The engine is stateless; one
// instance serves all goroutines.
type ScoringEngine struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewScoringEngine(logger *slog.Logger) *ScoringEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringEngine{logger: logger, now: time.Now}
}

// Analyze scores a proposal and derives the automated decision, the credit
// ceiling and the document checklist.
func (e *ScoringEngine) Analyze(p *proposal.Proposal) Result {
	score := e.calculateScore(p)
	approved := shouldApprove(score, p.Terms.RequestedAmount)

	var income decimal.Decimal
	if p.Customer.MonthlyIncome != nil {
		income = *p.Customer.MonthlyIncome
	}

	result := Result{
		Approved:          approved,
		Score:             score,
		MaxApprovedAmount: maxApprovedAmount(income, score.Risk),
		SuggestedTerms:    suggestedTerms(score.Risk),
		RequiredDocuments: requiredDocuments(p.Terms.RequestedAmount, score.Risk),
		Observations:      buildObservations(score, approved),
	}

	e.logger.Info("credit analysis completed",
		slog.String("proposal_id", p.ID),
		slog.Int("score", score.Score),
		slog.String("risk", string(score.Risk)),
		slog.String("recommendation", string(score.Recommendation)),
		slog.Bool("approved", approved),
	)
	return result
}

func (e *ScoringEngine) calculateScore(p *proposal.Proposal) CreditScore {
	score := baseScore
	var factors []string

	if p.Customer.MonthlyIncome != nil && p.Customer.MonthlyIncome.Sign() > 0 {
		committed := p.MonthlyPayment()
		if p.Customer.ExistingDebts != nil {
			committed = committed.Add(*p.Customer.ExistingDebts)
		}
		ratio := committed.Div(*p.Customer.MonthlyIncome)
		switch {
		case ratio.LessThan(decimal.RequireFromString("0.3")):
			score += 100
			factors = append(factors, "Excellent debt-to-income ratio")
		case ratio.LessThan(decimal.RequireFromString("0.5")):
			score += 50
			factors = append(factors, "Good debt-to-income ratio")
		default:
			score -= 50
			factors = append(factors, "High debt-to-income ratio")
		}
	}

	if p.Customer.BirthDate != nil {
		age := ageAt(*p.Customer.BirthDate, e.now())
		if age >= 25 && age <= 65 {
			score += 50
			factors = append(factors, "Prime working age")
		}
	}

	if strings.TrimSpace(p.Customer.Occupation) != "" {
		score += 30
		factors = append(factors, "Employed")
	}

	amount := p.Terms.RequestedAmount
	switch {
	case amount.GreaterThan(decimal.NewFromInt(50_000)):
		score -= 30
		factors = append(factors, "High loan amount")
	case amount.LessThan(decimal.NewFromInt(10_000)):
		score += 20
		factors = append(factors, "Conservative loan amount")
	}

	var risk RiskLevel
	var recommendation Recommendation
	switch {
	case score >= scoreThresholdLow:
		risk, recommendation = RiskLow, RecommendApprove
	case score >= scoreThresholdMedium:
		risk, recommendation = RiskMedium, RecommendApprove
	case score >= scoreThresholdHigh:
		risk, recommendation = RiskHigh, RecommendManualReview
	default:
		risk, recommendation = RiskVeryHigh, RecommendReject
	}

	return CreditScore{
		Score:          score,
		Risk:           risk,
		Factors:        factors,
		Recommendation: recommendation,
	}
}

func shouldApprove(score CreditScore, requestedAmount decimal.Decimal) bool {
	if score.Risk == RiskLow {
		return true
	}
	if score.Risk == RiskMedium &&
		requestedAmount.LessThanOrEqual(decimal.NewFromInt(mediumRiskAutoApproveLimit)) {
		return true
	}
	return false
}

// maxApprovedAmount is the income multiple the risk profile allows, floored
// to whole currency units.
func maxApprovedAmount(monthlyIncome decimal.Decimal, risk RiskLevel) decimal.Decimal {
	if monthlyIncome.Sign() <= 0 {
		return decimal.Zero
	}

	var multiplier int64
	switch risk {
	case RiskLow:
		multiplier = 20
	case RiskMedium:
		multiplier = 15
	case RiskHigh:
		multiplier = 10
	case RiskVeryHigh:
		multiplier = 5
	default:
		multiplier = 10
	}

	return monthlyIncome.Mul(decimal.NewFromInt(multiplier)).Floor()
}

func suggestedTerms(risk RiskLevel) []int {
	switch risk {
	case RiskLow:
		return []int{12, 24, 36, 48, 60, 72, 84}
	case RiskMedium:
		return []int{12, 24, 36, 48, 60}
	case RiskHigh:
		return []int{12, 24, 36}
	case RiskVeryHigh:
		return []int{12, 24}
	default:
		return []int{12, 24, 36}
	}
}

func requiredDocuments(amount decimal.Decimal, risk RiskLevel) []string {
	docs := []string{"CPF", "RG", "Comprovante de Residência", "Comprovante de Renda"}

	if amount.GreaterThan(decimal.NewFromInt(30_000)) || risk == RiskHigh || risk == RiskVeryHigh {
		docs = append(docs,
			"Extrato Bancário (3 meses)",
			"Declaração de Imposto de Renda",
			"Certidão de Estado Civil",
		)
	}

	if amount.GreaterThan(decimal.NewFromInt(50_000)) {
		docs = append(docs, "Certidão Negativa de Débitos", "Referências Comerciais")
	}

	return docs
}

func buildObservations(score CreditScore, approved bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Análise de crédito concluída. Score: %d. ", score.Score)
	fmt.Fprintf(&b, "Nível de risco: %s. ", riskInPortuguese(score.Risk))

	switch {
	case approved:
		b.WriteString("Proposta APROVADA com base nos critérios de análise automática. ")
	case score.Recommendation == RecommendManualReview:
		b.WriteString("Proposta requer ANÁLISE MANUAL devido ao perfil de risco. ")
	default:
		b.WriteString("Proposta NÃO APROVADA automaticamente. ")
	}

	if len(score.Factors) > 0 {
		fmt.Fprintf(&b, "Fatores considerados: %s.", strings.Join(score.Factors, ", "))
	}
	return b.String()
}

func riskInPortuguese(risk RiskLevel) string {
	switch risk {
	case RiskLow:
		return "Baixo"
	case RiskMedium:
		return "Médio"
	case RiskHigh:
		return "Alto"
	case RiskVeryHigh:
		return "Muito Alto"
	default:
		return string(risk)
	}
}

func ageAt(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}
