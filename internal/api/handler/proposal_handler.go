package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"proposal-engine/internal/api/handler/dto"
	"proposal-engine/internal/application"
	"proposal-engine/internal/domain/proposal"
	"proposal-engine/internal/pkg/apperrors"
)

type ProposalHandler struct {
	service application.ProposalService
	logger  *slog.Logger
}

func NewProposalHandler(s application.ProposalService, l *slog.Logger) *ProposalHandler {
	if s == nil {
		panic("proposal service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ProposalHandler{
		service: s,
		logger:  l.With("component", "ProposalHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var transitionError *apperrors.TransitionError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &transitionError):
		status, message = http.StatusConflict, transitionError.Error()
	case errors.Is(err, apperrors.ErrInvalidTransition):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvariantViolation):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized."
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getProposalIDFromURL(r *http.Request) (string, error) {
	id := chi.URLParam(r, "proposalID")
	if id == "" {
		return "", fmt.Errorf("%w: proposalID not found in URL path", apperrors.ErrInvalidArgument)
	}
	return id, nil
}

// CreateProposal handles POST /proposals
// @Summary Create a new credit proposal
// @Description Registers a draft proposal for a customer identified by CPF, validating loan terms against the lending policy.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param request body dto.CreateProposalRequest true "Proposal creation request"
// @Success 201 {object} dto.ProposalResponse "Proposal successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 422 {object} dto.ErrorResponse "Policy invariant violated (e.g., amount out of range, malformed CPF)"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals [post]
// @Security BearerAuth
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create proposal request")

	var req dto.CreateProposalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to convert request payload", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateProposal(r.Context(), input)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create proposal", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewProposalResponse(created)
	h.logger.InfoContext(r.Context(), "Proposal created successfully", slog.String("proposalID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetProposal handles GET /proposals/{proposalID}
// @Summary Retrieve proposal details
// @Description Retrieves a proposal with its current lifecycle status and computed financial figures.
// @Tags Proposals
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Proposal details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid proposal ID"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID} [get]
// @Security BearerAuth
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := getProposalIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	found, err := h.service.GetProposal(r.Context(), proposalID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get proposal", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProposalResponse(found))
}

// ListProposals handles GET /proposals
// @Summary List proposals
// @Description Lists proposals with optional status filter and pagination.
// @Tags Proposals
// @Produce json
// @Param status query string false "Filter by status (e.g., aprovado, em_analise)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Pagination offset"
// @Success 200 {array} dto.ProposalResponse "List of proposals"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals [get]
// @Security BearerAuth
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	var status *proposal.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := proposal.Status(raw)
		status = &s
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		respondError(w, err)
		return
	}

	list, err := h.service.ListProposals(r.Context(), status, limit, offset)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list proposals", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Proposals listed successfully", slog.Int("count", len(list)))
	respondJSON(w, http.StatusOK, dto.NewProposalListResponse(list))
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s format: %s", apperrors.ErrInvalidArgument, name, raw)
	}
	return value, nil
}

// ListPendingAnalysis handles GET /proposals/queue
// @Summary List the analysis queue
// @Description Retrieves proposals waiting for analysis, oldest first.
// @Tags Proposals
// @Produce json
// @Param limit query int false "Maximum queue entries (default 100, max 500)"
// @Success 200 {array} dto.ProposalResponse "Queued proposals"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/queue [get]
// @Security BearerAuth
func (h *ProposalHandler) ListPendingAnalysis(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, err)
		return
	}

	list, err := h.service.ListPendingAnalysis(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list analysis queue", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProposalListResponse(list))
}

// ListByCPF handles GET /proposals/by-cpf/{cpf}
// @Summary List proposals by customer CPF
// @Description Retrieves every proposal registered for a customer document.
// @Tags Proposals
// @Produce json
// @Param cpf path string true "Customer CPF (formatted or digits only)"
// @Success 200 {array} dto.ProposalResponse "List of proposals"
// @Failure 422 {object} dto.ErrorResponse "Malformed CPF"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/by-cpf/{cpf} [get]
// @Security BearerAuth
func (h *ProposalHandler) ListByCPF(w http.ResponseWriter, r *http.Request) {
	rawCPF := chi.URLParam(r, "cpf")
	if rawCPF == "" {
		respondError(w, fmt.Errorf("%w: cpf not found in URL path", apperrors.ErrInvalidArgument))
		return
	}

	list, err := h.service.ListByCPF(r.Context(), rawCPF)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrInvariantViolation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to list proposals by CPF", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProposalListResponse(list))
}

// ListByStore handles GET /proposals/by-store/{storeID}
// @Summary List proposals by store
// @Description Retrieves every proposal originated by a partner store.
// @Tags Proposals
// @Produce json
// @Param storeID path int true "Store ID" Minimum(1)
// @Success 200 {array} dto.ProposalResponse "List of proposals"
// @Failure 400 {object} dto.ErrorResponse "Invalid store ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/by-store/{storeID} [get]
// @Security BearerAuth
func (h *ProposalHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "storeID")
	storeID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || storeID <= 0 {
		respondError(w, fmt.Errorf("%w: invalid storeID format in URL path: %s", apperrors.ErrInvalidArgument, idStr))
		return
	}

	list, err := h.service.ListByStore(r.Context(), storeID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list proposals by store", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProposalListResponse(list))
}

// GetDashboardMetrics handles GET /proposals/metrics
// @Summary Portfolio dashboard metrics
// @Description Returns proposal counts per status plus approved and formalized amount totals.
// @Tags Proposals
// @Produce json
// @Success 200 {object} dto.DashboardMetricsResponse "Dashboard metrics"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/metrics [get]
// @Security BearerAuth
func (h *ProposalHandler) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.GetDashboardMetrics(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute dashboard metrics", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDashboardMetricsResponse(metrics))
}

// SubmitProposal handles POST /proposals/{proposalID}/submit
// @Summary Submit a draft proposal for analysis
// @Description Moves a draft proposal into the analysis queue after completeness checks.
// @Tags Lifecycle
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Proposal queued for analysis"
// @Failure 400 {object} dto.ErrorResponse "Proposal incomplete (missing contact, purpose)"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal is not a draft"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/submit [post]
// @Security BearerAuth
func (h *ProposalHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "submit", h.service.SubmitProposal)
}

// AnalyzeProposal handles POST /proposals/{proposalID}/analyze
// @Summary Run the automated credit analysis
// @Description Executes the income commitment pre-check and, when it passes, the credit scoring engine. The proposal moves to approved, rejected, pending or stays in analysis for manual review.
// @Tags Lifecycle
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.AnalysisResponse "Analysis outcome with decision detail"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal is not waiting for analysis"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/analyze [post]
// @Security BearerAuth
func (h *ProposalHandler) AnalyzeProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := getProposalIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	outcome, err := h.service.AnalyzeProposal(r.Context(), proposalID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidTransition) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to analyze proposal", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Proposal analyzed",
		slog.String("proposalID", proposalID),
		slog.String("status", string(outcome.Proposal.Status)))
	respondJSON(w, http.StatusOK, dto.NewAnalysisResponse(outcome))
}

// ApproveProposal handles POST /proposals/{proposalID}/approve
// @Summary Approve a proposal under analysis
// @Description Manually approves a proposal, re-checking the income commitment ceiling.
// @Tags Lifecycle
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Proposal approved"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal is not under analysis"
// @Failure 422 {object} dto.ErrorResponse "Income commitment exceeds the policy ceiling"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/approve [post]
// @Security BearerAuth
func (h *ProposalHandler) ApproveProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve", h.service.ApproveProposal)
}

// RejectProposal handles POST /proposals/{proposalID}/reject
// @Summary Reject a proposal
// @Description Rejects a proposal under analysis with a mandatory reason.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Param request body dto.ReasonRequest true "Rejection reason"
// @Success 200 {object} dto.ProposalResponse "Proposal rejected"
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid lifecycle state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/reject [post]
// @Security BearerAuth
func (h *ProposalHandler) RejectProposal(w http.ResponseWriter, r *http.Request) {
	h.transitionWithReason(w, r, "reject", h.service.RejectProposal)
}

// SetPending handles POST /proposals/{proposalID}/pending
// @Summary Flag a proposal as pending documentation
// @Description Parks a proposal under analysis until the customer supplies the missing data named in the reason.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Param request body dto.ReasonRequest true "Pending reason"
// @Success 200 {object} dto.ProposalResponse "Proposal flagged as pending"
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid lifecycle state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/pending [post]
// @Security BearerAuth
func (h *ProposalHandler) SetPending(w http.ResponseWriter, r *http.Request) {
	h.transitionWithReason(w, r, "set pending", h.service.SetPending)
}

// ResubmitProposal handles POST /proposals/{proposalID}/resubmit
// @Summary Resubmit a pending proposal with corrected data
// @Description Applies corrections to a pending proposal and returns it to analysis. Invalid corrections are rolled back.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Param request body dto.ResubmitRequest true "Corrected fields"
// @Success 200 {object} dto.ProposalResponse "Proposal back under analysis"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal is not pending"
// @Failure 422 {object} dto.ErrorResponse "Corrections violate lending policy"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/resubmit [post]
// @Security BearerAuth
func (h *ProposalHandler) ResubmitProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := getProposalIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.ResubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	update, err := req.ToUpdate()
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.ResubmitProposal(r.Context(), proposalID, update)
	if err != nil {
		h.logTransitionError(r, "resubmit", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Proposal resubmitted", slog.String("proposalID", proposalID))
	respondJSON(w, http.StatusOK, dto.NewProposalResponse(updated))
}

// GenerateContract handles POST /proposals/{proposalID}/contract
// @Summary Record the generated credit contract
// @Description Attaches the generated contract reference (CCB number) to an approved proposal.
// @Tags Formalization
// @Accept json
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Param request body dto.ContractRequest true "Contract reference"
// @Success 200 {object} dto.ProposalResponse "Contract recorded"
// @Failure 400 {object} dto.ErrorResponse "Missing contract reference"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal is not approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/contract [post]
// @Security BearerAuth
func (h *ProposalHandler) GenerateContract(w http.ResponseWriter, r *http.Request) {
	proposalID, err := getProposalIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.ContractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.GenerateContract(r.Context(), proposalID, req.ContractRef)
	if err != nil {
		h.logTransitionError(r, "generate contract", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Contract recorded",
		slog.String("proposalID", proposalID), slog.String("contractRef", req.ContractRef))
	respondJSON(w, http.StatusOK, dto.NewProposalResponse(updated))
}

// SendForSignature handles POST /proposals/{proposalID}/signature/send
// @Summary Send the contract for electronic signature
// @Tags Formalization
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Proposal awaiting signature"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Contract was not generated yet"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/signature/send [post]
// @Security BearerAuth
func (h *ProposalHandler) SendForSignature(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "send for signature", h.service.SendForSignature)
}

// ConfirmSignature handles POST /proposals/{proposalID}/signature/confirm
// @Summary Confirm the electronic signature
// @Tags Formalization
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Signature confirmed"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal is not awaiting signature"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/signature/confirm [post]
// @Security BearerAuth
func (h *ProposalHandler) ConfirmSignature(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "confirm signature", h.service.ConfirmSignature)
}

// FormalizeProposal handles POST /proposals/{proposalID}/formalize
// @Summary Formalize the credit operation
// @Tags Formalization
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Proposal formalized"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid lifecycle state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/formalize [post]
// @Security BearerAuth
func (h *ProposalHandler) FormalizeProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "formalize", h.service.FormalizeProposal)
}

// MarkProposalPaid handles POST /proposals/{proposalID}/payment
// @Summary Register the credit disbursement
// @Tags Formalization
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Disbursement registered"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal is not formalized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/payment [post]
// @Security BearerAuth
func (h *ProposalHandler) MarkProposalPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "mark paid", h.service.MarkProposalPaid)
}

// CancelProposal handles POST /proposals/{proposalID}/cancel
// @Summary Cancel a proposal
// @Description Cancels a proposal at the customer's request. Terminal and formalized proposals cannot be cancelled.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Param request body dto.ReasonRequest true "Cancellation reason"
// @Success 200 {object} dto.ProposalResponse "Proposal cancelled"
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal cannot be cancelled in its current state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/cancel [post]
// @Security BearerAuth
func (h *ProposalHandler) CancelProposal(w http.ResponseWriter, r *http.Request) {
	h.transitionWithReason(w, r, "cancel", h.service.CancelProposal)
}

// SuspendProposal handles POST /proposals/{proposalID}/suspend
// @Summary Suspend a proposal
// @Description Suspends an in-flight proposal pending fraud or compliance review.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Param request body dto.ReasonRequest true "Suspension reason"
// @Success 200 {object} dto.ProposalResponse "Proposal suspended"
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Proposal cannot be suspended in its current state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/suspend [post]
// @Security BearerAuth
func (h *ProposalHandler) SuspendProposal(w http.ResponseWriter, r *http.Request) {
	h.transitionWithReason(w, r, "suspend", h.service.SuspendProposal)
}

// ReactivateProposal handles POST /proposals/{proposalID}/reactivate
// @Summary Reactivate a suspended or pending proposal
// @Tags Lifecycle
// @Produce json
// @Param proposalID path string true "Proposal ID (UUID)"
// @Success 200 {object} dto.ProposalResponse "Proposal back under analysis"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid lifecycle state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals/{proposalID}/reactivate [post]
// @Security BearerAuth
func (h *ProposalHandler) ReactivateProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reactivate", h.service.ReactivateProposal)
}

func (h *ProposalHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	op func(ctx context.Context, id string) (*proposal.Proposal, error),
) {
	proposalID, err := getProposalIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	updated, err := op(r.Context(), proposalID)
	if err != nil {
		h.logTransitionError(r, action, err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Proposal transition applied",
		slog.String("proposalID", proposalID),
		slog.String("action", action),
		slog.String("status", string(updated.Status)))
	respondJSON(w, http.StatusOK, dto.NewProposalResponse(updated))
}

func (h *ProposalHandler) transitionWithReason(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	op func(ctx context.Context, id, reason string) (*proposal.Proposal, error),
) {
	proposalID, err := getProposalIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.ReasonRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := op(r.Context(), proposalID, req.Reason)
	if err != nil {
		h.logTransitionError(r, action, err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Proposal transition applied",
		slog.String("proposalID", proposalID),
		slog.String("action", action),
		slog.String("status", string(updated.Status)))
	respondJSON(w, http.StatusOK, dto.NewProposalResponse(updated))
}

func (h *ProposalHandler) logTransitionError(r *http.Request, action string, err error) {
	level := slog.LevelWarn
	if !errors.Is(err, apperrors.ErrNotFound) &&
		!errors.Is(err, apperrors.ErrInvalidTransition) &&
		!errors.Is(err, apperrors.ErrValidation) &&
		!errors.Is(err, apperrors.ErrInvariantViolation) {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "Proposal transition failed",
		slog.String("action", action), slog.Any("error", err))
}
