package settlement

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/momosplit/internal/balance"
	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/group"
	"github.com/fkhayef/momosplit/pkg/middleware"
	"github.com/fkhayef/momosplit/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/preview", h.Preview)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/pay", h.MarkAsPaid)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/reject", h.Reject)

	return r
}

// MountGroupRoutes adds the balance views under a group router
func (h *Handler) MountGroupRoutes(r chi.Router) {
	r.Get("/{id}/balances", h.GroupBalances)
	r.Get("/{id}/debts", h.GroupDebts)
	r.Get("/{id}/settlements", h.ListByGroup)
}

// Create handles POST /settlements
// @Summary      Request a settlement
// @Description  Open a payment request with another member. Direction and default amount come from the group's simplified debts.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1 // Default for development
	}

	var req CreateSettlementRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	settlement, err := h.service.CreateFromDebt(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create settlement")
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// Preview handles POST /settlements/preview
// @Summary      Preview a settlement
// @Description  Show every member's balance as it would be after a transfer. Nothing is saved.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body PreviewSettlementRequest true "Transfer to try"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/preview [post]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewSettlementRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	balances, err := h.service.Preview(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to preview settlement")
		return
	}

	h.writeBalances(w, r, req.GroupID, balances)
}

// GetByID handles GET /settlements/{id}
// @Summary      Get settlement by ID
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// List handles GET /settlements
// @Summary      List my settlements
// @Tags         settlements
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	page, perPage := response.Pagination(r, 20)

	settlements, total, err := h.service.ListByUserID(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, toResponses(settlements), response.NewMeta(page, perPage, total))
}

// ListByGroup handles GET /groups/{id}/settlements
// @Summary      List group settlements
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /groups/{id}/settlements [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	settlements, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(settlements))
}

// MarkAsPaid handles POST /settlements/{id}/pay
// @Summary      Mark a settlement as paid
// @Description  The payer reports the mobile-money transfer as sent
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/pay [post]
func (h *Handler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkAsPaid, "Failed to mark settlement as paid")
}

// Confirm handles POST /settlements/{id}/confirm
// @Summary      Confirm a settlement
// @Description  The receiver confirms the money arrived. The transfer is recorded against group balances.
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm, "Failed to confirm settlement")
}

// Reject handles POST /settlements/{id}/reject
// @Summary      Reject a settlement
// @Description  The receiver reports the money never arrived
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject, "Failed to reject settlement")
}

// GroupBalances handles GET /groups/{id}/balances
// @Summary      Group balances
// @Description  Net balance per member. Positive means the member is owed money.
// @Tags         balances
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/balances [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.Balances(r.Context(), groupID)
	if err != nil {
		writeError(w, err, "Failed to compute balances")
		return
	}

	h.writeBalances(w, r, groupID, balances)
}

// GroupDebts handles GET /groups/{id}/debts
// @Summary      Simplified debts
// @Description  The transfers that settle the group, with the receiver's wallet number
// @Tags         balances
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]DebtResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/debts [get]
func (h *Handler) GroupDebts(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	debts, err := h.service.Debts(r.Context(), groupID)
	if err != nil {
		writeError(w, err, "Failed to compute debts")
		return
	}

	names, phones, err := h.service.Members(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to load group members")
		return
	}

	debtResponses := make([]*DebtResponse, len(debts))
	for i, d := range debts {
		debtResponses[i] = toDebtResponse(d, names, phones)
	}

	response.JSON(w, http.StatusOK, debtResponses)
}

type transitionFunc func(ctx context.Context, settlementID, userID int64) (*Settlement, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply transitionFunc, fallback string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1 // Default for development
	}

	settlement, err := apply(r.Context(), id, userID)
	if err != nil {
		writeError(w, err, fallback)
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

func (h *Handler) writeBalances(w http.ResponseWriter, r *http.Request, groupID int64, balances []balance.Balance) {
	names, _, err := h.service.Members(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to load group members")
		return
	}

	balanceResponses := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		balanceResponses[i] = toBalanceResponse(b, names[b.UserID])
	}

	response.JSON(w, http.StatusOK, balanceResponses)
}

func toResponses(settlements []*Settlement) []*SettlementResponse {
	out := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = s.ToResponse()
	}
	return out
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSettlementNotFound), errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotPayer), errors.Is(err, ErrNotReceiver):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidStatusChange), errors.Is(err, ErrSettlementOpen):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrAlreadySettled),
		errors.Is(err, ErrCannotSettleSelf),
		errors.Is(err, ErrAmountExceedsDebt),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, balance.ErrCurrencyMismatch),
		errors.Is(err, expense.ErrNotGroupMember):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
