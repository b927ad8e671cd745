package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, orgID, id string) (*domain.Account, error)
	GetBalance(ctx context.Context, orgID, id string) (decimal.Decimal, error)
	ListAccounts(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error)
	DeactivateAccount(ctx context.Context, orgID, id string) error
	ReactivateAccount(ctx context.Context, orgID, id string) error
	AdjustBalance(ctx context.Context, orgID, id string, target decimal.Decimal, reason, adjustedBy string) (*domain.Transaction, error)
}

// AccountHandler handles bank account HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new bank account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(orgID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), middleware.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetBalance returns the current balance of an active account.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.accountUC.GetBalance(r.Context(), middleware.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}

// List lists the organization's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), middleware.OrganizationID(r.Context()), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Deactivate marks an account inactive. Existing entries survive; new
// ones are refused.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accountUC.DeactivateAccount(r.Context(), middleware.OrganizationID(r.Context()), id); err != nil {
		writeError(w, mapDomainError(err), "failed to deactivate account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "inactive"})
}

// Reactivate marks an account active again.
func (h *AccountHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accountUC.ReactivateAccount(r.Context(), middleware.OrganizationID(r.Context()), id); err != nil {
		writeError(w, mapDomainError(err), "failed to reactivate account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// AdjustBalance reconciles the stored balance to a target value through
// an adjustment entry.
func (h *AccountHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AdjustBalanceRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	txn, err := h.accountUC.AdjustBalance(r.Context(), orgID, id, req.TargetBalance, req.Reason, userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to adjust balance", err.Error())
		return
	}

	// A nil entry means the stored balance already matched the target.
	if txn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "unchanged"})
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}
