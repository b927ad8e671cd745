package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Run executes a full reconciliation pass over the organization. The
// pass reports drift; it never mutates balances.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.Reconcile(r.Context(), middleware.OrganizationID(r.Context()))
	if err != nil {
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}

// CheckAccount recomputes one account's balance from its ledger.
func (h *ReconciliationHandler) CheckAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	drift, err := h.reconciliationUC.CheckAccount(r.Context(), middleware.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountDriftResponse{
		AccountID: drift.AccountID,
		Name:      drift.Name,
		Stored:    drift.Stored,
		Computed:  drift.Computed,
		Drift:     drift.Drift,
	})
}
