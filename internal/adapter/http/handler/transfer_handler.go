package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.CreateTransferInput) (*usecase.TransferResult, error)
	GetTransfer(ctx context.Context, orgID, entryID string) (*usecase.TransferResult, error)
	ReverseTransfer(ctx context.Context, orgID, entryID, reversedBy string) error
	UpdateTransferStatus(ctx context.Context, orgID, entryID string, status domain.TransferStatus) error
}

// TransferHandler handles internal transfer HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create moves money between two accounts as a debit/credit pair.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	result, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput(orgID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromUseCase(result))
}

// Get retrieves both legs of a transfer by either leg's entry ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer entry ID", "")
		return
	}

	result, err := h.transferUC.GetTransfer(r.Context(), middleware.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromUseCase(result))
}

// Reverse deletes both legs of a transfer and restores both balances.
func (h *TransferHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	if err := h.transferUC.ReverseTransfer(r.Context(), orgID, id, userID); err != nil {
		writeError(w, mapDomainError(err), "failed to reverse transfer", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus changes the advisory status on both legs of a pair.
func (h *TransferHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTransferStatusRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())

	err := h.transferUC.UpdateTransferStatus(r.Context(), orgID, id, domain.TransferStatus(req.Status))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update transfer status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
