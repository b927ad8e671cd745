package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// TransactionHandler handles ledger entry HTTP requests.
type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create creates a new ledger entry.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	txn, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput(orgID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a ledger entry by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.transactionUC.GetTransaction(r.Context(), middleware.OrganizationID(r.Context()), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Update edits descriptive fields and the sale/expense link.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	txn, err := h.transactionUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(orgID, id, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a ledger entry and reverses its balance delta.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	if err := h.transactionUC.DeleteTransaction(r.Context(), orgID, id, userID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Convert turns an unlinked entry into a new sale or expense that the
// entry settles.
func (h *TransactionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.ConvertTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	rec, err := h.transactionUC.ConvertTransaction(r.Context(), req.ToUseCaseInput(orgID, id, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to convert transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecordFromDomain(rec))
}

// List lists ledger entries matching the query filters.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	txns, total, err := h.transactionUC.ListTransactions(r.Context(), middleware.OrganizationID(r.Context()), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionListResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        total,
	})
}

// Summary returns credit/debit totals for the filtered entries.
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	summary, err := h.transactionUC.Summarize(r.Context(), middleware.OrganizationID(r.Context()), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}

// ListByAccount lists ledger entries for one account.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	filter := filterFromQuery(r)
	filter.AccountID = accountID

	txns, total, err := h.transactionUC.ListTransactions(r.Context(), middleware.OrganizationID(r.Context()), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionListResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        total,
	})
}

func filterFromQuery(r *http.Request) usecase.TransactionFilter {
	q := r.URL.Query()

	filter := usecase.TransactionFilter{
		AccountID: q.Get("account_id"),
		Direction: domain.Direction(q.Get("direction")),
		Category:  q.Get("category"),
		ContactID: q.Get("contact_id"),
		StartDate: parseTimeQuery(r, "start_date"),
		EndDate:   parseTimeQuery(r, "end_date"),
		Search:    q.Get("search"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	switch q.Get("linked") {
	case "true":
		linked := true
		filter.Linked = &linked
	case "false":
		linked := false
		filter.Linked = &linked
	}

	return filter
}
