package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// RecordHandler handles sale and expense HTTP requests. Both kinds
// share routes under /records/{kind}.
type RecordHandler struct {
	recordUC *usecase.RecordUseCase
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordUC *usecase.RecordUseCase) *RecordHandler {
	return &RecordHandler{recordUC: recordUC}
}

// Create creates a sale or expense.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	var req dto.CreateRecordRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	record, err := h.recordUC.CreateRecord(r.Context(), req.ToUseCaseInput(orgID, kind, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create record", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecordFromDomain(record))
}

// Get retrieves a sale or expense by ID.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	id := chi.URLParam(r, "id")

	record, err := h.recordUC.GetRecord(r.Context(), middleware.OrganizationID(r.Context()), kind, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get record", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordFromDomain(record))
}

// List lists the organization's sales or expenses.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.recordUC.ListRecords(r.Context(), middleware.OrganizationID(r.Context()), kind, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list records", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordsFromDomain(records))
}

// Delete removes a record with no collected payments.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.recordUC.DeleteRecord(r.Context(), middleware.OrganizationID(r.Context()), kind, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete record", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
