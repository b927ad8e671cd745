package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trunohq/truno-ledger/internal/adapter/http/dto"
	"github.com/trunohq/truno-ledger/internal/adapter/http/middleware"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

// ScheduleHandler handles payment schedule HTTP requests.
type ScheduleHandler struct {
	scheduleUC *usecase.ScheduleUseCase
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleUC *usecase.ScheduleUseCase) *ScheduleHandler {
	return &ScheduleHandler{scheduleUC: scheduleUC}
}

// Create replaces a record's schedule with new installments.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	recordID := chi.URLParam(r, "id")

	var req dto.CreateScheduleRequest
	if !decode(w, r, &req) {
		return
	}

	orgID := middleware.OrganizationID(r.Context())
	userID := middleware.UserID(r.Context())

	installments, err := h.scheduleUC.CreateSchedule(r.Context(), req.ToUseCaseInput(orgID, kind, recordID, userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create schedule", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.InstallmentsFromDomain(installments))
}

// List lists a record's installments in schedule order.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKindParam(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record kind", "kind must be sale or expense")
		return
	}

	recordID := chi.URLParam(r, "id")

	installments, err := h.scheduleUC.ListSchedule(r.Context(), middleware.OrganizationID(r.Context()), kind, recordID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list schedule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InstallmentsFromDomain(installments))
}
